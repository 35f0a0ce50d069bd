package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ilkeratar/mobiversite-ecommerce/internal/service"
	apperrors "github.com/ilkeratar/mobiversite-ecommerce/pkg/errors"
	"github.com/ilkeratar/mobiversite-ecommerce/pkg/httputil"
	"github.com/ilkeratar/mobiversite-ecommerce/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
// Quantity defaults to 1 when omitted.
type AddItemRequest struct {
	ProductID       int               `json:"product_id" validate:"required,gt=0"`
	Quantity        *int              `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options"`
}

// UpdateQuantityRequest is the JSON request body for setting a slot's
// quantity. Options travel in the body because they are part of slot identity
// and do not fit a URL path.
type UpdateQuantityRequest struct {
	ProductID       int               `json:"product_id" validate:"required,gt=0"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options"`
}

// RemoveItemRequest is the JSON request body for removing a slot.
type RemoveItemRequest struct {
	ProductID       int               `json:"product_id" validate:"required,gt=0"`
	SelectedOptions map[string]string `json:"selected_options"`
}

// ApplyPromoRequest is the JSON request body for applying a promotion code.
type ApplyPromoRequest struct {
	Code string `json:"code" validate:"required"`
}

// PromoResponse reports whether a promotion code was accepted, alongside the
// resulting cart.
type PromoResponse struct {
	Applied bool             `json:"applied"`
	Cart    service.CartView `json:"cart"`
}

// --- Handlers ---

func (h *CartHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := userIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return "", false
	}
	return uid, true
}

func (h *CartHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return false
	}
	if err := validator.Validate(dst); err != nil {
		httputil.WriteValidationError(w, err)
		return false
	}
	return true
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.service.AddItem(r.Context(), userID, req.ProductID, quantity, req.SelectedOptions)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// UpdateQuantity handles PUT /api/v1/cart/items
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}

	view, err := h.service.UpdateQuantity(r.Context(), userID, req.ProductID, req.SelectedOptions, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// RemoveItem handles DELETE /api/v1/cart/items
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req RemoveItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	view, err := h.service.RemoveItem(r.Context(), userID, req.ProductID, req.SelectedOptions)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// ApplyPromo handles POST /api/v1/cart/promo
func (h *CartHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req ApplyPromoRequest
	if !h.decode(w, r, &req) {
		return
	}

	view, applied, err := h.service.ApplyPromoCode(r.Context(), userID, req.Code)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: PromoResponse{Applied: applied, Cart: view}})
}

// RemovePromo handles DELETE /api/v1/cart/promo
func (h *CartHandler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	view, err := h.service.RemovePromoCode(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// Quote handles GET /api/v1/cart/quote
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	quote, err := h.service.Quote(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: quote})
}
