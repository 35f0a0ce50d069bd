package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ilkeratar/mobiversite-ecommerce/internal/domain"
	"github.com/ilkeratar/mobiversite-ecommerce/internal/event"
	"github.com/ilkeratar/mobiversite-ecommerce/internal/repository"
	apperrors "github.com/ilkeratar/mobiversite-ecommerce/pkg/errors"
)

// ProductSource supplies catalog products for cart additions.
type ProductSource interface {
	Product(ctx context.Context, id int) (domain.Product, error)
}

// CartView is the client-facing snapshot of a user's cart: the line items plus
// everything derived from them.
type CartView struct {
	Items         []domain.LineItem `json:"items"`
	Stats         domain.CartStats  `json:"stats"`
	PromoCode     string            `json:"promo_code,omitempty"`
	PromoDiscount float64           `json:"promo_discount"`
}

// userCart is the in-memory state for one user. The in-memory copy is the
// source of truth while the process is alive; Redis is a write-through backup
// consulted once, at hydration.
type userCart struct {
	mu       sync.Mutex
	hydrated bool
	items    []domain.LineItem
	promo    string
}

// CartService implements the cart engine: slot-based item management, derived
// stats, promotion handling and quote composition. Mutations are serialized
// per user; different users never contend.
type CartService struct {
	repo     repository.CartRepository
	catalog  ProductSource
	producer *event.Producer
	logger   *slog.Logger

	mu    sync.Mutex
	carts map[string]*userCart
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, catalog ProductSource, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
		carts:    make(map[string]*userCart),
	}
}

// withCart runs fn with the user's cart locked and hydrated.
func (s *CartService) withCart(ctx context.Context, userID string, fn func(uc *userCart) error) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	s.mu.Lock()
	uc, ok := s.carts[userID]
	if !ok {
		uc = &userCart{}
		s.carts[userID] = uc
	}
	s.mu.Unlock()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !uc.hydrated {
		s.hydrate(ctx, userID, uc)
	}

	return fn(uc)
}

// hydrate loads persisted state for a user. Persistence problems never block
// the cart: unreadable state is logged and replaced with an empty cart, and
// individually invalid entries have already been dropped at decode time.
func (s *CartService) hydrate(ctx context.Context, userID string, uc *userCart) {
	items, err := s.repo.GetItems(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable persisted cart",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		items = nil
	}
	uc.items = domain.MergeItems(domain.FilterValidItems(items))

	code, err := s.repo.GetPromoCode(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable persisted promo code",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		code = ""
	}
	if domain.IsValidPromoCode(code) {
		uc.promo = domain.ValidPromoCode
	}

	uc.hydrated = true
}

// persistItems writes the current items through to Redis. Failure is logged
// and never surfaced: the in-memory cart remains authoritative.
func (s *CartService) persistItems(ctx context.Context, userID string, uc *userCart) {
	if err := s.repo.SaveItems(ctx, userID, uc.items); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart items",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) persistPromo(ctx context.Context, userID string, uc *userCart) {
	var err error
	if uc.promo == "" {
		err = s.repo.DeletePromoCode(ctx, userID)
	} else {
		err = s.repo.SavePromoCode(ctx, userID, uc.promo)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist promo code",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) publishUpdated(ctx context.Context, userID string, uc *userCart) {
	stats := domain.CalculateStats(uc.items)
	if err := s.producer.PublishCartUpdated(ctx, userID, uc.items, stats); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) view(uc *userCart) CartView {
	items := make([]domain.LineItem, len(uc.items))
	copy(items, uc.items)

	stats := domain.CalculateStats(items)
	return CartView{
		Items:         items,
		Stats:         stats,
		PromoCode:     uc.promo,
		PromoDiscount: domain.PromoDiscount(uc.promo, stats.TotalPrice),
	}
}

// GetCart returns the current cart snapshot for a user, hydrating from the
// store on first access.
func (s *CartService) GetCart(ctx context.Context, userID string) (CartView, error) {
	var view CartView
	err := s.withCart(ctx, userID, func(uc *userCart) error {
		view = s.view(uc)
		return nil
	})
	return view, err
}

// AddItem adds a product configuration to the cart. An existing slot with the
// same product and options absorbs the quantity; otherwise a new line item is
// appended at the end.
func (s *CartService) AddItem(ctx context.Context, userID string, productID, quantity int, options map[string]string) (CartView, error) {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return CartView{}, err
	}

	item, err := domain.NewLineItem(product, quantity, options)
	if err != nil {
		return CartView{}, err
	}

	var view CartView
	err = s.withCart(ctx, userID, func(uc *userCart) error {
		merged := false
		for i := range uc.items {
			if uc.items[i].Matches(productID, options) {
				uc.items[i].Quantity += quantity
				merged = true
				break
			}
		}
		if !merged {
			uc.items = append(uc.items, item)
		}

		s.persistItems(ctx, userID, uc)
		s.publishUpdated(ctx, userID, uc)

		s.logger.InfoContext(ctx, "item added to cart",
			slog.String("user_id", userID),
			slog.Int("product_id", productID),
			slog.Int("quantity", quantity),
			slog.Bool("merged", merged),
		)

		view = s.view(uc)
		return nil
	})
	return view, err
}

// RemoveItem removes the slot matching the given product and options.
// Removing a slot that is not in the cart is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID string, productID int, options map[string]string) (CartView, error) {
	var view CartView
	err := s.withCart(ctx, userID, func(uc *userCart) error {
		kept := uc.items[:0]
		removed := false
		for _, item := range uc.items {
			if !removed && item.Matches(productID, options) {
				removed = true
				continue
			}
			kept = append(kept, item)
		}
		uc.items = kept

		if removed {
			s.persistItems(ctx, userID, uc)
			s.publishUpdated(ctx, userID, uc)

			s.logger.InfoContext(ctx, "item removed from cart",
				slog.String("user_id", userID),
				slog.Int("product_id", productID),
			)
		}

		view = s.view(uc)
		return nil
	})
	return view, err
}

// UpdateQuantity sets the quantity of the slot matching the given product and
// options. A quantity that fails validation removes the slot instead of
// storing a broken value. A slot that is not in the cart is left alone.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID int, options map[string]string, quantity int) (CartView, error) {
	if !domain.IsValidQuantity(quantity) {
		return s.RemoveItem(ctx, userID, productID, options)
	}

	var view CartView
	err := s.withCart(ctx, userID, func(uc *userCart) error {
		changed := false
		for i := range uc.items {
			if uc.items[i].Matches(productID, options) {
				changed = uc.items[i].Quantity != quantity
				uc.items[i].Quantity = quantity
				break
			}
		}

		if changed {
			s.persistItems(ctx, userID, uc)
			s.publishUpdated(ctx, userID, uc)

			s.logger.InfoContext(ctx, "cart item quantity updated",
				slog.String("user_id", userID),
				slog.Int("product_id", productID),
				slog.Int("quantity", quantity),
			)
		}

		view = s.view(uc)
		return nil
	})
	return view, err
}

// Clear empties the cart and drops any applied promotion code.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.withCart(ctx, userID, func(uc *userCart) error {
		uc.items = nil
		uc.promo = ""

		if err := s.repo.DeleteItems(ctx, userID); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete persisted cart items",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		s.persistPromo(ctx, userID, uc)

		if err := s.producer.PublishCartCleared(ctx, userID); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}

		s.logger.InfoContext(ctx, "cart cleared",
			slog.String("user_id", userID),
		)
		return nil
	})
}

// ApplyPromoCode applies a promotion code to the cart. The returned bool
// reports whether the code was accepted; a rejected code is not an error and
// leaves the cart untouched.
func (s *CartService) ApplyPromoCode(ctx context.Context, userID, code string) (CartView, bool, error) {
	if !domain.IsValidPromoCode(code) {
		view, err := s.GetCart(ctx, userID)
		return view, false, err
	}

	var view CartView
	err := s.withCart(ctx, userID, func(uc *userCart) error {
		uc.promo = domain.ValidPromoCode
		s.persistPromo(ctx, userID, uc)

		view = s.view(uc)

		if err := s.producer.PublishPromoApplied(ctx, userID, uc.promo, view.PromoDiscount); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish cart.promo_applied event",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}

		s.logger.InfoContext(ctx, "promo code applied",
			slog.String("user_id", userID),
			slog.String("code", uc.promo),
		)
		return nil
	})
	return view, err == nil, err
}

// RemovePromoCode drops the applied promotion code, if any.
func (s *CartService) RemovePromoCode(ctx context.Context, userID string) (CartView, error) {
	var view CartView
	err := s.withCart(ctx, userID, func(uc *userCart) error {
		if uc.promo != "" {
			uc.promo = ""
			s.persistPromo(ctx, userID, uc)
		}
		view = s.view(uc)
		return nil
	})
	return view, err
}

// Quote prices the current cart for checkout: subtotal, flat shipping, tax
// and promotion discount composed into a total.
func (s *CartService) Quote(ctx context.Context, userID string) (domain.OrderQuote, error) {
	var quote domain.OrderQuote
	err := s.withCart(ctx, userID, func(uc *userCart) error {
		quote = domain.NewOrderQuote(uc.items, uc.promo)
		return nil
	})
	return quote, err
}
