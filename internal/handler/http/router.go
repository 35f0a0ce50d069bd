package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ilkeratar/mobiversite-ecommerce/internal/service"
	"github.com/ilkeratar/mobiversite-ecommerce/pkg/health"
	"github.com/ilkeratar/mobiversite-ecommerce/pkg/middleware"
)

// NewRouter creates a chi router with all service routes registered.
func NewRouter(
	cartService *service.CartService,
	wishlistService *service.WishlistService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("cart"))
	r.Use(middleware.Tracing("cart"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cartService, logger)
	wishlistHandler := NewWishlistHandler(wishlistService, logger)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(UserIDFromHeader)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddItem)
		r.Put("/items", cartHandler.UpdateQuantity)
		r.Delete("/items", cartHandler.RemoveItem)

		r.Post("/promo", cartHandler.ApplyPromo)
		r.Delete("/promo", cartHandler.RemovePromo)

		r.Get("/quote", cartHandler.Quote)
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(UserIDFromHeader)

		r.Get("/", wishlistHandler.Get)
		r.Post("/items", wishlistHandler.Add)
		r.Delete("/items/{productID}", wishlistHandler.Remove)
		r.Post("/toggle", wishlistHandler.Toggle)
	})

	return r
}
