package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ilkeratar/mobiversite-ecommerce/internal/domain"
	pkgkafka "github.com/ilkeratar/mobiversite-ecommerce/pkg/kafka"
)

// Kafka topics for cart domain events.
const (
	TopicCartUpdated      = "storefront.cart.updated"
	TopicCartCleared      = "storefront.cart.cleared"
	TopicCartPromoApplied = "storefront.cart.promo_applied"
)

// Aggregate type constant.
const AggregateTypeCart = "cart"

// Source identifier for events originating from this service.
const SourceCartService = "cart-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID string           `json:"user_id"`
	Items  []CartItemData   `json:"items"`
	Stats  domain.CartStats `json:"stats"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID       int               `json:"product_id"`
	Title           string            `json:"title"`
	Price           float64           `json:"price"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// PromoAppliedData is the payload for a cart.promo_applied event.
type PromoAppliedData struct {
	UserID   string  `json:"user_id"`
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}

// Producer publishes cart domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the cart service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event with the current contents
// and derived stats.
func (p *Producer) PublishCartUpdated(ctx context.Context, userID string, items []domain.LineItem, stats domain.CartStats) error {
	payload := make([]CartItemData, len(items))
	for i, item := range items {
		payload[i] = CartItemData{
			ProductID:       item.ProductID,
			Title:           item.Title,
			Price:           item.Price,
			Quantity:        item.Quantity,
			SelectedOptions: item.SelectedOptions,
		}
	}

	data := CartUpdatedData{
		UserID: userID,
		Items:  payload,
		Stats:  stats,
	}

	evt, err := pkgkafka.NewEvent(TopicCartUpdated, userID, AggregateTypeCart, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, evt); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("user_id", userID),
		slog.Int("total_items", stats.TotalItems),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	data := CartClearedData{UserID: userID}

	evt, err := pkgkafka.NewEvent(TopicCartCleared, userID, AggregateTypeCart, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, evt); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("user_id", userID),
	)

	return nil
}

// PublishPromoApplied publishes a cart.promo_applied event.
func (p *Producer) PublishPromoApplied(ctx context.Context, userID, code string, discount float64) error {
	data := PromoAppliedData{UserID: userID, Code: code, Discount: discount}

	evt, err := pkgkafka.NewEvent(TopicCartPromoApplied, userID, AggregateTypeCart, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create cart.promo_applied event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartPromoApplied, evt); err != nil {
		return fmt.Errorf("publish cart.promo_applied event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.promo_applied event",
		slog.String("user_id", userID),
		slog.String("code", code),
	)

	return nil
}
