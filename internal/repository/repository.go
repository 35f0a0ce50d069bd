package repository

import (
	"context"

	"github.com/ilkeratar/mobiversite-ecommerce/internal/domain"
)

// CartRepository defines the persistence contract for per-user cart state.
// Cart contents and the applied promotion code live in separate records so a
// corrupt one never takes the other down with it.
type CartRepository interface {
	// GetItems loads the persisted line items for a user. A missing record
	// yields an empty slice, not an error.
	GetItems(ctx context.Context, userID string) ([]domain.LineItem, error)

	// SaveItems overwrites the persisted line items for a user.
	SaveItems(ctx context.Context, userID string, items []domain.LineItem) error

	// DeleteItems removes the persisted line items for a user.
	DeleteItems(ctx context.Context, userID string) error

	// GetPromoCode loads the persisted promotion code for a user. A missing
	// record yields the empty string.
	GetPromoCode(ctx context.Context, userID string) (string, error)

	// SavePromoCode overwrites the persisted promotion code for a user.
	SavePromoCode(ctx context.Context, userID, code string) error

	// DeletePromoCode removes the persisted promotion code for a user.
	DeletePromoCode(ctx context.Context, userID string) error
}
