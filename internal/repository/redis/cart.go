package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ilkeratar/mobiversite-ecommerce/internal/domain"
)

const (
	itemsKeyPrefix = "cart:items:"
	promoKeyPrefix = "cart:promo:"
)

// CartRepository implements repository.CartRepository using Redis. Items are
// stored as a JSON array under one key and the promotion code as a plain
// string under another.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a new Redis-backed cart repository. A zero ttl
// means the records never expire.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// GetItems loads the persisted line items for a user. The array is decoded
// element by element: an entry that does not fit the line item shape (a
// fractional quantity, a wrongly typed field) is dropped rather than failing
// the whole load. A record that is not a JSON array at all is an error.
func (r *CartRepository) GetItems(ctx context.Context, userID string) ([]domain.LineItem, error) {
	data, err := r.client.Get(ctx, itemsKeyPrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []domain.LineItem{}, nil
		}
		return nil, fmt.Errorf("redis get cart items: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal cart items: %w", err)
	}

	items := make([]domain.LineItem, 0, len(raw))
	for _, entry := range raw {
		var item domain.LineItem
		if err := json.Unmarshal(entry, &item); err != nil {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// SaveItems overwrites the persisted line items for a user.
func (r *CartRepository) SaveItems(ctx context.Context, userID string, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart items: %w", err)
	}

	if err := r.client.Set(ctx, itemsKeyPrefix+userID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart items: %w", err)
	}

	return nil
}

// DeleteItems removes the persisted line items for a user.
func (r *CartRepository) DeleteItems(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, itemsKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del cart items: %w", err)
	}
	return nil
}

// GetPromoCode loads the persisted promotion code for a user.
func (r *CartRepository) GetPromoCode(ctx context.Context, userID string) (string, error) {
	code, err := r.client.Get(ctx, promoKeyPrefix+userID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis get promo code: %w", err)
	}
	return code, nil
}

// SavePromoCode overwrites the persisted promotion code for a user.
func (r *CartRepository) SavePromoCode(ctx context.Context, userID, code string) error {
	if err := r.client.Set(ctx, promoKeyPrefix+userID, code, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set promo code: %w", err)
	}
	return nil
}

// DeletePromoCode removes the persisted promotion code for a user.
func (r *CartRepository) DeletePromoCode(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, promoKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del promo code: %w", err)
	}
	return nil
}
