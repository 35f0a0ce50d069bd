package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ilkeratar/mobiversite-ecommerce/internal/domain"
	"github.com/ilkeratar/mobiversite-ecommerce/pkg/httpclient"
)

const serviceName = "store-backend"

// Doer abstracts the HTTP client so the backend client works over either the
// retrying client or its circuit breaker wrapper.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Backend talks to the store's CRUD backend: the product catalog and the user
// records that hold wishlists.
type Backend struct {
	baseURL string
	http    Doer
}

// NewBackend creates a client for the store backend at the given base URL.
func NewBackend(baseURL string, doer Doer) *Backend {
	return &Backend{
		baseURL: baseURL,
		http:    doer,
	}
}

func (b *Backend) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create GET request: %w", err)
	}

	resp, err := b.http.Do(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return httpclient.ResponseError(resp, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", serviceName, err)
	}
	return nil
}

// Ping checks that the backend answers requests. Used by the readiness probe.
func (b *Backend) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/products?_limit=1", nil)
	if err != nil {
		return fmt.Errorf("create GET request: %w", err)
	}

	resp, err := b.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ResponseError(resp, serviceName)
	}
	return nil
}

// Product fetches a single catalog product by id.
func (b *Backend) Product(ctx context.Context, id int) (domain.Product, error) {
	var p domain.Product
	if err := b.getJSON(ctx, b.baseURL+"/products/"+strconv.Itoa(id), &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Products fetches the full catalog.
func (b *Backend) Products(ctx context.Context) ([]domain.Product, error) {
	var list []domain.Product
	if err := b.getJSON(ctx, b.baseURL+"/products", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// UserWishlist fetches the wishlist product ids stored on a user record.
// A record without a wishlist field yields an empty list.
func (b *Backend) UserWishlist(ctx context.Context, userID string) ([]int, error) {
	record, err := b.userRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	return wishlistFromRecord(record), nil
}

// SaveUserWishlist replaces the wishlist on a user record. The backend only
// supports whole-record updates, so this reads the record, swaps the wishlist
// field and writes the record back.
func (b *Backend) SaveUserWishlist(ctx context.Context, userID string, wishlist []int) error {
	record, err := b.userRecord(ctx, userID)
	if err != nil {
		return err
	}

	if wishlist == nil {
		wishlist = []int{}
	}
	record["wishlist"] = wishlist

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal user record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.baseURL+"/users/"+userID, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create PUT request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return httpclient.ResponseError(resp, serviceName)
	}
	_ = resp.Body.Close()
	return nil
}

// userRecord fetches the raw user record. The shape beyond the wishlist field
// is the backend's business and is preserved verbatim on write-back.
func (b *Backend) userRecord(ctx context.Context, userID string) (map[string]any, error) {
	var record map[string]any
	if err := b.getJSON(ctx, b.baseURL+"/users/"+userID, &record); err != nil {
		return nil, err
	}
	return record, nil
}

func wishlistFromRecord(record map[string]any) []int {
	raw, ok := record["wishlist"].([]any)
	if !ok {
		return []int{}
	}

	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(float64); ok {
			ids = append(ids, int(f))
		}
	}
	return ids
}
