package service

import (
	"context"
	"log/slog"
	"sync"

	apperrors "github.com/ilkeratar/mobiversite-ecommerce/pkg/errors"
)

// WishlistStore is the remote home of a user's wishlist, kept on the user
// record in the store backend.
type WishlistStore interface {
	UserWishlist(ctx context.Context, userID string) ([]int, error)
	SaveUserWishlist(ctx context.Context, userID string, wishlist []int) error
}

type userWishlist struct {
	mu       sync.Mutex
	hydrated bool
	ids      []int
}

// WishlistService manages per-user wishlists with optimistic writes: the
// local copy mutates first, the backend is updated after, and a failed update
// rolls the local copy back so the caller sees consistent state alongside the
// error.
type WishlistService struct {
	store  WishlistStore
	logger *slog.Logger

	mu    sync.Mutex
	lists map[string]*userWishlist
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(store WishlistStore, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		store:  store,
		logger: logger,
		lists:  make(map[string]*userWishlist),
	}
}

func (s *WishlistService) withList(ctx context.Context, userID string, fn func(ul *userWishlist) error) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	s.mu.Lock()
	ul, ok := s.lists[userID]
	if !ok {
		ul = &userWishlist{}
		s.lists[userID] = ul
	}
	s.mu.Unlock()

	ul.mu.Lock()
	defer ul.mu.Unlock()

	if !ul.hydrated {
		ids, err := s.store.UserWishlist(ctx, userID)
		if err != nil {
			return err
		}
		ul.ids = ids
		ul.hydrated = true
	}

	return fn(ul)
}

func snapshot(ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

func contains(ids []int, productID int) bool {
	for _, id := range ids {
		if id == productID {
			return true
		}
	}
	return false
}

// Get returns the user's wishlist, fetching it from the backend on first
// access.
func (s *WishlistService) Get(ctx context.Context, userID string) ([]int, error) {
	var ids []int
	err := s.withList(ctx, userID, func(ul *userWishlist) error {
		ids = snapshot(ul.ids)
		return nil
	})
	return ids, err
}

// Add puts a product on the wishlist. Adding a product that is already listed
// is a no-op. The backend write happens after the local mutation; if it fails
// the local list is restored and the error surfaced.
func (s *WishlistService) Add(ctx context.Context, userID string, productID int) ([]int, error) {
	var ids []int
	err := s.withList(ctx, userID, func(ul *userWishlist) error {
		if contains(ul.ids, productID) {
			ids = snapshot(ul.ids)
			return nil
		}

		prev := snapshot(ul.ids)
		ul.ids = append(ul.ids, productID)

		if err := s.store.SaveUserWishlist(ctx, userID, ul.ids); err != nil {
			ul.ids = prev
			s.logger.WarnContext(ctx, "wishlist add rolled back",
				slog.String("user_id", userID),
				slog.Int("product_id", productID),
				slog.String("error", err.Error()),
			)
			return err
		}

		s.logger.InfoContext(ctx, "product added to wishlist",
			slog.String("user_id", userID),
			slog.Int("product_id", productID),
		)

		ids = snapshot(ul.ids)
		return nil
	})
	return ids, err
}

// Remove takes a product off the wishlist, with the same optimistic write and
// rollback behavior as Add. Removing an unlisted product is a no-op.
func (s *WishlistService) Remove(ctx context.Context, userID string, productID int) ([]int, error) {
	var ids []int
	err := s.withList(ctx, userID, func(ul *userWishlist) error {
		if !contains(ul.ids, productID) {
			ids = snapshot(ul.ids)
			return nil
		}

		prev := snapshot(ul.ids)
		kept := ul.ids[:0]
		for _, id := range ul.ids {
			if id != productID {
				kept = append(kept, id)
			}
		}
		ul.ids = kept

		if err := s.store.SaveUserWishlist(ctx, userID, ul.ids); err != nil {
			ul.ids = prev
			s.logger.WarnContext(ctx, "wishlist remove rolled back",
				slog.String("user_id", userID),
				slog.Int("product_id", productID),
				slog.String("error", err.Error()),
			)
			return err
		}

		s.logger.InfoContext(ctx, "product removed from wishlist",
			slog.String("user_id", userID),
			slog.Int("product_id", productID),
		)

		ids = snapshot(ul.ids)
		return nil
	})
	return ids, err
}

// Toggle flips a product's wishlist membership and reports whether the
// product is listed afterwards. The membership check and the mutation run
// under one lock so concurrent toggles for the same user cannot both
// observe the same state.
func (s *WishlistService) Toggle(ctx context.Context, userID string, productID int) ([]int, bool, error) {
	var ids []int
	var listed bool
	err := s.withList(ctx, userID, func(ul *userWishlist) error {
		prev := snapshot(ul.ids)

		if contains(ul.ids, productID) {
			kept := ul.ids[:0]
			for _, id := range ul.ids {
				if id != productID {
					kept = append(kept, id)
				}
			}
			ul.ids = kept
			listed = false
		} else {
			ul.ids = append(ul.ids, productID)
			listed = true
		}

		if err := s.store.SaveUserWishlist(ctx, userID, ul.ids); err != nil {
			ul.ids = prev
			listed = contains(prev, productID)
			s.logger.WarnContext(ctx, "wishlist toggle rolled back",
				slog.String("user_id", userID),
				slog.Int("product_id", productID),
				slog.String("error", err.Error()),
			)
			return err
		}

		s.logger.InfoContext(ctx, "wishlist membership toggled",
			slog.String("user_id", userID),
			slog.Int("product_id", productID),
			slog.Bool("listed", listed),
		)

		ids = snapshot(ul.ids)
		return nil
	})
	if err != nil {
		return nil, listed, err
	}
	return ids, listed, nil
}
