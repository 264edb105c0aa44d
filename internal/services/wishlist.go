package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stylehub/storefront/internal/errors"
	"github.com/stylehub/storefront/internal/models"
	repository "github.com/stylehub/storefront/internal/repositories"
)

type WishlistService interface {
	GetWishlist(ctx context.Context) (*models.WishlistResponse, error)
	AddItem(ctx context.Context, req *models.AddWishlistRequest) (*models.WishlistResponse, error)
	RemoveItem(ctx context.Context, entryID string) (*models.WishlistResponse, error)
	MoveToCart(ctx context.Context, entryID string) (*models.CartResponse, error)
}

type wishlistService struct {
	repo repository.WishlistRepository
	cart CartService
	mu   sync.Mutex
}

func NewWishlistService(repo repository.WishlistRepository, cart CartService) WishlistService {
	return &wishlistService{repo: repo, cart: cart}
}

func (s *wishlistService) GetWishlist(ctx context.Context) (*models.WishlistResponse, error) {
	entries, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load wishlist").WithError(err)
	}

	return buildWishlistResponse(entries), nil
}

// AddItem rejects a duplicate product name with no mutation.
func (s *wishlistService) AddItem(ctx context.Context, req *models.AddWishlistRequest) (*models.WishlistResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load wishlist").WithError(err)
	}

	for _, entry := range entries {
		if entry.Name == req.Name {
			return nil, errors.DuplicateEntryError("Item already in wishlist")
		}
	}

	entries = append(entries, models.WishlistEntry{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
	})

	if err := s.repo.Save(ctx, entries); err != nil {
		return nil, errors.StorageError("Failed to update wishlist").WithError(err)
	}

	return buildWishlistResponse(entries), nil
}

func (s *wishlistService) RemoveItem(ctx context.Context, entryID string) (*models.WishlistResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load wishlist").WithError(err)
	}

	filtered := entries[:0:0]

	for _, entry := range entries {
		if entry.ID != entryID {
			filtered = append(filtered, entry)
		}
	}

	if err := s.repo.Save(ctx, filtered); err != nil {
		return nil, errors.StorageError("Failed to update wishlist").WithError(err)
	}

	return buildWishlistResponse(filtered), nil
}

// MoveToCart appends the entry to the cart and removes it from the wishlist.
// The cart write must land durably before the wishlist shrinks, so a failure
// in between leaves the entry saved in both places rather than lost.
func (s *wishlistService) MoveToCart(ctx context.Context, entryID string) (*models.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load wishlist").WithError(err)
	}

	idx := -1

	for i := range entries {
		if entries[i].ID == entryID {
			idx = i

			break
		}
	}

	if idx == -1 {
		// Unknown id is a silent no-op; hand back the cart as it stands.
		return s.cart.GetCart(ctx)
	}

	entry := entries[idx]

	cart, err := s.cart.MergeLines(ctx, []models.LineItem{{
		Name:     entry.Name,
		Price:    entry.Price,
		Image:    entry.Image,
		Quantity: 1,
	}})
	if err != nil {
		return nil, err
	}

	remaining := append(entries[:idx:idx], entries[idx+1:]...)
	if err := s.repo.Save(ctx, remaining); err != nil {
		return nil, errors.StorageError("Failed to update wishlist").WithError(err)
	}

	return cart, nil
}

func buildWishlistResponse(entries []models.WishlistEntry) *models.WishlistResponse {
	if entries == nil {
		entries = []models.WishlistEntry{}
	}

	return &models.WishlistResponse{Items: entries, Total: len(entries)}
}
