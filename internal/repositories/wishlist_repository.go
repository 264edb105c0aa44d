package repositories

import (
	"context"

	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/models"
)

type WishlistRepository interface {
	Load(ctx context.Context) ([]models.WishlistEntry, error)
	Save(ctx context.Context, entries []models.WishlistEntry) error
}

type wishlistRepository struct {
	store kvstore.Store
}

func NewWishlistRepo(store kvstore.Store) WishlistRepository {
	return &wishlistRepository{store: store}
}

func (r *wishlistRepository) Load(ctx context.Context) ([]models.WishlistEntry, error) {
	return loadCollection[models.WishlistEntry](ctx, r.store, KeyWishlist)
}

func (r *wishlistRepository) Save(ctx context.Context, entries []models.WishlistEntry) error {
	return saveCollection(ctx, r.store, KeyWishlist, entries)
}
