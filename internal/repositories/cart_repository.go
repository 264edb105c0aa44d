package repositories

import (
	"context"

	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/models"
)

type CartRepository interface {
	Load(ctx context.Context) ([]models.LineItem, error)
	Save(ctx context.Context, items []models.LineItem) error
}

type cartRepository struct {
	store kvstore.Store
}

func NewCartRepo(store kvstore.Store) CartRepository {
	return &cartRepository{store: store}
}

func (r *cartRepository) Load(ctx context.Context) ([]models.LineItem, error) {
	return loadCollection[models.LineItem](ctx, r.store, KeyCart)
}

func (r *cartRepository) Save(ctx context.Context, items []models.LineItem) error {
	return saveCollection(ctx, r.store, KeyCart, items)
}
