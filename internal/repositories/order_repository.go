package repositories

import (
	"context"

	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/models"
)

type OrderRepository interface {
	Load(ctx context.Context) ([]models.Order, error)
	Save(ctx context.Context, orders []models.Order) error
}

type orderRepository struct {
	store kvstore.Store
}

func NewOrderRepo(store kvstore.Store) OrderRepository {
	return &orderRepository{store: store}
}

func (r *orderRepository) Load(ctx context.Context) ([]models.Order, error) {
	return loadCollection[models.Order](ctx, r.store, KeyOrders)
}

func (r *orderRepository) Save(ctx context.Context, orders []models.Order) error {
	return saveCollection(ctx, r.store, KeyOrders, orders)
}
