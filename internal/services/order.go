package service

import (
	"context"
	"strings"
	"sync"

	"github.com/stylehub/storefront/internal/currency"
	"github.com/stylehub/storefront/internal/errors"
	"github.com/stylehub/storefront/internal/models"
	repository "github.com/stylehub/storefront/internal/repositories"
)

// FilterAll selects every order regardless of status.
const FilterAll = "all"

type OrderService interface {
	List(ctx context.Context, filter, searchTerm string) (*models.OrderListResponse, error)
	Get(ctx context.Context, orderID string) (*models.Order, error)
	Cancel(ctx context.Context, orderID string, confirm bool) (*models.Order, error)
	Reorder(ctx context.Context, orderID string) (*models.CartResponse, error)
	Stats(ctx context.Context) (*models.OrderStats, error)
	Track(ctx context.Context, orderID string) (*models.TrackingInfo, error)
}

type orderService struct {
	repo repository.OrderRepository
	cart CartService
	mu   sync.Mutex
}

func NewOrderService(repo repository.OrderRepository, cart CartService) OrderService {
	return &orderService{repo: repo, cart: cart}
}

// List returns orders in insertion order (chronological), narrowed by status
// filter and then by a case-insensitive search over order id and item names.
func (s *orderService) List(ctx context.Context, filter, searchTerm string) (*models.OrderListResponse, error) {
	if filter == "" {
		filter = FilterAll
	}

	if filter != FilterAll && !models.OrderStatus(filter).Valid() {
		return nil, errors.BadRequestError("Unknown order status filter: " + filter)
	}

	orders, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load order history").WithError(err)
	}

	matched := make([]models.Order, 0, len(orders))

	for _, order := range orders {
		if filter != FilterAll && order.Status != models.OrderStatus(filter) {
			continue
		}

		if searchTerm != "" && !orderMatches(order, searchTerm) {
			continue
		}

		matched = append(matched, order)
	}

	return &models.OrderListResponse{Orders: matched, Total: len(matched)}, nil
}

func (s *orderService) Get(ctx context.Context, orderID string) (*models.Order, error) {
	orders, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load order history").WithError(err)
	}

	for i := range orders {
		if orders[i].ID == orderID {
			return &orders[i], nil
		}
	}

	return nil, errors.NotFoundError("Order not found")
}

// Cancel needs the caller's explicit confirmation and only moves
// processing or shipped orders to cancelled; delivered and already-cancelled
// orders are rejected untouched.
func (s *orderService) Cancel(ctx context.Context, orderID string, confirm bool) (*models.Order, error) {
	if !confirm {
		return nil, errors.ValidationError("Cancellation requires confirmation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load order history").WithError(err)
	}

	idx := -1

	for i := range orders {
		if orders[i].ID == orderID {
			idx = i

			break
		}
	}

	if idx == -1 {
		return nil, errors.NotFoundError("Order not found")
	}

	if !orders[idx].Status.CanCancel() {
		return nil, errors.BadRequestError("Order can no longer be cancelled")
	}

	orders[idx].Status = models.OrderStatusCancelled

	if err := s.repo.Save(ctx, orders); err != nil {
		return nil, errors.StorageError("Failed to update order").WithError(err)
	}

	return &orders[idx], nil
}

// Reorder puts every line item of a past order back into the cart at its
// original quantity, merging with whatever is already there.
func (s *orderService) Reorder(ctx context.Context, orderID string) (*models.CartResponse, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return s.cart.MergeLines(ctx, order.Items)
}

// Stats are recomputed from the order history on every call; nothing here is
// ever persisted, so the numbers cannot drift from the orders themselves.
func (s *orderService) Stats(ctx context.Context) (*models.OrderStats, error) {
	orders, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load order history").WithError(err)
	}

	stats := &models.OrderStats{TotalOrders: len(orders)}

	var spent float64

	for _, order := range orders {
		switch order.Status {
		case models.OrderStatusDelivered:
			stats.DeliveredCount++
		case models.OrderStatusProcessing, models.OrderStatusShipped:
			stats.PendingCount++
		}

		if amount, err := currency.Parse(order.Total); err == nil {
			spent += amount
		}
	}

	stats.TotalSpent = currency.Format(spent)

	return stats, nil
}

func (s *orderService) Track(ctx context.Context, orderID string) (*models.TrackingInfo, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &models.TrackingInfo{
		OrderID:           order.ID,
		TrackingID:        order.TrackingID,
		Status:            order.Status,
		EstimatedDelivery: order.EstimatedDelivery,
		Available:         order.TrackingID != "",
	}, nil
}

func orderMatches(order models.Order, term string) bool {
	needle := strings.ToLower(term)

	if strings.Contains(strings.ToLower(order.ID), needle) {
		return true
	}

	for _, item := range order.Items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			return true
		}
	}

	return false
}
