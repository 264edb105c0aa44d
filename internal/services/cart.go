package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/stylehub/storefront/internal/currency"
	"github.com/stylehub/storefront/internal/errors"
	"github.com/stylehub/storefront/internal/metrics"
	"github.com/stylehub/storefront/internal/models"
	repository "github.com/stylehub/storefront/internal/repositories"
)

// CartService owns the canonical cart line items. Every mutation is a full
// read-modify-write against the store, serialized by a mutex so concurrent
// requests behave like the original's run-to-completion event handlers.
type CartService interface {
	GetCart(ctx context.Context) (*models.CartResponse, error)
	AddItem(ctx context.Context, req *models.AddItemRequest) (*models.CartResponse, error)
	UpdateQuantity(ctx context.Context, itemID string, delta int) (*models.CartResponse, error)
	RemoveItem(ctx context.Context, itemID string) (*models.CartResponse, error)
	MergeLines(ctx context.Context, lines []models.LineItem) (*models.CartResponse, error)
	Clear(ctx context.Context) error
	TotalItemCount(ctx context.Context) (int, error)
	Snapshot(ctx context.Context) ([]models.LineItem, error)
}

type cartService struct {
	repo repository.CartRepository
	mu   sync.Mutex
}

func NewCartService(repo repository.CartRepository) CartService {
	return &cartService{repo: repo}
}

func (s *cartService) GetCart(ctx context.Context) (*models.CartResponse, error) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load cart").WithError(err)
	}

	return buildCartResponse(items), nil
}

// AddItem merges by product name: adding a product whose name matches an
// existing entry bumps its quantity instead of duplicating the line.
func (s *cartService) AddItem(ctx context.Context, req *models.AddItemRequest) (*models.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load cart").WithError(err)
	}

	items = mergeLine(items, models.LineItem{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Brand:    req.Brand,
		Quantity: 1,
	})

	if err := s.repo.Save(ctx, items); err != nil {
		return nil, errors.StorageError("Failed to update cart").WithError(err)
	}

	metrics.CartMutations.WithLabelValues("add").Inc()

	return buildCartResponse(items), nil
}

// UpdateQuantity adds delta to the item's quantity, removing the line when it
// drops to zero or below. An unknown id is a silent no-op.
func (s *cartService) UpdateQuantity(ctx context.Context, itemID string, delta int) (*models.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load cart").WithError(err)
	}

	idx := -1

	for i := range items {
		if items[i].ID == itemID {
			idx = i

			break
		}
	}

	if idx == -1 {
		return buildCartResponse(items), nil
	}

	items[idx].Quantity += delta
	if items[idx].Quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	}

	if err := s.repo.Save(ctx, items); err != nil {
		return nil, errors.StorageError("Failed to update cart").WithError(err)
	}

	metrics.CartMutations.WithLabelValues("update").Inc()

	return buildCartResponse(items), nil
}

func (s *cartService) RemoveItem(ctx context.Context, itemID string) (*models.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load cart").WithError(err)
	}

	filtered := items[:0:0]

	for _, item := range items {
		if item.ID != itemID {
			filtered = append(filtered, item)
		}
	}

	if err := s.repo.Save(ctx, filtered); err != nil {
		return nil, errors.StorageError("Failed to update cart").WithError(err)
	}

	metrics.CartMutations.WithLabelValues("remove").Inc()

	return buildCartResponse(filtered), nil
}

// MergeLines re-adds complete line items, respecting each line's quantity and
// merging by name. Backs wishlist move-to-cart and order reorder.
func (s *cartService) MergeLines(ctx context.Context, lines []models.LineItem) (*models.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load cart").WithError(err)
	}

	for _, line := range lines {
		if line.Quantity < 1 {
			line.Quantity = 1
		}

		line.ID = uuid.NewString()
		items = mergeLine(items, line)
	}

	if err := s.repo.Save(ctx, items); err != nil {
		return nil, errors.StorageError("Failed to update cart").WithError(err)
	}

	metrics.CartMutations.WithLabelValues("merge").Inc()

	return buildCartResponse(items), nil
}

func (s *cartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, nil); err != nil {
		return errors.StorageError("Failed to clear cart").WithError(err)
	}

	metrics.CartMutations.WithLabelValues("clear").Inc()

	return nil
}

func (s *cartService) TotalItemCount(ctx context.Context) (int, error) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return 0, errors.StorageError("Failed to load cart").WithError(err)
	}

	return totalItemCount(items), nil
}

// Snapshot returns an independent copy of the current cart for the checkout
// session to freeze.
func (s *cartService) Snapshot(ctx context.Context) ([]models.LineItem, error) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load cart").WithError(err)
	}

	snapshot := make([]models.LineItem, len(items))
	copy(snapshot, items)

	return snapshot, nil
}

func mergeLine(items []models.LineItem, line models.LineItem) []models.LineItem {
	for i := range items {
		if items[i].Name == line.Name {
			items[i].Quantity += line.Quantity

			return items
		}
	}

	return append(items, line)
}

func totalItemCount(items []models.LineItem) int {
	total := 0

	for _, item := range items {
		total += item.Quantity
	}

	return total
}

// subtotalAmount sums unit price times quantity. An unparseable price
// contributes zero rather than poisoning the sum.
func subtotalAmount(items []models.LineItem) float64 {
	var subtotal float64

	for _, item := range items {
		price, err := currency.Parse(item.Price)
		if err != nil {
			slog.Warn("Skipping unparseable price", slog.String("item", item.Name), slog.String("price", item.Price))

			continue
		}

		subtotal += price * float64(item.Quantity)
	}

	return subtotal
}

func buildCartResponse(items []models.LineItem) *models.CartResponse {
	if items == nil {
		items = []models.LineItem{}
	}

	return &models.CartResponse{
		Items:      items,
		TotalItems: totalItemCount(items),
		Subtotal:   currency.Format(subtotalAmount(items)),
	}
}
