package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylehub/storefront/internal/api/handlers"
	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/models"
	repository "github.com/stylehub/storefront/internal/repositories"
	service "github.com/stylehub/storefront/internal/services"
)

func newOrderMux(t *testing.T, orders []models.Order) *http.ServeMux {
	t.Helper()

	store := kvstore.NewMemoryStore()
	orderRepo := repository.NewOrderRepo(store)
	require.NoError(t, orderRepo.Save(context.Background(), orders))

	cartService := service.NewCartService(repository.NewCartRepo(store))
	orderService := service.NewOrderService(orderRepo, cartService)
	handler := handlers.NewOrderHandler(orderService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/orders", handler.List())
	mux.HandleFunc("GET /api/v1/orders/stats", handler.Stats())
	mux.HandleFunc("GET /api/v1/orders/{id}", handler.Get())
	mux.HandleFunc("GET /api/v1/orders/{id}/tracking", handler.Track())
	mux.HandleFunc("POST /api/v1/orders/{id}/cancel", handler.Cancel())
	mux.HandleFunc("POST /api/v1/orders/{id}/reorder", handler.Reorder())

	return mux
}

func handlerTestOrders() []models.Order {
	return []models.Order{
		{
			ID:     "SH00000001",
			Items:  []models.LineItem{{ID: "a", Name: "Classic White Shirt", Price: "₹500.00", Quantity: 2}},
			Total:  "₹1,677.00",
			Date:   time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
			Status: models.OrderStatusProcessing,
		},
		{
			ID:     "SH00000002",
			Items:  []models.LineItem{{ID: "b", Name: "Denim Jacket", Price: "₹2,499.00", Quantity: 1}},
			Total:  "₹3,445.82",
			Date:   time.Date(2026, 1, 13, 12, 0, 0, 0, time.UTC),
			Status: models.OrderStatusDelivered,
		},
	}
}

func TestOrderHandlerList(t *testing.T) {
	mux := newOrderMux(t, handlerTestOrders())

	t.Run("Success - All", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
		rr := httptest.NewRecorder()

		mux.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"total":2`)
	})

	t.Run("Success - Filtered And Searched", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=delivered&q=denim", nil)
		rr := httptest.NewRecorder()

		mux.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"total":1`)
		assert.Contains(t, rr.Body.String(), "SH00000002")
	})

	t.Run("Failure - Unknown Status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=returned", nil)
		rr := httptest.NewRecorder()

		mux.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "BAD_REQUEST")
	})
}

func TestOrderHandlerCancel(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mux := newOrderMux(t, handlerTestOrders())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/SH00000001/cancel", strings.NewReader(`{"confirm": true}`))
		rr := httptest.NewRecorder()

		mux.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"cancelled"`)
	})

	t.Run("Failure - Delivered Order", func(t *testing.T) {
		mux := newOrderMux(t, handlerTestOrders())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/SH00000002/cancel", strings.NewReader(`{"confirm": true}`))
		rr := httptest.NewRecorder()

		mux.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Order can no longer be cancelled")
	})

	t.Run("Failure - Unknown Order", func(t *testing.T) {
		mux := newOrderMux(t, handlerTestOrders())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/SH99999999/cancel", strings.NewReader(`{"confirm": true}`))
		rr := httptest.NewRecorder()

		mux.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "NOT_FOUND")
	})
}

func TestOrderHandlerReorder(t *testing.T) {
	mux := newOrderMux(t, handlerTestOrders())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/SH00000001/reorder", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total_items":2`)
}

func TestOrderHandlerStats(t *testing.T) {
	mux := newOrderMux(t, handlerTestOrders())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/stats", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total_orders":2`)
	assert.Contains(t, rr.Body.String(), `"delivered_count":1`)
}
