package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylehub/storefront/internal/api/handlers"
	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/models"
	repository "github.com/stylehub/storefront/internal/repositories"
	service "github.com/stylehub/storefront/internal/services"
)

func newCartMux() (*http.ServeMux, service.CartService) {
	cartService := service.NewCartService(repository.NewCartRepo(kvstore.NewMemoryStore()))
	handler := handlers.NewCartHandler(cartService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/cart", handler.GetCart())
	mux.HandleFunc("POST /api/v1/cart/items", handler.AddItem())
	mux.HandleFunc("PATCH /api/v1/cart/items/{id}", handler.UpdateQuantity())
	mux.HandleFunc("DELETE /api/v1/cart/items/{id}", handler.RemoveItem())
	mux.HandleFunc("GET /api/v1/cart/badge", handler.Badge())

	return mux, cartService
}

func TestCartHandlerAddItem(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mux, _ := newCartMux()

		body := `{"name": "Classic White Shirt", "price": "₹500.00", "brand": "StyleHub"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		rr := httptest.NewRecorder()

		// Act
		mux.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"success":true`)
		assert.Contains(t, rr.Body.String(), `"total_items":1`)
		assert.Contains(t, rr.Body.String(), "Classic White Shirt")
	})

	t.Run("Failure - Missing Required Fields", func(t *testing.T) {
		mux, _ := newCartMux()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"image": "x.jpg"}`))
		rr := httptest.NewRecorder()

		mux.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "VALIDATION_ERROR")
		assert.Contains(t, rr.Body.String(), "Field Name is required")
	})

	t.Run("Failure - Empty Body", func(t *testing.T) {
		mux, _ := newCartMux()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
		rr := httptest.NewRecorder()

		mux.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "BAD_REQUEST")
	})
}

func TestCartHandlerUpdateQuantity(t *testing.T) {
	mux, cartService := newCartMux()

	resp, err := cartService.AddItem(context.Background(), &models.AddItemRequest{Name: "Denim Jacket", Price: "₹2,499.00"})
	require.NoError(t, err)
	itemID := resp.Items[0].ID

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/"+itemID, strings.NewReader(`{"delta": 2}`))
	rr := httptest.NewRecorder()

	// Act
	mux.ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"quantity":3`)
}

func TestCartHandlerBadge(t *testing.T) {
	mux, cartService := newCartMux()

	_, err := cartService.AddItem(context.Background(), &models.AddItemRequest{Name: "Shirt", Price: "₹500.00"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/badge", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success": true, "data": {"total_items": 1}}`, rr.Body.String())
}
