package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/stylehub/storefront/internal/api/middleware"
	"github.com/stylehub/storefront/internal/models"
	service "github.com/stylehub/storefront/internal/services"
	"github.com/stylehub/storefront/internal/utils"
	"github.com/stylehub/storefront/internal/utils/response"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// List supports ?status= and ?q= query parameters.
func (h *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("status")
		searchTerm := r.URL.Query().Get("q")

		orders, err := h.orderService.List(r.Context(), filter, searchTerm)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

func (h *OrderHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := r.PathValue("id")

		order, err := h.orderService.Get(r.Context(), orderID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())
		orderID := r.PathValue("id")

		var req models.CancelOrderRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.Cancel(r.Context(), orderID, req.Confirm)
		if err != nil {
			logger.Warn("Order cancellation rejected", slog.String("orderId", orderID), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Order cancelled", slog.String("orderId", orderID))
		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) Reorder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())
		orderID := r.PathValue("id")

		cart, err := h.orderService.Reorder(r.Context(), orderID)
		if err != nil {
			logger.Warn("Reorder failed", slog.String("orderId", orderID), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Order items re-added to cart", slog.String("orderId", orderID))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *OrderHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.orderService.Stats(r.Context())
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, stats)
	}
}

func (h *OrderHandler) Track() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := r.PathValue("id")

		info, err := h.orderService.Track(r.Context(), orderID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, info)
	}
}
