package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/stylehub/storefront/internal/api/middleware"
	"github.com/stylehub/storefront/internal/errors"
	"github.com/stylehub/storefront/internal/models"
	service "github.com/stylehub/storefront/internal/services"
	"github.com/stylehub/storefront/internal/utils"
	"github.com/stylehub/storefront/internal/utils/response"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, err := h.cartService.GetCart(r.Context())
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.AddItemRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to add cart item", slog.String("name", req.Name), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Cart item added", slog.String("name", req.Name))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		itemID := r.PathValue("id")
		if itemID == "" {
			response.Error(w, errors.BadRequestError("Item ID is required"))

			return
		}

		var req models.UpdateQuantityRequest

		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError(err.Error()))

			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), itemID, req.Delta)
		if err != nil {
			logger.Error("Failed to update quantity", slog.String("itemId", itemID), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		itemID := r.PathValue("id")
		if itemID == "" {
			response.Error(w, errors.BadRequestError("Item ID is required"))

			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), itemID)
		if err != nil {
			logger.Error("Failed to remove cart item", slog.String("itemId", itemID), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// Badge backs the header cart indicator.
func (h *CartHandler) Badge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := h.cartService.TotalItemCount(r.Context())
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.CartBadge{TotalItems: count})
	}
}
