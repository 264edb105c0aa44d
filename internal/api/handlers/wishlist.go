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

type WishlistHandler struct {
	wishlistService service.WishlistService
	validator       *validator.Validate
}

func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, validator: validator.New()}
}

func (h *WishlistHandler) GetWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wishlist, err := h.wishlistService.GetWishlist(r.Context())
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, wishlist)
	}
}

func (h *WishlistHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.AddWishlistRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		wishlist, err := h.wishlistService.AddItem(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to add wishlist item", slog.String("name", req.Name), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Wishlist item added", slog.String("name", req.Name))
		response.Success(w, http.StatusOK, wishlist)
	}
}

func (h *WishlistHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := r.PathValue("id")
		if itemID == "" {
			response.Error(w, errors.BadRequestError("Item ID is required"))

			return
		}

		wishlist, err := h.wishlistService.RemoveItem(r.Context(), itemID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, wishlist)
	}
}

func (h *WishlistHandler) MoveToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		itemID := r.PathValue("id")
		if itemID == "" {
			response.Error(w, errors.BadRequestError("Item ID is required"))

			return
		}

		cart, err := h.wishlistService.MoveToCart(r.Context(), itemID)
		if err != nil {
			logger.Error("Failed to move wishlist item to cart", slog.String("itemId", itemID), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Wishlist item moved to cart", slog.String("itemId", itemID))
		response.Success(w, http.StatusOK, cart)
	}
}
