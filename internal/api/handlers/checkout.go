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

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: validator.New()}
}

func (h *CheckoutHandler) Start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		session, err := h.checkoutService.Start(r.Context())
		if err != nil {
			logger.Warn("Checkout start rejected", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Checkout started", slog.String("sessionId", session.ID))
		response.Success(w, http.StatusCreated, session)
	}
}

func (h *CheckoutHandler) Session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")

		session, err := h.checkoutService.Session(r.Context(), sessionID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, session)
	}
}

// SubmitIdentity accepts an empty body to adopt the logged-in account, or a
// guest detail payload.
func (h *CheckoutHandler) SubmitIdentity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())
		sessionID := r.PathValue("id")

		var guest *models.GuestIdentityRequest

		if r.ContentLength > 0 {
			var req models.GuestIdentityRequest

			if !utils.ParseAndValidate(r, w, &req, h.validator) {
				return
			}

			guest = &req
		}

		session, err := h.checkoutService.SubmitIdentity(r.Context(), sessionID, guest)
		if err != nil {
			logger.Warn("Identity step rejected", slog.String("sessionId", sessionID), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, session)
	}
}

func (h *CheckoutHandler) SubmitShipping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())
		sessionID := r.PathValue("id")

		var req models.Address

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		session, err := h.checkoutService.SubmitShipping(r.Context(), sessionID, &req)
		if err != nil {
			logger.Warn("Shipping step rejected", slog.String("sessionId", sessionID), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, session)
	}
}

func (h *CheckoutHandler) SubmitPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())
		sessionID := r.PathValue("id")

		var req models.PaymentRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		session, err := h.checkoutService.SubmitPayment(r.Context(), sessionID, &req)
		if err != nil {
			logger.Warn("Payment step rejected", slog.String("sessionId", sessionID), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, session)
	}
}

func (h *CheckoutHandler) Back() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")

		session, err := h.checkoutService.Back(r.Context(), sessionID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, session)
	}
}

func (h *CheckoutHandler) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")

		summary, err := h.checkoutService.Summary(r.Context(), sessionID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, summary)
	}
}

func (h *CheckoutHandler) PlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())
		sessionID := r.PathValue("id")

		confirmation, err := h.checkoutService.PlaceOrder(r.Context(), sessionID)
		if err != nil {
			logger.Error("Order placement failed", slog.String("sessionId", sessionID), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Order placed", slog.String("orderId", confirmation.OrderNumber))
		response.Success(w, http.StatusCreated, confirmation)
	}
}

func (h *CheckoutHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")
		if sessionID == "" {
			response.Error(w, errors.BadRequestError("Session ID is required"))

			return
		}

		if err := h.checkoutService.Cancel(r.Context(), sessionID); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Checkout cancelled"})
	}
}
