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

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Error("User registration failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("User registered", slog.String("userId", resp.Profile.ID))
		response.Success(w, http.StatusCreated, resp)
	}
}

func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Warn("Login failed", slog.String("email", req.Email), slog.String("error", err.Error()))

			// Failed logins keep the structured body so the client can show
			// remaining tries or the retry-after delay.
			if appErr, ok := errors.IsAppError(err); ok && resp != nil {
				response.WriteJson(w, appErr.StatusCode, response.APIResponse{Success: false, Data: resp})

				return
			}

			response.Error(w, err)

			return
		}

		logger.Info("User logged in", slog.String("userId", resp.Profile.ID))
		response.Success(w, http.StatusOK, resp)
	}
}

func (h *UserHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		if err := h.userService.Logout(r.Context()); err != nil {
			logger.Error("Logout failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("User logged out")
		response.Success(w, http.StatusOK, map[string]string{"message": "Logged out"})
	}
}

func (h *UserHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		profile, err := h.userService.Profile(r.Context())
		if err != nil {
			logger.Warn("Profile lookup failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, profile)
	}
}
