package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Account is a registered shopper. The password field carries a bcrypt hash;
// it keeps the original "password" storage key but never ships in responses
// (handlers return AccountProfile instead).
type Account struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	MemberSince time.Time `json:"memberSince"`
	TotalOrders int       `json:"totalOrders"`
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Success        bool            `json:"success"`
	Token          string          `json:"token,omitempty"`
	ExpiresIn      int             `json:"expires_in,omitempty"`
	RemainingTries int             `json:"remaining_tries,omitempty"`
	RetryAfter     int             `json:"retry_after,omitempty"`
	Message        string          `json:"message,omitempty"`
	Profile        *AccountProfile `json:"profile,omitempty"`
}

// AccountProfile is the response shape for the profile view. Order and
// wishlist counts are derived from their stores on every read.
type AccountProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	MemberSince   time.Time `json:"member_since"`
	TotalOrders   int       `json:"total_orders"`
	WishlistCount int       `json:"wishlist_count"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
