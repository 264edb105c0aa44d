package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stylehub/storefront/internal/errors"
	"github.com/stylehub/storefront/internal/models"
	repository "github.com/stylehub/storefront/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.LoginResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.AccountProfile, error)
	CurrentIdentity(ctx context.Context) (*models.Account, error)
}

type userService struct {
	repo        repository.UserRepository
	wishlist    repository.WishlistRepository
	orders      repository.OrderRepository
	rateLimiter repository.RateLimitRepository
	jwtKey      []byte
	mu          sync.Mutex
}

func NewUserService(repo repository.UserRepository, wishlist repository.WishlistRepository, orders repository.OrderRepository, rateLimiter repository.RateLimitRepository, jwtKey string) UserService {
	return &userService{
		repo:        repo,
		wishlist:    wishlist,
		orders:      orders,
		rateLimiter: rateLimiter,
		jwtKey:      []byte(jwtKey),
	}
}

// Register creates the account and logs it in immediately, matching the
// original flow where signup lands you on the account page.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.LoginResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.repo.LoadAccounts(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load accounts").WithError(err)
	}

	email := normalizeEmail(req.Email)

	for _, account := range accounts {
		if normalizeEmail(account.Email) == email {
			return nil, errors.DuplicateEntryError("An account with this email already exists")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("Failed to secure password").WithError(err)
	}

	account := models.Account{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Email:       email,
		Password:    string(hash),
		MemberSince: time.Now().UTC(),
	}

	accounts = append(accounts, account)

	if err := s.repo.SaveAccounts(ctx, accounts); err != nil {
		return nil, errors.StorageError("Failed to save account").WithError(err)
	}

	if err := s.repo.SetCurrentSession(ctx, &account); err != nil {
		return nil, errors.StorageError("Failed to start session").WithError(err)
	}

	return s.issueToken(ctx, &account)
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	allowed, remaining, retryAfter, err := s.rateLimiter.CheckLoginRateLimit(ctx, email)
	if err != nil {
		// Rate limiter backend trouble should not lock everyone out.
		slog.Error("Rate limit check failed, allowing attempt", slog.Any("error", err))
	} else if !allowed {
		return &models.LoginResponse{
			Success:    false,
			RetryAfter: retryAfter,
			Message:    "Too many login attempts. Please try again later.",
		}, errors.TooManyRequestsError("Too many login attempts")
	}

	accounts, err := s.repo.LoadAccounts(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load accounts").WithError(err)
	}

	for i := range accounts {
		if normalizeEmail(accounts[i].Email) != email {
			continue
		}

		if bcrypt.CompareHashAndPassword([]byte(accounts[i].Password), []byte(req.Password)) != nil {
			break
		}

		if err := s.repo.SetCurrentSession(ctx, &accounts[i]); err != nil {
			return nil, errors.StorageError("Failed to start session").WithError(err)
		}

		return s.issueToken(ctx, &accounts[i])
	}

	return &models.LoginResponse{
		Success:        false,
		RemainingTries: remaining,
		Message:        "Invalid email or password",
	}, errors.UnauthorizedError("Invalid email or password")
}

// Logout drops the session key only; the account list is untouched.
func (s *userService) Logout(ctx context.Context) error {
	if err := s.repo.ClearCurrentSession(ctx); err != nil {
		return errors.StorageError("Failed to end session").WithError(err)
	}

	return nil
}

// Profile reads the logged-in account and derives the order and wishlist
// counts from their stores rather than trusting the persisted copy.
func (s *userService) Profile(ctx context.Context) (*models.AccountProfile, error) {
	session, err := s.repo.CurrentSession(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load session").WithError(err)
	}

	if session == nil {
		return nil, errors.UnauthorizedError("Not logged in")
	}

	profile := &models.AccountProfile{
		ID:          session.ID,
		Name:        session.Name,
		Email:       session.Email,
		MemberSince: session.MemberSince,
	}

	if orders, err := s.orders.Load(ctx); err == nil {
		profile.TotalOrders = len(orders)
	} else {
		slog.Warn("Failed to derive order count for profile", slog.Any("error", err))
	}

	if entries, err := s.wishlist.Load(ctx); err == nil {
		profile.WishlistCount = len(entries)
	} else {
		slog.Warn("Failed to derive wishlist count for profile", slog.Any("error", err))
	}

	return profile, nil
}

// CurrentIdentity returns the logged-in account, or nil when nobody is.
func (s *userService) CurrentIdentity(ctx context.Context) (*models.Account, error) {
	session, err := s.repo.CurrentSession(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load session").WithError(err)
	}

	return session, nil
}

func (s *userService) issueToken(ctx context.Context, account *models.Account) (*models.LoginResponse, error) {
	claims := models.Claims{
		UserID: account.ID,
		Email:  account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return nil, errors.InternalError("Failed to sign token").WithError(err)
	}

	profile, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: int(tokenTTL.Seconds()),
		Profile:   profile,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
