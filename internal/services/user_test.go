package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appErrors "github.com/stylehub/storefront/internal/errors"
	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/models"
	repository "github.com/stylehub/storefront/internal/repositories"
	service "github.com/stylehub/storefront/internal/services"
)

const testJWTKey = "test-signing-key"

func newUserFixture(store kvstore.Store) (service.UserService, repository.UserRepository) {
	userRepo := repository.NewUserRepo(store)
	wishlistRepo := repository.NewWishlistRepo(store)
	orderRepo := repository.NewOrderRepo(store)

	return service.NewUserService(userRepo, wishlistRepo, orderRepo, repository.NewNoopRateLimiter(), testJWTKey), userRepo
}

func registerRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		Name:            "Asha Verma",
		Email:           "asha@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Account Created And Logged In", func(t *testing.T) {
		userService, userRepo := newUserFixture(kvstore.NewMemoryStore())

		// Act
		resp, err := userService.Register(ctx, registerRequest())

		// Assert
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, int((24 * time.Hour).Seconds()), resp.ExpiresIn)
		require.NotNil(t, resp.Profile)
		assert.Equal(t, "asha@example.com", resp.Profile.Email)
		assert.WithinDuration(t, time.Now(), resp.Profile.MemberSince, time.Minute)

		session, err := userRepo.CurrentSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "Asha Verma", session.Name)

		// The stored password must be a hash, never the plaintext.
		accounts, err := userRepo.LoadAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.NotEqual(t, "secret123", accounts[0].Password)
	})

	t.Run("Failure - Duplicate Email", func(t *testing.T) {
		userService, _ := newUserFixture(kvstore.NewMemoryStore())
		_, err := userService.Register(ctx, registerRequest())
		require.NoError(t, err)

		// Act: same address, different case.
		req := registerRequest()
		req.Email = "ASHA@example.com"
		resp, err := userService.Register(ctx, req)

		// Assert
		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userService, userRepo := newUserFixture(kvstore.NewMemoryStore())
		_, err := userService.Register(ctx, registerRequest())
		require.NoError(t, err)
		require.NoError(t, userService.Logout(ctx))

		// Act
		resp, err := userService.Login(ctx, &models.LoginRequest{Email: "asha@example.com", Password: "secret123"})

		// Assert
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)

		claims := &models.Claims{}
		_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (any, error) {
			return []byte(testJWTKey), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", claims.Email)

		session, err := userRepo.CurrentSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, session)
	})

	t.Run("Failure - Wrong Password", func(t *testing.T) {
		userService, userRepo := newUserFixture(kvstore.NewMemoryStore())
		_, err := userService.Register(ctx, registerRequest())
		require.NoError(t, err)
		require.NoError(t, userService.Logout(ctx))

		// Act
		resp, err := userService.Login(ctx, &models.LoginRequest{Email: "asha@example.com", Password: "wrong"})

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, appErr.Code)
		require.NotNil(t, resp)
		assert.False(t, resp.Success)

		// No session is started on a failed login.
		session, err := userRepo.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("Failure - Unknown Email", func(t *testing.T) {
		userService, _ := newUserFixture(kvstore.NewMemoryStore())

		_, err := userService.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, appErr.Code)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	userService, userRepo := newUserFixture(store)

	_, err := userService.Register(ctx, registerRequest())
	require.NoError(t, err)

	// Act
	require.NoError(t, userService.Logout(ctx))

	// Assert: the session key is gone, the account list is not.
	session, err := userRepo.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	accounts, err := userRepo.LoadAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	// Logging out twice is harmless.
	assert.NoError(t, userService.Logout(ctx))
}

func TestProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Counts Derived From Stores", func(t *testing.T) {
		store := kvstore.NewMemoryStore()
		userService, _ := newUserFixture(store)

		_, err := userService.Register(ctx, registerRequest())
		require.NoError(t, err)

		require.NoError(t, repository.NewWishlistRepo(store).Save(ctx, []models.WishlistEntry{
			{ID: "w1", Name: "Silk Scarf", Price: "₹1,299.00"},
		}))
		require.NoError(t, repository.NewOrderRepo(store).Save(ctx, sampleOrders()))

		// Act
		profile, err := userService.Profile(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 3, profile.TotalOrders)
		assert.Equal(t, 1, profile.WishlistCount)
	})

	t.Run("Failure - Not Logged In", func(t *testing.T) {
		userService, _ := newUserFixture(kvstore.NewMemoryStore())

		_, err := userService.Profile(ctx)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, appErr.Code)
	})
}

func TestCurrentIdentity(t *testing.T) {
	ctx := context.Background()
	userService, _ := newUserFixture(kvstore.NewMemoryStore())

	identity, err := userService.CurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Nil(t, identity)

	_, err = userService.Register(ctx, registerRequest())
	require.NoError(t, err)

	identity, err = userService.CurrentIdentity(ctx)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "asha@example.com", identity.Email)
}
