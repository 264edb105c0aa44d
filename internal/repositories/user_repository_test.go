package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/models"
	"github.com/stylehub/storefront/internal/repositories"
)

func TestUserRepositorySession(t *testing.T) {
	store := kvstore.NewMemoryStore()
	repo := repositories.NewUserRepo(store)
	ctx := context.Background()

	t.Run("no session means logged out", func(t *testing.T) {
		session, err := repo.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	account := &models.Account{
		ID:          "u-1",
		Name:        "Priya",
		Email:       "priya@example.com",
		Password:    "$2a$10$notarealhash",
		MemberSince: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	t.Run("set and read back", func(t *testing.T) {
		require.NoError(t, repo.SetCurrentSession(ctx, account))

		session, err := repo.CurrentSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "priya@example.com", session.Email)
	})

	t.Run("session is a copy, not a live reference", func(t *testing.T) {
		account.Name = "Changed After Login"

		session, err := repo.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Priya", session.Name)
	})

	t.Run("clear removes only the session key", func(t *testing.T) {
		require.NoError(t, repo.SaveAccounts(ctx, []models.Account{*account}))
		require.NoError(t, repo.ClearCurrentSession(ctx))

		session, err := repo.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, session)

		accounts, err := repo.LoadAccounts(ctx)
		require.NoError(t, err)
		assert.Len(t, accounts, 1)
	})

	t.Run("corrupt session fails open to logged out", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, repositories.KeySession, []byte("{broken")))

		session, err := repo.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, session)
	})
}
