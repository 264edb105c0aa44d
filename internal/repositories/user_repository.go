package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/models"
	"github.com/stylehub/storefront/internal/utils"
)

// UserRepository owns two keys: the registered-account list and the
// current-session copy. The session holds an account by value, as the
// original did, so logout touches only the session key.
type UserRepository interface {
	LoadAccounts(ctx context.Context) ([]models.Account, error)
	SaveAccounts(ctx context.Context, accounts []models.Account) error
	CurrentSession(ctx context.Context) (*models.Account, error)
	SetCurrentSession(ctx context.Context, account *models.Account) error
	ClearCurrentSession(ctx context.Context) error
}

type userRepository struct {
	store kvstore.Store
}

func NewUserRepo(store kvstore.Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) LoadAccounts(ctx context.Context) ([]models.Account, error) {
	return loadCollection[models.Account](ctx, r.store, KeyUsers)
}

func (r *userRepository) SaveAccounts(ctx context.Context, accounts []models.Account) error {
	return saveCollection(ctx, r.store, KeyUsers, accounts)
}

// CurrentSession returns nil without error when nobody is logged in. The
// session value is a single bare object (the original's format); an
// unreadable session fails open to logged-out.
func (r *userRepository) CurrentSession(ctx context.Context) (*models.Account, error) {
	ctx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	data, err := r.store.Get(ctx, KeySession)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to load %s: %w", KeySession, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}

	var account models.Account
	if err := json.Unmarshal(trimmed, &account); err != nil {
		logCorruption(KeySession, err)

		return nil, nil
	}

	return &account, nil
}

func (r *userRepository) SetCurrentSession(ctx context.Context, account *models.Account) error {
	payload, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ctx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	if err := r.store.Set(ctx, KeySession, payload); err != nil {
		return fmt.Errorf("failed to persist %s: %w", KeySession, err)
	}

	return nil
}

func (r *userRepository) ClearCurrentSession(ctx context.Context) error {
	ctx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	if err := r.store.Delete(ctx, KeySession); err != nil {
		return fmt.Errorf("failed to clear %s: %w", KeySession, err)
	}

	return nil
}
