// Package repositories maps each persisted storefront collection onto one
// fixed key in the key-value store. Every mutation rewrites the whole
// collection; every read re-reads it. The store stays the single source of
// truth at all times.
package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	appErrors "github.com/stylehub/storefront/internal/errors"
	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/utils"
)

// Storage keys, kept byte-for-byte compatible with the original frontend so
// the two can coexist on the same store.
const (
	KeyCart     = "stylehub-cart"
	KeyWishlist = "stylehub-wishlist"
	KeyUsers    = "stylehub-users"
	KeySession  = "stylehub-user"
	KeyOrders   = "stylehub-orders"
)

// SchemaVersion is stamped into every envelope written from here on, so a
// future layout change can migrate instead of silently misparsing old data.
const SchemaVersion = 1

type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Items         json.RawMessage `json:"items"`
}

// loadCollection reads a collection, accepting both the versioned envelope
// and the legacy bare array the original frontend wrote. Anything unreadable
// fails open to an empty collection: corruption is logged, never surfaced.
func loadCollection[T any](ctx context.Context, store kvstore.Store, key string) ([]T, error) {
	ctx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	data, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	return decodeCollection[T](key, data), nil
}

func decodeCollection[T any](key string, data []byte) []T {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	var raw json.RawMessage

	if trimmed[0] == '[' {
		// Legacy payload written by the original frontend.
		raw = trimmed
	} else {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			logCorruption(key, err)

			return nil
		}

		if env.SchemaVersion != SchemaVersion {
			logCorruption(key, fmt.Errorf("unsupported schema version %d", env.SchemaVersion))

			return nil
		}

		raw = env.Items
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logCorruption(key, err)

		return nil
	}

	return items
}

func saveCollection[T any](ctx context.Context, store kvstore.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}

	rawItems, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal %s items: %w", key, err)
	}

	payload, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, Items: rawItems})
	if err != nil {
		return fmt.Errorf("failed to marshal %s envelope: %w", key, err)
	}

	ctx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	if err := store.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}

	return nil
}

func logCorruption(key string, err error) {
	slog.Warn("Persisted collection unreadable, treating as empty",
		slog.String("key", key),
		slog.String("code", appErrors.ErrCodeStorageCorruption),
		slog.String("error", err.Error()),
	)
}
