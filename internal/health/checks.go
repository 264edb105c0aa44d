// Package health wires the /health endpoint with checks matching the
// configured storage driver.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/stylehub/storefront/internal/config"
	"github.com/stylehub/storefront/internal/kvstore"
)

const probeKey = "stylehub-health-probe"

func NewHealthHandler(cfg *config.Config, store kvstore.Store) (*health.Health, error) {
	checks := []health.Config{
		{
			Name:      "storage",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check:     storeProbe(store),
		},
	}

	switch cfg.Storage.Driver {
	case kvstore.DriverPostgres:
		checks = append(checks, health.Config{
			Name:      "postgres",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		})
	case kvstore.DriverRedis:
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "stylehub-storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

// storeProbe writes and deletes a throwaway key, proving the whole store
// round trip works regardless of driver.
func storeProbe(store kvstore.Store) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := store.Set(ctx, probeKey, []byte("ok")); err != nil {
			return fmt.Errorf("storage write failed: %w", err)
		}

		if _, err := store.Get(ctx, probeKey); err != nil {
			return fmt.Errorf("storage read failed: %w", err)
		}

		if err := store.Delete(ctx, probeKey); err != nil {
			return fmt.Errorf("storage delete failed: %w", err)
		}

		return nil
	}
}
