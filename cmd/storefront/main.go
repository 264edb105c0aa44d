package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stylehub/storefront/internal/api/handlers"
	"github.com/stylehub/storefront/internal/api/middleware"
	"github.com/stylehub/storefront/internal/config"
	"github.com/stylehub/storefront/internal/health"
	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/metrics"
	repository "github.com/stylehub/storefront/internal/repositories"
	service "github.com/stylehub/storefront/internal/services"
	"github.com/stylehub/storefront/pkg/sendgrid"
)

func main() {
	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Storage setup
	store, redisClient, err := openStore(cfg)
	if err != nil {
		slog.Error("❌ Error opening the storage backend", slog.String("driver", cfg.Storage.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("⚠️ Error closing storage backend", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Storage backend closed")
		}
	}()

	// Repositories
	cartRepo := repository.NewCartRepo(store)
	wishlistRepo := repository.NewWishlistRepo(store)
	orderRepo := repository.NewOrderRepo(store)
	userRepo := repository.NewUserRepo(store)

	var rateLimiter repository.RateLimitRepository
	if redisClient != nil {
		rateLimiter = repository.NewRedisRateLimiter(redisClient, cfg.RateConfig.MaxAttempts, cfg.RateConfig.WindowSize)
	} else {
		rateLimiter = repository.NewNoopRateLimiter()
	}

	// Services and handlers
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	if emailService == nil {
		slog.Warn("⚠️ SendGrid API key not set, order confirmation emails disabled")
	}
	cartService := service.NewCartService(cartRepo)
	cartHandler := handlers.NewCartHandler(cartService)
	wishlistService := service.NewWishlistService(wishlistRepo, cartService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	userService := service.NewUserService(userRepo, wishlistRepo, orderRepo, rateLimiter, cfg.Security.JWTKey)
	userHandler := handlers.NewUserHandler(userService)
	orderService := service.NewOrderService(orderRepo, cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	checkoutService := service.NewCheckoutService(cartService, orderRepo, userRepo, emailService, service.CheckoutConfig{
		ShippingFee:  cfg.Checkout.ShippingFee,
		TaxRate:      cfg.Checkout.TaxRate,
		DeliveryDays: cfg.Checkout.DeliveryDays,
	})
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	healthHandler, err := health.NewHealthHandler(cfg, store)
	if err != nil {
		slog.Error("❌ Error setting up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("driver", cfg.Storage.Driver))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("POST /api/v1/users/logout", authMiddleware.Authenticate(userHandler.Logout()))
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("GET /api/v1/cart/badge", cartHandler.Badge())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("PATCH /api/v1/cart/items/{id}", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", cartHandler.RemoveItem())
	routerMux.HandleFunc("GET /api/v1/wishlist", wishlistHandler.GetWishlist())
	routerMux.HandleFunc("POST /api/v1/wishlist/items", wishlistHandler.AddItem())
	routerMux.HandleFunc("DELETE /api/v1/wishlist/items/{id}", wishlistHandler.RemoveItem())
	routerMux.HandleFunc("POST /api/v1/wishlist/items/{id}/move-to-cart", wishlistHandler.MoveToCart())
	routerMux.HandleFunc("POST /api/v1/checkout", checkoutHandler.Start())
	routerMux.HandleFunc("GET /api/v1/checkout/{id}", checkoutHandler.Session())
	routerMux.HandleFunc("POST /api/v1/checkout/{id}/identity", checkoutHandler.SubmitIdentity())
	routerMux.HandleFunc("POST /api/v1/checkout/{id}/shipping", checkoutHandler.SubmitShipping())
	routerMux.HandleFunc("POST /api/v1/checkout/{id}/payment", checkoutHandler.SubmitPayment())
	routerMux.HandleFunc("POST /api/v1/checkout/{id}/back", checkoutHandler.Back())
	routerMux.HandleFunc("GET /api/v1/checkout/{id}/summary", checkoutHandler.Summary())
	routerMux.HandleFunc("POST /api/v1/checkout/{id}/place-order", checkoutHandler.PlaceOrder())
	routerMux.HandleFunc("DELETE /api/v1/checkout/{id}", checkoutHandler.Cancel())
	routerMux.HandleFunc("GET /api/v1/orders", orderHandler.List())
	routerMux.HandleFunc("GET /api/v1/orders/stats", orderHandler.Stats())
	routerMux.HandleFunc("GET /api/v1/orders/{id}", orderHandler.Get())
	routerMux.HandleFunc("GET /api/v1/orders/{id}/tracking", orderHandler.Track())
	routerMux.HandleFunc("POST /api/v1/orders/{id}/cancel", orderHandler.Cancel())
	routerMux.HandleFunc("POST /api/v1/orders/{id}/reorder", orderHandler.Reorder())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}
}

// openStore builds the configured storage backend. The Redis client is
// returned separately so the login rate limiter can share it.
func openStore(cfg *config.Config) (kvstore.Store, *redis.Client, error) {
	switch cfg.Storage.Driver {
	case kvstore.DriverRedis:
		client, err := kvstore.NewRedisClient(cfg.RedisConnect.GetDSN(), cfg.RedisConnect.DB)
		if err != nil {
			return nil, nil, err
		}

		return kvstore.NewRedisStore(client), client, nil
	case kvstore.DriverPostgres:
		store, err := kvstore.NewPostgresStore(cfg.Database.GetDSN())
		if err != nil {
			return nil, nil, err
		}

		return store, nil, nil
	case kvstore.DriverMemory:
		return kvstore.NewMemoryStore(), nil, nil
	default:
		store, err := kvstore.NewFileStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}

		return store, nil, nil
	}
}
