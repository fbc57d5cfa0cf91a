package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/medimart/medimart-backend/api/controllers"
	"github.com/medimart/medimart-backend/api/routes"
	"github.com/medimart/medimart-backend/internal/admin"
	"github.com/medimart/medimart-backend/internal/cart"
	"github.com/medimart/medimart-backend/internal/catalog"
	"github.com/medimart/medimart-backend/internal/checkout"
	"github.com/medimart/medimart-backend/internal/orders"
	"github.com/medimart/medimart-backend/internal/wishlist"
	"github.com/medimart/medimart-backend/pkg/config"
	"github.com/medimart/medimart-backend/pkg/db"
	"github.com/medimart/medimart-backend/pkg/logger"
	"github.com/medimart/medimart-backend/pkg/metrics"
	"github.com/medimart/medimart-backend/pkg/migrate"
	"github.com/medimart/medimart-backend/pkg/pubsub"
	"github.com/medimart/medimart-backend/pkg/redis"
	"github.com/medimart/medimart-backend/pkg/session"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (retErr error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		retErr = multierr.Append(retErr, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		retErr = multierr.Append(retErr, redisClient.Close())
	}()

	sessions, err := session.NewManager(cfg.Session)
	if err != nil {
		return err
	}

	var orderEvents orders.Publisher
	healthChecks := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
		"pubsub":   nil,
	}
	if cfg.PubSub.Enabled(cfg.GCP) {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return err
		}
		defer func() {
			retErr = multierr.Append(retErr, pubsubClient.Close())
		}()
		orderEvents = pubsubClient
		healthChecks["pubsub"] = pubsubClient
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogSvc, err := catalog.NewService(catalogRepo, cfg.Catalog)
	if err != nil {
		return err
	}

	cartEngine, err := cart.NewEngine(cfg.Pricing, cart.DefaultCouponRegistry())
	if err != nil {
		return err
	}
	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(cartStore, cartEngine, catalogRepo, cfg.Catalog)
	if err != nil {
		return err
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersSvc, err := orders.NewService(ordersRepo, orderEvents, logg)
	if err != nil {
		return err
	}

	checkoutStore, err := checkout.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		return err
	}
	checkoutSvc, err := checkout.NewService(checkoutStore, cartSvc, ordersSvc, checkout.NewFakeGateway(), catalogRepo, logg)
	if err != nil {
		return err
	}

	wishlistSvc, err := wishlist.NewService(redisClient, catalogRepo, cfg.Catalog, cfg.Cart.TTL)
	if err != nil {
		return err
	}

	adminSvc, err := admin.NewService(catalogRepo, ordersRepo, cfg.Catalog)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Logger:       logg,
		Sessions:     sessions,
		HTTPMetrics:  httpMetrics,
		Registry:     registry,
		HealthChecks: healthChecks,
		Catalog:      catalogSvc,
		Cart:         cartSvc,
		Checkout:     checkoutSvc,
		Orders:       ordersSvc,
		Wishlist:     wishlistSvc,
		Admin:        adminSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}
