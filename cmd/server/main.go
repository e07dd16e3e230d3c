package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"cargotma/internal/app"
	"cargotma/internal/catalog"
	"cargotma/internal/config"
	"cargotma/internal/handler"
	"cargotma/internal/metrics"
	internalRedis "cargotma/internal/redis"
	"cargotma/internal/repository"
	"cargotma/internal/repository/mongodb"
	"cargotma/internal/repository/postgres"
	"cargotma/internal/service"
)

// repositories groups the store implementations selected by STORAGE_DRIVER.
type repositories struct {
	orders  repository.OrderRepository
	drivers repository.DriverRepository
	bids    repository.BidRepository
	close   func(context.Context) error
}

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Retry.MaxElapsedTime+10*time.Second)
	defer cancel()

	// Initialize New Relic first so the stores can be instrumented.
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", zap.Error(err))
		} else {
			logger.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
			defer nrApp.Shutdown(5 * time.Second)
		}
	}

	repos, err := openRepositories(ctx, cfg, nrApp, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(context.Background()); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}()

	redisClient, err := app.NewRedisClient(ctx, cfg, nrApp, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

	cities, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("failed to load city catalogue: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := wireServer(repos, redisClient, nrApp, registry, cities, cfg, logger)

	// Start server in goroutine.
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

// openRepositories connects the configured store.
func openRepositories(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application, logger *zap.Logger) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := app.NewDatabase(ctx, cfg, nrApp, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.Info("connected to PostgreSQL", zap.String("db", cfg.Database.DBName))
		return &repositories{
			orders:  postgres.NewOrderRepository(db),
			drivers: postgres.NewDriverRepository(db),
			bids:    postgres.NewBidRepository(db),
			close:   func(context.Context) error { return db.Close() },
		}, nil

	case config.StorageMongo:
		client, db, err := app.NewMongo(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to MongoDB", zap.String("db", cfg.Mongo.Database))
		return &repositories{
			orders:  mongodb.NewOrderRepository(db),
			drivers: mongodb.NewDriverRepository(db),
			bids:    mongodb.NewBidRepository(db),
			close:   client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	repos *repositories,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	registry *prometheus.Registry,
	cities *catalog.Catalog,
	cfg *config.Config,
	logger *zap.Logger,
) *http.Server {
	m := metrics.New(registry)

	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize services.
	notificationService := service.NewNotificationService(logger.Named("notify"))
	driverService := service.NewDriverService(repos.drivers, cacheStore, logger.Named("drivers"))
	orderService := service.NewOrderService(repos.orders, notificationService, m, logger.Named("orders"))
	matchingService := service.NewMatchingService(repos.orders, driverService, lockStore, notificationService, m, logger.Named("matching"))
	bidService := service.NewBidService(repos.bids, repos.orders, driverService, notificationService, m, logger.Named("bids"))

	// Initialize handlers.
	router := app.NewRouter(app.RouterDeps{
		OrderHandler:  handler.NewOrderHandler(orderService, matchingService),
		DriverHandler: handler.NewDriverHandler(driverService, matchingService),
		UserHandler:   handler.NewUserHandler(driverService, matchingService),
		BidHandler:    handler.NewBidHandler(bidService),
		CityHandler:   handler.NewCityHandler(cities),
		RedisClient:   redisClient,
		NewRelicApp:   nrApp,
		Metrics:       m,
		Gatherer:      registry,
		Logger:        logger.Named("http"),
		DebugFeed:     cfg.Features.DebugFeed,
		CORSOrigins:   cfg.Features.CORSOrigins,
	})

	if cfg.Features.DebugFeed {
		logger.Warn("debug order feed enabled", zap.String("route", "/v1/debug/orders/pending"))
	}

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
