package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kart-engine/internal/activity"
	"kart-engine/internal/cache"
	"kart-engine/internal/cart"
	"kart-engine/internal/config"
	"kart-engine/internal/coupon"
	"kart-engine/internal/database"
	"kart-engine/internal/handler"
	"kart-engine/internal/metrics"
	"kart-engine/internal/repository"
	"kart-engine/internal/router"
	"kart-engine/internal/service"
	"kart-engine/internal/shipping"
	"kart-engine/internal/tax"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting kart-engine API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	contactRepo := repository.NewContactRepository(pool, logger)
	taxRepo := repository.NewTaxRateRepository(pool, logger)
	shippingRepo := repository.NewShippingOptionRepository(pool, logger)
	paymentRepo := repository.NewPaymentMethodRepository(pool, logger)
	discountRepo := repository.NewDiscountRepository(pool, logger)

	// Catalog lookups go through Redis when enabled
	var catalog cart.CatalogLookup = catalogRepo
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, catalog cache will fall through to the database")
		}
		catalog = cache.NewCatalogCache(client, catalogRepo, cfg.Redis.TTL, logger)
	}

	// Pricing rules and their coupon code files
	pricing, err := newPricing(ctx, cfg, discountRepo, logger)
	if err != nil {
		return err
	}

	// Activity stream
	var recorder cart.ActivityRecorder = activity.NewLogRecorder(logger)
	if cfg.Kafka.Enabled {
		writer := activity.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		kafkaRecorder := activity.NewKafkaRecorder(writer, cfg.Kafka.Topic, logger)
		defer func() {
			if err := kafkaRecorder.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close kafka writer")
			}
		}()
		recorder = activity.Multi{recorder, kafkaRecorder}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	deps := cart.Dependencies{
		Catalog:     catalog,
		LiveCatalog: catalogRepo,
		Pricing:     pricing,
		Tax:         tax.NewProvider(taxRepo, int32(cfg.Currency.Places), logger),
		Shipping:    shipping.NewProvider(shippingRepo, logger),
		Store:       cartRepo,
		Contacts:    contactRepo,
		Activity:    recorder,
		Currency:    cart.Currency{Code: cfg.Currency.Code, Places: int32(cfg.Currency.Places)},
	}

	// Initialize services
	store := service.NewStore(deps, cartRepo, logger)
	productService := service.NewProductService(catalogRepo, logger)
	cartService := service.NewCartService(store, shippingRepo, paymentRepo, m, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, metrics.Handler(registry), m, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Int("open_carts", store.Len()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newPricing loads the active discounts and the code files of the coupon-gated ones.
// Code files are read from S3 when enabled, falling back to the local code directory.
func newPricing(ctx context.Context, cfg *config.Config, discounts repository.DiscountRepository, logger zerolog.Logger) (*coupon.Provider, error) {
	localLoader := coupon.NewFileLoaderIn(cfg.Coupon.CodeDir, logger)

	var s3Loader coupon.Loader
	s3Enabled := cfg.S3.Enabled
	if s3Enabled {
		loader, err := coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			s3Enabled = false
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Str("dir", cfg.Coupon.CodeDir).Msg("using local file system for coupon files (S3 disabled)")
	}
	loader := coupon.NewFallbackLoader(s3Loader, localLoader, cfg.S3.Prefix, s3Enabled, logger)

	active, err := discounts.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load discounts: %w", err)
	}

	provider, err := coupon.NewProvider(ctx, active, loader, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pricing rules: %w", err)
	}

	logger.Info().Int("discounts", len(active)).Msg("pricing rules loaded")
	return provider, nil
}
