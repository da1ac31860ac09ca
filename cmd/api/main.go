package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quotescout/quotescout/internal/api"
	"github.com/quotescout/quotescout/internal/browser"
	"github.com/quotescout/quotescout/internal/config"
	"github.com/quotescout/quotescout/internal/observability"
	rediscache "github.com/quotescout/quotescout/internal/repository/redis"
	"github.com/quotescout/quotescout/internal/services/catalog"
	"github.com/quotescout/quotescout/internal/services/purchase"
	"github.com/quotescout/quotescout/internal/services/quote"
	"github.com/quotescout/quotescout/internal/storage"
)

func main() {
	// Load .env if present, real environment wins
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.App.Environment, cfg.GetLogLevel())
	defer logger.Sync()

	logger.Info("Starting QuoteScout API",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("target_url", cfg.Scraper.TargetURL),
	)

	// Connect to Redis (optional)
	var cache *rediscache.Cache
	cache, err = rediscache.New(cfg.Redis)
	if err != nil {
		logger.Warn("Failed to connect to Redis, sessions will not survive restarts", zap.Error(err))
		cache = nil
	} else {
		defer cache.Close()
		logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	}

	// Connect to MinIO (optional diagnostics store)
	var diagnostics *storage.MinIOClient
	if cfg.Storage.Enabled {
		diagnostics, err = storage.NewMinIOClient(storage.MinIOConfig{
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKey,
			SecretAccessKey: cfg.Storage.SecretKey,
			UseSSL:          cfg.Storage.UseSSL,
			BucketName:      cfg.Storage.Bucket,
		})
		if err != nil {
			logger.Warn("Failed to connect to MinIO, diagnostics disabled", zap.Error(err))
			diagnostics = nil
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := diagnostics.EnsureBucket(ctx); err != nil {
				logger.Warn("Failed to ensure diagnostics bucket", zap.Error(err))
			}
			cancel()
			logger.Info("Connected to MinIO", zap.String("bucket", cfg.Storage.Bucket))
		}
	}

	metrics := observability.NewMetrics("")

	// Launch the headless browser
	manager, err := browser.NewManager(browser.ManagerConfig{
		Headless:          cfg.Scraper.Headless,
		SessionsPerMinute: cfg.Scraper.SessionsPerMinute,
		SessionGauge:      metrics.BrowserSessionsOpen,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to launch browser", zap.Error(err))
	}
	defer manager.Close()

	// Wire the scraping services
	var catalogStore catalog.Store
	var sessionStore quote.SessionStore
	if cache != nil {
		catalogStore = cache
		sessionStore = cache
	}
	var quoteDiag quote.Diagnostics
	var purchaseDiag purchase.Diagnostics
	if diagnostics != nil {
		quoteDiag = diagnostics
		purchaseDiag = diagnostics
	}

	builder := catalog.NewBuilder(catalog.BuilderConfig{
		BaseURL:     cfg.Scraper.TargetURL,
		WaitTimeout: cfg.Scraper.WaitTimeout,
		SettleDelay: cfg.Scraper.SettleDelay,
	}, logger)
	resolver := catalog.NewResolver(catalog.ResolverConfig{
		FallbackDestinationID: cfg.Scraper.ResolveFallbackID,
	}, logger)
	catalogService := catalog.NewService(manager, builder, resolver, catalogStore, logger)

	quoteService := quote.NewService(manager, quote.Config{
		BaseURL:       cfg.Scraper.TargetURL,
		WaitTimeout:   cfg.Scraper.WaitTimeout,
		ResultTimeout: cfg.Scraper.ResultTimeout,
		SettleDelay:   cfg.Scraper.SettleDelay,
	}, sessionStore, quoteDiag, logger)

	purchaseService := purchase.NewService(manager, purchase.Config{
		BaseURL:     cfg.Scraper.TargetURL,
		WaitTimeout: cfg.Scraper.WaitTimeout,
		SettleDelay: cfg.Scraper.SettleDelay,
	}, purchaseDiag, logger)

	// Create router
	rateLimit := 0
	if cfg.RateLimits.Enabled {
		rateLimit = cfg.RateLimits.RequestsPerMin
	}
	router := api.NewRouter(api.RouterConfig{
		Catalog:      catalogService,
		Resolver:     catalogService,
		Quotes:       quoteService,
		Purchases:    purchaseService,
		Cache:        cache,
		Metrics:      metrics,
		Logger:       logger,
		EnableCORS:   cfg.Server.EnableCORS,
		RateLimit:    rateLimit,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", zap.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("Server error", zap.Error(err))

	case sig := <-shutdown:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed, forcing close", zap.Error(err))
			server.Close()
		}

		logger.Info("Server stopped gracefully")
	}
}

// initLogger creates a configured zap logger
func initLogger(env, level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if env == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zcfg.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := zcfg.Build()
	if err != nil {
		// Fall back to basic logger
		logger, _ = zap.NewProduction()
	}

	return logger
}
