package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/api/handlers"
	"github.com/quotescout/quotescout/internal/api/middleware"
	"github.com/quotescout/quotescout/internal/observability"
	rediscache "github.com/quotescout/quotescout/internal/repository/redis"
	"github.com/quotescout/quotescout/pkg/httputil"
)

// Router holds the HTTP router and its dependencies
type Router struct {
	chi.Router
	logger *zap.Logger
}

// RouterConfig contains configuration for the router
type RouterConfig struct {
	Catalog   handlers.CatalogProvider
	Resolver  handlers.QuoteResolver
	Quotes    handlers.QuoteSubmitter
	Purchases handlers.PurchaseFetcher
	Cache     *rediscache.Cache
	Metrics   *observability.Metrics
	Logger    *zap.Logger

	EnableCORS   bool
	RateLimit    int
	WriteTimeout time.Duration
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware(cfg.Logger).Handler)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Handler)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Handler)
	}

	// Scrape flows hold a browser session open well past typical API budgets.
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	r.Use(chimw.Timeout(timeout))

	// CORS configuration
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Rate limiting (if Redis is available)
	if cfg.Cache != nil && cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimitMiddleware(cfg.Cache, cfg.RateLimit, cfg.Logger).Handler)
	}

	// Health and observability endpoints
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(cfg.Cache, cfg.Catalog))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		catalogHandler := handlers.NewCatalogHandler(cfg.Catalog, cfg.Metrics, cfg.Logger)
		quoteHandler := handlers.NewQuoteHandler(cfg.Resolver, cfg.Quotes, cfg.Metrics, cfg.Logger)
		purchaseHandler := handlers.NewPurchaseHandler(cfg.Purchases, cfg.Metrics, cfg.Logger)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", catalogHandler.Get)
			r.Post("/rebuild", catalogHandler.Rebuild)
		})

		r.Route("/quote", func(r chi.Router) {
			r.Post("/", quoteHandler.Submit)
			r.Get("/{sessionID}", quoteHandler.GetSession)
		})

		r.Route("/purchase-form", func(r chi.Router) {
			r.Post("/", purchaseHandler.Fetch)
			r.Post("/premium", purchaseHandler.Premium)
		})
	})

	return &Router{
		Router: r,
		logger: cfg.Logger,
	}
}

// healthHandler returns basic health status
func healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "quotescout-api",
	})
}

// readyHandler checks if all dependencies are ready
func readyHandler(cache *rediscache.Cache, catalog handlers.CatalogProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]string)
		allHealthy := true

		// Check Redis if available
		if cache != nil {
			if err := cache.Health(r.Context()); err != nil {
				checks["redis"] = "unhealthy: " + err.Error()
				allHealthy = false
			} else {
				checks["redis"] = "healthy"
			}
		}

		// A missing catalog is not a failure, the API can rebuild it on demand.
		if catalog != nil {
			if _, err := catalog.Current(r.Context()); err != nil {
				checks["catalog"] = "not built"
			} else {
				checks["catalog"] = "built"
			}
		}

		status := http.StatusOK
		statusText := "ready"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			statusText = "not ready"
		}

		httputil.JSON(w, status, map[string]any{
			"status": statusText,
			"checks": checks,
		})
	}
}
