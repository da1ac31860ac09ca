package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/domain"
	"github.com/quotescout/quotescout/internal/observability"
	"github.com/quotescout/quotescout/pkg/httputil"
)

// CatalogProvider exposes the remote quoting site's option catalog.
type CatalogProvider interface {
	Current(ctx context.Context) (*domain.Catalog, error)
	Rebuild(ctx context.Context) (*domain.Catalog, error)
}

// CatalogHandler serves the discovered option catalog
type CatalogHandler struct {
	catalog CatalogProvider
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog CatalogProvider, metrics *observability.Metrics, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, metrics: metrics, logger: logger}
}

// Get handles GET /api/v1/catalog
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.catalog.Current(r.Context())
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"catalog": cat,
	})
}

// Rebuild handles POST /api/v1/catalog/rebuild
func (h *CatalogHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Catalog rebuild requested")

	cat, err := h.catalog.Rebuild(r.Context())
	if err != nil {
		h.observeBuild("error")
		h.logger.Error("Catalog rebuild failed", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}
	h.observeBuild("success")

	httputil.JSON(w, http.StatusOK, map[string]any{
		"catalog":      cat,
		"trip_types":   len(cat.TripTypes),
		"origins":      len(cat.Origins),
		"destinations": len(cat.Destinations),
		"agents":       len(cat.Agents),
	})
}

func (h *CatalogHandler) observeBuild(outcome string) {
	if h.metrics != nil {
		h.metrics.CatalogBuildsTotal.WithLabelValues(outcome).Inc()
	}
}
