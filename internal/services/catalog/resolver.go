package catalog

import (
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/domain"
)

// ResolverConfig controls lookup-miss behavior. FallbackDestinationID, when
// non-empty, re-enables the legacy behavior of substituting a fixed ID on a
// destination miss; it is off by default because silent substitution masks
// typos.
type ResolverConfig struct {
	FallbackDestinationID string
}

// Resolver maps a human-entered QuoteConfig onto the catalog's internal IDs
type Resolver struct {
	config ResolverConfig
	logger *zap.Logger
}

// NewResolver creates a resolver
func NewResolver(config ResolverConfig, logger *zap.Logger) *Resolver {
	return &Resolver{config: config, logger: logger}
}

// Resolve matches the free-text trip parameters against the catalog. Matching
// is fuzzy (case-insensitive substring in either direction); a miss is a
// ResolutionError, never a silent default.
func (r *Resolver) Resolve(cat *domain.Catalog, cfg domain.QuoteConfig) (*domain.ResolvedQuote, error) {
	if cat == nil {
		return nil, domain.ErrCatalogNotBuilt
	}

	tripType, ok := domain.FindOption(cat.TripTypes, string(cfg.TripType))
	if !ok {
		return nil, domain.ResolutionError("trip_type", string(cfg.TripType))
	}

	origin, ok := domain.FindOption(cat.Origins, cfg.Origin)
	if !ok {
		return nil, domain.ResolutionError("origin", cfg.Origin)
	}

	destination, ok := domain.FindOption(cat.DestinationsFor(tripType.Value), cfg.Destination)
	if !ok {
		if r.config.FallbackDestinationID == "" {
			return nil, domain.ResolutionError("destination", cfg.Destination)
		}
		r.logger.Warn("Destination not found in catalog, substituting configured fallback ID",
			zap.String("destination", cfg.Destination),
			zap.String("fallback_id", r.config.FallbackDestinationID),
		)
		destination = domain.CatalogOption{Value: r.config.FallbackDestinationID, Text: cfg.Destination}
	}

	resolved := &domain.ResolvedQuote{
		Config:        cfg,
		TripTypeID:    tripType.Value,
		OriginID:      origin.Value,
		DestinationID: destination.Value,
	}

	if cfg.Agent != "" {
		agent, ok := domain.FindOption(cat.Agents, cfg.Agent)
		if !ok {
			return nil, domain.ResolutionError("agent", cfg.Agent)
		}
		resolved.AgentID = agent.Value
	}

	return resolved, nil
}
