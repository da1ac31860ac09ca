package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/browser"
	"github.com/quotescout/quotescout/internal/domain"
)

// Store persists the most recently built catalog across restarts
type Store interface {
	SetCatalog(ctx context.Context, catalog *domain.Catalog) error
	GetCatalog(ctx context.Context) (*domain.Catalog, error)
}

// Service holds the current catalog and rebuilds it on demand. The catalog is
// the only state shared across requests: it is replaced wholesale, never
// mutated in place, so reads only need the holder lock.
type Service struct {
	manager  *browser.Manager
	builder  *Builder
	resolver *Resolver
	store    Store
	logger   *zap.Logger

	mu      sync.RWMutex
	current *domain.Catalog
}

// NewService creates the catalog service. store may be nil, in which case the
// catalog lives only in memory.
func NewService(manager *browser.Manager, builder *Builder, resolver *Resolver, store Store, logger *zap.Logger) *Service {
	return &Service{
		manager:  manager,
		builder:  builder,
		resolver: resolver,
		store:    store,
		logger:   logger,
	}
}

// Rebuild scrapes a fresh catalog and replaces the current one
func (s *Service) Rebuild(ctx context.Context) (*domain.Catalog, error) {
	var built *domain.Catalog

	err := s.manager.WithSession(ctx, func(session browser.Session) error {
		catalog, err := s.builder.Build(ctx, session)
		if err != nil {
			return err
		}
		built = catalog
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = built
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SetCatalog(ctx, built); err != nil {
			s.logger.Warn("Failed to persist catalog", zap.Error(err))
		}
	}

	return built, nil
}

// Current returns the most recently built catalog, consulting the store when
// nothing has been built in this process yet. Returns ErrCatalogNotBuilt when
// none exists anywhere.
func (s *Service) Current(ctx context.Context) (*domain.Catalog, error) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current != nil {
		return current, nil
	}

	if s.store != nil {
		stored, err := s.store.GetCatalog(ctx)
		if err != nil {
			s.logger.Warn("Failed to load catalog from store", zap.Error(err))
		} else if stored != nil {
			s.mu.Lock()
			s.current = stored
			s.mu.Unlock()
			return stored, nil
		}
	}

	return nil, domain.ErrCatalogNotBuilt
}

// Resolve maps a quote config onto the current catalog's internal IDs
func (s *Service) Resolve(ctx context.Context, cfg domain.QuoteConfig) (*domain.ResolvedQuote, error) {
	catalog, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(catalog, cfg)
}
