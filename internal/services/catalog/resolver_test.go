package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/domain"
)

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		TripTypes: []domain.CatalogOption{
			{Value: "1", Text: "Daily trip"},
			{Value: "2", Text: "Annual multi-trip"},
		},
		Origins: []domain.CatalogOption{
			{Value: "AR", Text: "Argentina"},
			{Value: "UY", Text: "Uruguay"},
		},
		Destinations: map[string][]domain.CatalogOption{
			"1": {
				{Value: "5", Text: "Europe"},
				{Value: "9", Text: "North America"},
			},
			"2": {
				{Value: "12", Text: "Worldwide"},
			},
		},
		Agents: []domain.CatalogOption{
			{Value: "77", Text: "Acme Travel"},
		},
	}
}

func testConfig() domain.QuoteConfig {
	return domain.QuoteConfig{
		TripType:    domain.TripTypeDaily,
		Origin:      "argentina",
		Destination: "europe",
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(ResolverConfig{}, zap.NewNop())

	resolved, err := r.Resolve(testCatalog(), testConfig())
	require.NoError(t, err)

	assert.Equal(t, "1", resolved.TripTypeID)
	assert.Equal(t, "AR", resolved.OriginID)
	assert.Equal(t, "5", resolved.DestinationID)
	assert.Empty(t, resolved.AgentID)
}

func TestResolver_DestinationsScopedToTripType(t *testing.T) {
	r := NewResolver(ResolverConfig{}, zap.NewNop())

	// "Worldwide" only exists under the annual trip type
	cfg := testConfig()
	cfg.Destination = "Worldwide"

	_, err := r.Resolve(testCatalog(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResolutionVal))

	cfg.TripType = domain.TripTypeAnnual
	resolved, err := r.Resolve(testCatalog(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "12", resolved.DestinationID)
}

func TestResolver_MissIsLoud(t *testing.T) {
	r := NewResolver(ResolverConfig{}, zap.NewNop())

	tests := []struct {
		name   string
		mutate func(*domain.QuoteConfig)
	}{
		{"unknown origin", func(q *domain.QuoteConfig) { q.Origin = "Narnia" }},
		{"unknown destination", func(q *domain.QuoteConfig) { q.Destination = "Atlantis" }},
		{"unknown agent", func(q *domain.QuoteConfig) { q.Agent = "Nobody Travel" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := r.Resolve(testCatalog(), cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrResolutionVal), "got %v", err)

			domainErr, ok := domain.AsDomainError(err)
			require.True(t, ok)
			assert.NotEmpty(t, domainErr.Details["field"])
		})
	}
}

func TestResolver_ConfiguredFallbackDestination(t *testing.T) {
	r := NewResolver(ResolverConfig{FallbackDestinationID: "5"}, zap.NewNop())

	cfg := testConfig()
	cfg.Destination = "Atlantis"

	resolved, err := r.Resolve(testCatalog(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "5", resolved.DestinationID)
}

func TestResolver_AgentResolvedOnlyWhenGiven(t *testing.T) {
	r := NewResolver(ResolverConfig{}, zap.NewNop())

	cfg := testConfig()
	cfg.Agent = "acme"

	resolved, err := r.Resolve(testCatalog(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "77", resolved.AgentID)
}

func TestResolver_NilCatalog(t *testing.T) {
	r := NewResolver(ResolverConfig{}, zap.NewNop())

	_, err := r.Resolve(nil, testConfig())
	assert.True(t, errors.Is(err, domain.ErrCatalogNotBuilt))
}
