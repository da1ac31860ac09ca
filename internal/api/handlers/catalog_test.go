package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/domain"
)

type fakeCatalog struct {
	catalog  *domain.Catalog
	err      error
	rebuilds int
}

func (f *fakeCatalog) Current(ctx context.Context) (*domain.Catalog, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

func (f *fakeCatalog) Rebuild(ctx context.Context) (*domain.Catalog, error) {
	f.rebuilds++
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

func sampleCatalog() *domain.Catalog {
	return &domain.Catalog{
		TripTypes: []domain.CatalogOption{{Value: "1", Text: "Daily trip"}},
		Origins:   []domain.CatalogOption{{Value: "AR", Text: "Argentina"}},
		Destinations: map[string][]domain.CatalogOption{
			"1": {{Value: "5", Text: "Europe"}},
		},
		BuiltAt: time.Now().UTC(),
	}
}

func TestCatalogHandler_Get(t *testing.T) {
	h := NewCatalogHandler(&fakeCatalog{catalog: sampleCatalog()}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)

	var data struct {
		Catalog domain.Catalog `json:"catalog"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Catalog.TripTypes, 1)
}

func TestCatalogHandler_Get_NotBuilt(t *testing.T) {
	h := NewCatalogHandler(&fakeCatalog{err: domain.ErrCatalogNotBuilt}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.ErrCodeCatalogNotBuilt, env.Error.Code)
}

func TestCatalogHandler_Rebuild(t *testing.T) {
	catalog := &fakeCatalog{catalog: sampleCatalog()}
	h := NewCatalogHandler(catalog, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/rebuild", nil)
	rec := httptest.NewRecorder()
	h.Rebuild(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, catalog.rebuilds)
}

func TestCatalogHandler_Rebuild_RemoteFailure(t *testing.T) {
	catalog := &fakeCatalog{err: domain.RemoteInteractionError("loading base form", assert.AnError)}
	h := NewCatalogHandler(catalog, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/rebuild", nil)
	rec := httptest.NewRecorder()
	h.Rebuild(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
