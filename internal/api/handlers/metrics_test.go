package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/domain"
	"github.com/quotescout/quotescout/internal/observability"
)

// One instance for the whole package; the default prometheus registerer
// rejects duplicate registration.
var testMetrics = observability.NewMetrics("handlertest")

func TestQuoteHandler_Submit_CountsResolutionMiss(t *testing.T) {
	resolver := &fakeResolver{err: domain.ResolutionError("destination", "Atlantis")}
	h := NewQuoteHandler(resolver, &fakeSubmitter{}, testMetrics, zap.NewNop())

	missed := testMetrics.ResolutionMisses.WithLabelValues("destination")
	before := testutil.ToFloat64(missed)

	rec, _ := postJSON(t, h.Submit, validQuoteRequest())
	require.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, before+1, testutil.ToFloat64(missed))
}

func TestCatalogHandler_Rebuild_CountsOutcomes(t *testing.T) {
	succeeded := testMetrics.CatalogBuildsTotal.WithLabelValues("success")
	failed := testMetrics.CatalogBuildsTotal.WithLabelValues("error")
	successBefore := testutil.ToFloat64(succeeded)
	errorBefore := testutil.ToFloat64(failed)

	h := NewCatalogHandler(&fakeCatalog{catalog: sampleCatalog()}, testMetrics, zap.NewNop())
	rec := httptest.NewRecorder()
	h.Rebuild(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/rebuild", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	h = NewCatalogHandler(&fakeCatalog{err: domain.RemoteInteractionError("loading base form", assert.AnError)}, testMetrics, zap.NewNop())
	rec = httptest.NewRecorder()
	h.Rebuild(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/rebuild", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	assert.Equal(t, successBefore+1, testutil.ToFloat64(succeeded))
	assert.Equal(t, errorBefore+1, testutil.ToFloat64(failed))
}
