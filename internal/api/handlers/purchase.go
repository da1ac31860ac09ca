package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/domain"
	"github.com/quotescout/quotescout/internal/forms"
	"github.com/quotescout/quotescout/internal/observability"
	"github.com/quotescout/quotescout/pkg/httputil"
)

// PurchaseFetcher loads a plan's purchase page and extracts its forms.
type PurchaseFetcher interface {
	Fetch(ctx context.Context, planID, quoteURL string) (*domain.PurchaseFormData, error)
}

// PurchaseFormRequest is the POST /api/v1/purchase-form body
type PurchaseFormRequest struct {
	PlanID   string `json:"plan_id"`
	QuoteURL string `json:"quote_url"`
}

// FormView pairs an extracted form with its presentation grouping and, when a
// base premium field was found, the recalculation seed for that form.
type FormView struct {
	Form             domain.PurchaseForm `json:"form"`
	Groups           forms.Grouped       `json:"groups"`
	BasePremiumCents *int64              `json:"base_premium_cents,omitempty"`
	PremiumFieldName string              `json:"premium_field_name,omitempty"`
}

// PurchaseFormResponse carries the extracted purchase page
type PurchaseFormResponse struct {
	URL        string     `json:"url"`
	RawHTMLURI string     `json:"raw_html_uri,omitempty"`
	Forms      []FormView `json:"forms"`
	Error      string     `json:"error,omitempty"`
}

// PremiumRequest is the POST /api/v1/purchase-form/premium body. Tracked holds
// the client-side field values keyed by full field name.
type PremiumRequest struct {
	BasePremiumCents int64             `json:"base_premium_cents"`
	PremiumFieldName string            `json:"premium_field_name"`
	Riders           []RiderInput      `json:"riders"`
	Tracked          map[string]string `json:"tracked"`
}

// RiderInput describes one optional-benefit checkbox
type RiderInput struct {
	Name         string `json:"name"`
	PremiumCents int64  `json:"premium_cents"`
	OnValue      string `json:"on_value"`
}

// PremiumResponse is the recalculated total
type PremiumResponse struct {
	TotalCents int64             `json:"total_cents"`
	Formatted  string            `json:"formatted"`
	Tracked    map[string]string `json:"tracked"`
}

// PurchaseHandler extracts purchase forms and recomputes premiums
type PurchaseHandler struct {
	fetcher PurchaseFetcher
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(fetcher PurchaseFetcher, metrics *observability.Metrics, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{fetcher: fetcher, metrics: metrics, logger: logger}
}

// Fetch handles POST /api/v1/purchase-form
func (h *PurchaseHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req PurchaseFormRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}
	if req.PlanID == "" {
		httputil.ErrorFromDomain(w, domain.MalformedInputError("plan_id", "plan_id is required"))
		return
	}
	if req.QuoteURL == "" {
		httputil.ErrorFromDomain(w, domain.MalformedInputError("quote_url", "quote_url is required"))
		return
	}

	start := time.Now()
	data, err := h.fetcher.Fetch(r.Context(), req.PlanID, req.QuoteURL)
	if err != nil {
		h.logger.Error("Purchase form fetch failed",
			zap.String("plan_id", req.PlanID),
			zap.Error(err),
		)
		httputil.ErrorFromDomain(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveScrape("purchase_form", time.Since(start))
	}

	resp := PurchaseFormResponse{
		URL:        data.URL,
		RawHTMLURI: data.RawHTMLURI,
		Error:      data.Error,
		Forms:      make([]FormView, 0, len(data.Forms)),
	}
	for _, form := range data.Forms {
		view := FormView{
			Form:   form,
			Groups: forms.Group(form.Fields),
		}
		if engine, ok := forms.NewEngine(form.Fields); ok {
			base := engine.BaseCents()
			view.BasePremiumCents = &base
			view.PremiumFieldName = engine.PremiumFieldName()
		}
		resp.Forms = append(resp.Forms, view)
	}

	httputil.JSON(w, http.StatusOK, resp)
}

// Premium handles POST /api/v1/purchase-form/premium
func (h *PurchaseHandler) Premium(w http.ResponseWriter, r *http.Request) {
	var req PremiumRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}
	if req.BasePremiumCents < 0 {
		httputil.ErrorFromDomain(w, domain.MalformedInputError("base_premium_cents", "must not be negative"))
		return
	}

	tracked := req.Tracked
	if tracked == nil {
		tracked = map[string]string{}
	}

	riders := make([]forms.Rider, 0, len(req.Riders))
	for _, in := range req.Riders {
		riders = append(riders, forms.Rider{
			Name:         in.Name,
			PremiumCents: in.PremiumCents,
			OnValue:      in.OnValue,
			Tracked:      tracked[in.Name],
		})
	}

	engine := forms.NewEngineWithBase(req.BasePremiumCents, req.PremiumFieldName)
	total, formatted := engine.Recalculate(riders, tracked)

	httputil.JSON(w, http.StatusOK, PremiumResponse{
		TotalCents: total,
		Formatted:  formatted,
		Tracked:    tracked,
	})
}
