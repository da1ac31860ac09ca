package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/domain"
	"github.com/quotescout/quotescout/internal/observability"
	"github.com/quotescout/quotescout/pkg/httputil"
)

// QuoteResolver turns free-text trip parameters into remote option IDs.
type QuoteResolver interface {
	Resolve(ctx context.Context, cfg domain.QuoteConfig) (*domain.ResolvedQuote, error)
}

// QuoteSubmitter drives the remote quote form and returns the parsed plans.
type QuoteSubmitter interface {
	Submit(ctx context.Context, resolved *domain.ResolvedQuote) (*domain.QuoteSession, error)
	Session(ctx context.Context, id string) (*domain.QuoteSession, error)
}

// QuoteRequest is the POST /api/v1/quote body. Dates use DD/MM/YYYY.
type QuoteRequest struct {
	TripType       string `json:"trip_type"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	DepartureDate  string `json:"departure_date"`
	ReturnDate     string `json:"return_date,omitempty"`
	PassengerCount int    `json:"passenger_count"`
	Ages           []int  `json:"ages"`
	Agent          string `json:"agent,omitempty"`
}

// QuoteResponse carries the quote session and its parsed plans
type QuoteResponse struct {
	SessionID string             `json:"session_id"`
	QuoteURL  string             `json:"quote_url"`
	Plans     []domain.QuotePlan `json:"plans"`
	PlanCount int                `json:"plan_count"`
}

// QuoteHandler submits trip configurations to the remote quoting site
type QuoteHandler struct {
	resolver  QuoteResolver
	submitter QuoteSubmitter
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(resolver QuoteResolver, submitter QuoteSubmitter, metrics *observability.Metrics, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{resolver: resolver, submitter: submitter, metrics: metrics, logger: logger}
}

// Submit handles POST /api/v1/quote
func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	cfg, err := req.toConfig()
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}
	if err := cfg.Validate(domain.DateOf(time.Now())); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	resolved, err := h.resolver.Resolve(r.Context(), cfg)
	if err != nil {
		h.observeOutcome("resolution_failed")
		h.observeResolutionMiss(err)
		httputil.ErrorFromDomain(w, err)
		return
	}

	start := time.Now()
	session, err := h.submitter.Submit(r.Context(), resolved)
	if err != nil {
		h.observeOutcome("error")
		h.logger.Error("Quote submission failed",
			zap.String("origin", cfg.Origin),
			zap.String("destination", cfg.Destination),
			zap.Error(err),
		)
		httputil.ErrorFromDomain(w, err)
		return
	}

	h.observeOutcome("success")
	if h.metrics != nil {
		h.metrics.ObserveScrape("quote", time.Since(start))
		h.metrics.PlansParsed.Observe(float64(len(session.Plans)))
	}

	h.logger.Info("Quote completed",
		zap.String("session_id", session.ID),
		zap.Int("plans", len(session.Plans)),
	)

	httputil.JSON(w, http.StatusOK, QuoteResponse{
		SessionID: session.ID,
		QuoteURL:  session.URL,
		Plans:     session.Plans,
		PlanCount: len(session.Plans),
	})
}

// GetSession handles GET /api/v1/quote/{sessionID}
func (h *QuoteHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	session, err := h.submitter.Session(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, QuoteResponse{
		SessionID: session.ID,
		QuoteURL:  session.URL,
		Plans:     session.Plans,
		PlanCount: len(session.Plans),
	})
}

func (h *QuoteHandler) observeOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.QuotesTotal.WithLabelValues(outcome).Inc()
	}
}

// observeResolutionMiss counts a catalog lookup miss by the field that failed
// to resolve
func (h *QuoteHandler) observeResolutionMiss(err error) {
	if h.metrics == nil {
		return
	}
	derr, ok := domain.AsDomainError(err)
	if !ok {
		return
	}
	field, ok := derr.Details["field"].(string)
	if !ok || field == "" {
		field = "unknown"
	}
	h.metrics.ResolutionMisses.WithLabelValues(field).Inc()
}

func (req *QuoteRequest) toConfig() (domain.QuoteConfig, error) {
	cfg := domain.QuoteConfig{
		TripType:       domain.TripType(req.TripType),
		Origin:         req.Origin,
		Destination:    req.Destination,
		PassengerCount: req.PassengerCount,
		Ages:           req.Ages,
		Agent:          req.Agent,
	}

	departure, err := domain.ParseHumanDate(req.DepartureDate)
	if err != nil {
		return cfg, domain.MalformedInputError("departure_date", "expected DD/MM/YYYY")
	}
	cfg.DepartureDate = departure

	if req.ReturnDate != "" {
		ret, err := domain.ParseHumanDate(req.ReturnDate)
		if err != nil {
			return cfg, domain.MalformedInputError("return_date", "expected DD/MM/YYYY")
		}
		cfg.ReturnDate = ret
	}

	return cfg, nil
}
