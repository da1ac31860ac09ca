package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/browser"
	"github.com/quotescout/quotescout/internal/domain"
)

// Selectors of the remote quote form and result page
const (
	selTripType       = "select#trip-type"
	selOrigin         = "select#origin-country"
	selDestination    = "select#destination-country"
	selAgent          = "select#agency"
	selDepartureDate  = "input#departure-date"
	selReturnDate     = "input#return-date"
	selPassengerCount = "select#passenger-count"
	selSubmit         = "button#get-quote"
	selResults        = "#quote-results"
)

func selAge(index int) string {
	return fmt.Sprintf(`input[name="ages[%d]"]`, index)
}

// Config bounds the quote submission flow
type Config struct {
	BaseURL       string
	WaitTimeout   time.Duration
	ResultTimeout time.Duration
	SettleDelay   time.Duration
}

// DefaultConfig returns production timeouts. The result wait is the longest
// because the remote pricing backend is the slow step.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:       baseURL,
		WaitTimeout:   30 * time.Second,
		ResultTimeout: 60 * time.Second,
		SettleDelay:   1200 * time.Millisecond,
	}
}

// SessionStore keeps quote sessions between the quote and purchase steps
type SessionStore interface {
	SetQuoteSession(ctx context.Context, session *domain.QuoteSession) error
	GetQuoteSession(ctx context.Context, id string) (*domain.QuoteSession, error)
}

// Diagnostics captures failure state for offline analysis
type Diagnostics interface {
	UploadScreenshot(ctx context.Context, key string, data []byte) (string, error)
}

// Service submits resolved quote configurations to the remote site and parses
// the returned plan list.
type Service struct {
	manager     *browser.Manager
	config      Config
	store       SessionStore
	diagnostics Diagnostics
	logger      *zap.Logger
}

// NewService creates the quote service. store and diagnostics may be nil.
func NewService(manager *browser.Manager, config Config, store SessionStore, diagnostics Diagnostics, logger *zap.Logger) *Service {
	return &Service{
		manager:     manager,
		config:      config,
		store:       store,
		diagnostics: diagnostics,
		logger:      logger,
	}
}

// Submit drives one sequential scripted interaction: navigate, fill the trip
// parameters, submit, wait for the result page, parse plans. The session is
// torn down on every exit path by the manager. An empty plan list is a valid
// outcome, not an error.
func (s *Service) Submit(ctx context.Context, resolved *domain.ResolvedQuote) (*domain.QuoteSession, error) {
	start := time.Now()
	var quoteSession *domain.QuoteSession

	err := s.manager.WithSession(ctx, func(session browser.Session) error {
		if err := session.Navigate(ctx, s.config.BaseURL); err != nil {
			return s.failure(ctx, session, "loading quote form", err)
		}
		if err := session.WaitForSelector(ctx, selTripType, s.config.WaitTimeout); err != nil {
			return s.failure(ctx, session, "locating quote form", err)
		}

		if err := s.fillTripParameters(ctx, session, resolved); err != nil {
			return err
		}

		if err := session.Click(ctx, selSubmit); err != nil {
			return s.failure(ctx, session, "submitting quote form", err)
		}
		if err := session.WaitForSelector(ctx, selResults, s.config.ResultTimeout); err != nil {
			return s.failure(ctx, session, "waiting for quote results", err)
		}

		html, err := session.Content(ctx)
		if err != nil {
			return s.failure(ctx, session, "reading quote results", err)
		}

		quoteSession = &domain.QuoteSession{
			ID:        uuid.NewString(),
			URL:       session.CurrentURL(),
			Plans:     ParsePlans(html),
			CreatedAt: time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SetQuoteSession(ctx, quoteSession); err != nil {
			s.logger.Warn("Failed to persist quote session", zap.Error(err))
		}
	}

	s.logger.Info("Quote submitted",
		zap.String("session_id", quoteSession.ID),
		zap.Int("plan_count", len(quoteSession.Plans)),
		zap.Duration("duration", time.Since(start)),
	)

	return quoteSession, nil
}

// fillTripParameters fills the base form in document order. Each dependent
// select gets a settle delay so the page's own logic can refresh its options
// before the next value is applied.
func (s *Service) fillTripParameters(ctx context.Context, session browser.Session, resolved *domain.ResolvedQuote) error {
	if err := session.SelectByValue(ctx, selTripType, resolved.TripTypeID); err != nil {
		return s.failure(ctx, session, "selecting trip type", err)
	}
	if err := session.Settle(ctx, s.config.SettleDelay); err != nil {
		return err
	}

	if err := session.SelectByValue(ctx, selOrigin, resolved.OriginID); err != nil {
		return s.failure(ctx, session, "selecting origin", err)
	}
	if err := session.SelectByValue(ctx, selDestination, resolved.DestinationID); err != nil {
		return s.failure(ctx, session, "selecting destination", err)
	}
	if resolved.AgentID != "" {
		if err := session.SelectByValue(ctx, selAgent, resolved.AgentID); err != nil {
			return s.failure(ctx, session, "selecting agent", err)
		}
	}

	cfg := resolved.Config
	if err := session.Fill(ctx, selDepartureDate, cfg.DepartureDate.Machine()); err != nil {
		return s.failure(ctx, session, "filling departure date", err)
	}
	if err := session.Fill(ctx, selReturnDate, cfg.ReturnDate.Machine()); err != nil {
		return s.failure(ctx, session, "filling return date", err)
	}

	if err := session.SelectByValue(ctx, selPassengerCount, fmt.Sprintf("%d", cfg.PassengerCount)); err != nil {
		return s.failure(ctx, session, "selecting passenger count", err)
	}
	// The age inputs only exist after the count change is processed.
	if err := session.Settle(ctx, s.config.SettleDelay); err != nil {
		return err
	}
	for i, age := range cfg.Ages {
		if err := session.Fill(ctx, selAge(i), fmt.Sprintf("%d", age)); err != nil {
			return s.failure(ctx, session, fmt.Sprintf("filling age for passenger %d", i+1), err)
		}
	}

	return nil
}

// Session retrieves a stored quote session by id
func (s *Service) Session(ctx context.Context, id string) (*domain.QuoteSession, error) {
	if s.store == nil {
		return nil, domain.ErrSessionExpired
	}
	session, err := s.store.GetQuoteSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading quote session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

// failure converts a driver error into a RemoteInteractionError, attaching a
// screenshot of the failed state when diagnostics storage is available. Raw
// driver errors never cross the service boundary.
func (s *Service) failure(ctx context.Context, session browser.Session, step string, err error) error {
	domainErr := domain.RemoteInteractionError(step, err)

	if s.diagnostics != nil {
		if shot, shotErr := session.Screenshot(ctx); shotErr == nil {
			key := fmt.Sprintf("diagnostics/quote/%s.jpg", uuid.NewString())
			if uri, upErr := s.diagnostics.UploadScreenshot(ctx, key, shot); upErr == nil {
				domainErr = domainErr.WithScreenshot(uri)
			}
		}
	}

	s.logger.Error("Quote flow failed",
		zap.String("step", step),
		zap.Error(err),
	)

	return domainErr
}
