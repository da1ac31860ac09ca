package purchase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quotescout/quotescout/internal/browser"
	"github.com/quotescout/quotescout/internal/domain"
	"github.com/quotescout/quotescout/internal/services/quote"
)

// The quote-result URL embeds a session token either as a query parameter or
// as a trailing path segment. Combined with the tier-prefix mapping this lets
// the purchase page be addressed directly, skipping the result page's own
// "buy" click entirely.
var sessionTokenRes = []*regexp.Regexp{
	regexp.MustCompile(`[?&](?:session|sid|quote)=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`/quote/([A-Za-z0-9_-]{6,})`),
}

// ExtractSessionToken pulls the quote session token out of a quote-result URL
func ExtractSessionToken(quoteURL string) (string, error) {
	for _, re := range sessionTokenRes {
		if m := re.FindStringSubmatch(quoteURL); m != nil {
			return m[1], nil
		}
	}
	return "", domain.MalformedInputError("quote_url",
		fmt.Sprintf("no session token recognizable in %q", quoteURL))
}

// PurchaseURL builds the direct purchase-page address for a quote session and
// a purchase-page plan identifier
func PurchaseURL(baseURL, token, purchasePlanID string) string {
	return fmt.Sprintf("%s/purchase?session=%s&plan=%s",
		strings.TrimSuffix(baseURL, "/"), token, purchasePlanID)
}

// Config bounds the purchase-page fetch
type Config struct {
	BaseURL     string
	WaitTimeout time.Duration
	SettleDelay time.Duration
}

// DefaultConfig returns production timeouts
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:     baseURL,
		WaitTimeout: 30 * time.Second,
		SettleDelay: 1200 * time.Millisecond,
	}
}

// Diagnostics stores raw page state for offline re-analysis
type Diagnostics interface {
	UploadScreenshot(ctx context.Context, key string, data []byte) (string, error)
	UploadHTML(ctx context.Context, key string, html string) (string, error)
}

// Service fetches and extracts purchase forms
type Service struct {
	manager     *browser.Manager
	config      Config
	diagnostics Diagnostics
	logger      *zap.Logger
}

// NewService creates the purchase service. diagnostics may be nil.
func NewService(manager *browser.Manager, config Config, diagnostics Diagnostics, logger *zap.Logger) *Service {
	return &Service{
		manager:     manager,
		config:      config,
		diagnostics: diagnostics,
		logger:      logger,
	}
}

// Fetch loads the purchase page for a selected plan and extracts its forms.
// planID is the quote-page identifier (D-<tier>); the purchase-page variant is
// derived by prefix mapping. Zero extractable forms is a valid "nothing found"
// result carried in the returned data, not an error.
func (s *Service) Fetch(ctx context.Context, planID, quoteURL string) (*domain.PurchaseFormData, error) {
	token, err := ExtractSessionToken(quoteURL)
	if err != nil {
		return nil, err
	}

	target := PurchaseURL(s.config.BaseURL, token, quote.MapToPurchaseID(planID))
	data := &domain.PurchaseFormData{URL: target}

	err = s.manager.WithSession(ctx, func(session browser.Session) error {
		if err := session.Navigate(ctx, target); err != nil {
			return s.failure(ctx, session, "loading purchase page", err)
		}
		if err := session.WaitForSelector(ctx, "form", s.config.WaitTimeout); err != nil {
			return s.failure(ctx, session, "waiting for purchase forms", err)
		}
		// Let the page's premium widgets finish initializing before the DOM
		// snapshot.
		if err := session.Settle(ctx, s.config.SettleDelay); err != nil {
			return err
		}

		html, err := session.Content(ctx)
		if err != nil {
			return s.failure(ctx, session, "reading purchase page", err)
		}
		data.RawHTML = html
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.diagnostics != nil {
		key := fmt.Sprintf("diagnostics/purchase/%s.html", uuid.NewString())
		if uri, upErr := s.diagnostics.UploadHTML(ctx, key, data.RawHTML); upErr == nil {
			data.RawHTMLURI = uri
		} else {
			s.logger.Warn("Failed to upload raw purchase HTML", zap.Error(upErr))
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(data.RawHTML))
	if err != nil {
		data.Error = fmt.Sprintf("parsing purchase page: %v", err)
		return data, nil
	}
	data.Forms = ExtractForms(doc)

	s.logger.Info("Purchase page extracted",
		zap.String("plan_id", planID),
		zap.Int("forms", len(data.Forms)),
	)

	return data, nil
}

func (s *Service) failure(ctx context.Context, session browser.Session, step string, err error) error {
	domainErr := domain.RemoteInteractionError(step, err)

	if s.diagnostics != nil {
		if shot, shotErr := session.Screenshot(ctx); shotErr == nil {
			key := fmt.Sprintf("diagnostics/purchase/%s.jpg", uuid.NewString())
			if uri, upErr := s.diagnostics.UploadScreenshot(ctx, key, shot); upErr == nil {
				domainErr = domainErr.WithScreenshot(uri)
			}
		}
	}

	s.logger.Error("Purchase flow failed",
		zap.String("step", step),
		zap.Error(err),
	)

	return domainErr
}
