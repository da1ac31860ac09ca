package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SessionGauge tracks the number of currently open sessions.
// prometheus.Gauge satisfies it.
type SessionGauge interface {
	Inc()
	Dec()
}

// ManagerConfig controls the shared browser runtime
type ManagerConfig struct {
	Headless bool
	// SessionsPerMinute paces session creation against the remote site
	SessionsPerMinute int
	// SessionGauge, when set, counts open sessions. Incremented on session
	// creation, decremented on close.
	SessionGauge SessionGauge
}

// Manager owns the playwright runtime and a single browser process. Each
// in-flight request gets its own isolated browser context; sessions are not
// shared or pooled.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	limiter *rate.Limiter
	gauge   SessionGauge
	logger  *zap.Logger
}

// NewManager starts playwright and launches the browser
func NewManager(cfg ManagerConfig, logger *zap.Logger) (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	perMinute := cfg.SessionsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}

	return &Manager{
		pw:      pw,
		browser: browser,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		gauge:   cfg.SessionGauge,
		logger:  logger,
	}, nil
}

// Close tears down the browser and the playwright runtime
func (m *Manager) Close() error {
	if m.browser != nil {
		m.browser.Close()
	}
	if m.pw != nil {
		return m.pw.Stop()
	}
	return nil
}

// NewSession opens a fresh browser context and page. Callers must Close the
// session; prefer WithSession.
func (m *Manager) NewSession(ctx context.Context) (Session, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for session slot: %w", err)
	}

	browserCtx, err := m.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1920,
			Height: 1080,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("creating page: %w", err)
	}

	if m.gauge != nil {
		m.gauge.Inc()
	}
	return &pageSession{browserCtx: browserCtx, page: page, gauge: m.gauge}, nil
}

// WithSession runs fn with a scoped session and guarantees teardown on every
// exit path, including panics inside fn.
func (m *Manager) WithSession(ctx context.Context, fn func(Session) error) error {
	session, err := m.NewSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			m.logger.Warn("Failed to close browser session", zap.Error(err))
		}
	}()

	return fn(session)
}
