package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session is the narrow remote-form-driver capability the scraping services
// consume: load a URL, read and set field values, click, and read the
// resulting DOM. Everything interesting happens above this interface.
type Session interface {
	Navigate(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
	SelectByValue(ctx context.Context, selector, value string) error
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	// Settle pauses so the remote page's own client-side logic can react to a
	// programmatic change, e.g. refreshing destination options after a
	// trip-type switch.
	Settle(ctx context.Context, d time.Duration) error
	Content(ctx context.Context) (string, error)
	CurrentURL() string
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// pageSession drives one playwright page inside its own browser context
type pageSession struct {
	browserCtx playwright.BrowserContext
	page       playwright.Page
	gauge      SessionGauge
	closeOnce  sync.Once
}

func (s *pageSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	resp, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if resp != nil && resp.Status() >= 400 {
		return fmt.Errorf("page %s returned status %d", url, resp.Status())
	}
	return nil
}

func (s *pageSession) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.page.Locator(selector).Fill(value); err != nil {
		return fmt.Errorf("filling %s: %w", selector, err)
	}
	return nil
}

func (s *pageSession) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.page.Locator(selector).Click(); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

func (s *pageSession) SelectByValue(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Locator(selector).SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	})
	if err != nil {
		return fmt.Errorf("selecting %q on %s: %w", value, selector, err)
	}
	return nil
}

func (s *pageSession) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	return nil
}

func (s *pageSession) Settle(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.page.WaitForTimeout(float64(d.Milliseconds()))
	return nil
}

func (s *pageSession) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("reading page content: %w", err)
	}
	return content, nil
}

func (s *pageSession) CurrentURL() string {
	return s.page.URL()
}

func (s *pageSession) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypeJpeg,
		Quality:  playwright.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("taking screenshot: %w", err)
	}
	return data, nil
}

func (s *pageSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.gauge != nil {
			s.gauge.Dec()
		}
		if s.page != nil {
			s.page.Close()
		}
		if s.browserCtx != nil {
			err = s.browserCtx.Close()
		}
	})
	return err
}
