// Package browser implements the page fetcher on headless Chromium via
// playwright-go. Search result feeds render client-side, so a plain HTTP GET
// is not enough; the fetcher waits out a settle delay after navigation and
// can scroll the page to trigger lazy loading.
package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/playwright-community/playwright-go"

	"NewsRadar/internal/ports"
)

// Fetcher owns one browser process shared by all page loads in a run.
type Fetcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	logger  *slog.Logger
}

var _ ports.Fetcher = (*Fetcher)(nil)

// New starts Playwright and launches Chromium. Close must be called when the
// run is over.
func New(headless bool, logger *slog.Logger) (*Fetcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args:     []string{"--disable-gpu", "--no-sandbox"},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	return &Fetcher{pw: pw, browser: browser, logger: logger}, nil
}

// Fetch navigates to the request URL in a fresh page, applies the settle
// delay and scroll rounds, and returns the rendered markup.
func (f *Fetcher) Fetch(ctx context.Context, req ports.FetchRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := f.browser.NewPage()
	if err != nil {
		return "", fmt.Errorf("new page: %w", err)
	}
	defer page.Close()

	if f.logger != nil {
		f.logger.Debug("navigate", "url", req.URL)
	}

	if _, err := page.Goto(req.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return "", fmt.Errorf("goto %s: %w", req.URL, err)
	}

	if req.SettleDelay > 0 {
		page.WaitForTimeout(float64(req.SettleDelay.Milliseconds()))
	}

	for i := 0; i < req.Scrolls; i++ {
		if _, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
			return "", fmt.Errorf("scroll page: %w", err)
		}
		if req.ScrollDelay > 0 {
			page.WaitForTimeout(float64(req.ScrollDelay.Milliseconds()))
		}
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("page content: %w", err)
	}
	return content, nil
}

// Close shuts down the browser and the Playwright driver.
func (f *Fetcher) Close() error {
	if err := f.browser.Close(); err != nil {
		_ = f.pw.Stop()
		return fmt.Errorf("close browser: %w", err)
	}
	if err := f.pw.Stop(); err != nil {
		return fmt.Errorf("stop playwright: %w", err)
	}
	return nil
}
