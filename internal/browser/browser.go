package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maltedev/zoom-price-scraper/internal/fetch"
	"github.com/playwright-community/playwright-go"
)

// ErrChallengePage is returned when the site answers with an anti-bot
// interstitial instead of the requested page.
var ErrChallengePage = errors.New("anti-bot challenge page")

var challengeMarkers = []string{
	"Just a moment...",
	"cf-browser-verification",
	"Attention Required!",
}

// Browser renders pages in headless Chromium. It implements fetch.PageFetcher
// for pages whose markup is only complete after scripts run.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	opts    *Options
	logger  *slog.Logger
}

type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	TimezoneID     string
	Locale         string
	ProxyServer    string
	ExtraHeaders   map[string]string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        30 * time.Second,
		UserAgent:      fetch.DefaultUserAgent,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		TimezoneID:     "America/Sao_Paulo",
		Locale:         "pt-BR",
		ExtraHeaders: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "pt-BR,pt;q=0.9",
		},
	}
}

func New(opts *Options, logger *slog.Logger) (*Browser, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}

	if opts.ProxyServer != "" {
		launchOpts.Proxy = &playwright.Proxy{
			Server: opts.ProxyServer,
		}
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(contextOptions(opts))
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	return &Browser{
		pw:      pw,
		browser: browser,
		context: bctx,
		opts:    opts,
		logger:  logger.With("component", "browser"),
	}, nil
}

func contextOptions(opts *Options) playwright.BrowserNewContextOptions {
	return playwright.BrowserNewContextOptions{
		UserAgent:         &opts.UserAgent,
		AcceptDownloads:   playwright.Bool(false),
		JavaScriptEnabled: playwright.Bool(true),
		Locale:            &opts.Locale,
		TimezoneId:        &opts.TimezoneID,
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
		ExtraHttpHeaders: opts.ExtraHeaders,
	}
}

// Fetch opens url in a fresh tab and returns the rendered document. Playwright
// calls do not observe ctx, so cancellation is only checked before navigating.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &fetch.FetchError{URL: url, Err: err}
	}

	page, err := b.context.NewPage()
	if err != nil {
		return "", &fetch.FetchError{URL: url, Err: fmt.Errorf("failed to create new page: %w", err)}
	}
	defer page.Close()

	page.SetDefaultTimeout(float64(b.opts.Timeout.Milliseconds()))

	res, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(b.opts.Timeout.Milliseconds())),
	})
	if err != nil {
		b.logger.Error("navigation failed", "url", url, "error", err)
		return "", &fetch.FetchError{URL: url, Err: err}
	}
	if res != nil && !statusOK(res.Status()) {
		return "", &fetch.FetchError{URL: url, StatusCode: res.Status()}
	}

	content, err := page.Content()
	if err != nil {
		return "", &fetch.FetchError{URL: url, Err: fmt.Errorf("failed to get page content: %w", err)}
	}

	if IsChallengePage(content) {
		b.logger.Warn("challenge page detected", "url", url)
		return "", &fetch.FetchError{URL: url, Err: ErrChallengePage}
	}

	return content, nil
}

func statusOK(code int) bool {
	return code >= 200 && code <= 299
}

// IsChallengePage reports whether html looks like an anti-bot interstitial.
func IsChallengePage(html string) bool {
	for _, marker := range challengeMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}

func (b *Browser) Close() error {
	var errs []error

	if b.context != nil {
		if err := b.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	return errors.Join(errs...)
}
