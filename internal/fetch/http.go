package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultUserAgent = "Mozilla/5.0"

type HTTPFetcher struct {
	client *resty.Client
	logger *slog.Logger
}

func NewHTTPFetcher(userAgent string, timeout time.Duration, logger *slog.Logger) *HTTPFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept-language", "pt-BR,pt;q=0.9")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPFetcher{
		client: client,
		logger: logger.With("component", "http_fetcher"),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()

	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		f.logger.Warn("unexpected status",
			"url", url,
			"status", res.StatusCode())
		return "", &FetchError{URL: url, StatusCode: res.StatusCode()}
	}

	f.logger.Debug("page fetched",
		"url", url,
		"bytes", len(res.Body()),
		"duration", time.Since(start))

	return res.String(), nil
}
