package scraper

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/maltedev/zoom-price-scraper/internal/models"
)

var ErrUnknownOperation = errors.New("unknown scraper operation")

// Search query parameters are fixed so that page boundaries are reproducible.
const (
	searchHitsPerPage = 48
	searchSortBy      = "default"
)

// Options configures the scrapers built by NewDispatcher.
type Options struct {
	BaseURL string
	// MaxPages caps search discovery. Zero means until the first empty page.
	MaxPages int
	// PageDelay spaces consecutive search page fetches. Zero disables pacing.
	PageDelay time.Duration
	// Listener, when set, is told about every product whose cache entry was
	// created by a search.
	Listener DiscoveryListener
}

// DiscoveryListener is notified when search discovery stores a product's
// detail path for the first time.
type DiscoveryListener interface {
	ProductDiscovered(ctx context.Context, product models.ProductSummary) error
}

// SearchURL builds the results page URL for term and a 1-based page number.
func SearchURL(baseURL, term string, page int) string {
	q := url.Values{}
	q.Set("q", term)
	q.Set("hitsPerPage", strconv.Itoa(searchHitsPerPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("sortBy", searchSortBy)
	q.Set("isDealsPage", "false")
	q.Set("enableRefinementsSuggestions", "true")

	return strings.TrimRight(baseURL, "/") + "/search?" + q.Encode()
}

// DetailURL joins a cached site-relative path onto baseURL. Absolute paths are
// returned unchanged.
func DetailURL(baseURL, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
