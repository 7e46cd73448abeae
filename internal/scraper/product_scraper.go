package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maltedev/zoom-price-scraper/internal/cache"
	"github.com/maltedev/zoom-price-scraper/internal/fetch"
	"github.com/maltedev/zoom-price-scraper/internal/models"
	"github.com/maltedev/zoom-price-scraper/internal/parser"
)

// ProductScraper reads a product's detail page, located through the resolver
// cache. Ids that were never discovered, or whose entry expired, resolve to
// nothing and no page is fetched.
type ProductScraper struct {
	fetcher fetch.PageFetcher
	cache   cache.ResolverCache
	parser  parser.Parser
	baseURL string
	logger  *slog.Logger
}

func NewProductScraper(f fetch.PageFetcher, c cache.ResolverCache, p parser.Parser, baseURL string, logger *slog.Logger) *ProductScraper {
	return &ProductScraper{
		fetcher: f,
		cache:   c,
		parser:  p,
		baseURL: baseURL,
		logger:  logger.With("component", "product_scraper"),
	}
}

// GetDetails returns nil when the id is unknown or the page has no details.
func (ps *ProductScraper) GetDetails(ctx context.Context, id string) (models.ProductDetails, error) {
	html, found, err := ps.fetchDetailPage(ctx, id)
	if err != nil || !found {
		return nil, err
	}

	details, err := ps.parser.ParseDetails(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse details for %s: %w", id, err)
	}
	return details, nil
}

// GetOffers returns an empty slice when the id is unknown or the page lists no
// offers.
func (ps *ProductScraper) GetOffers(ctx context.Context, id string) ([]models.Offer, error) {
	html, found, err := ps.fetchDetailPage(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Offer{}, nil
	}

	offers, err := ps.parser.ParseOffers(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse offers for %s: %w", id, err)
	}
	return offers, nil
}

func (ps *ProductScraper) fetchDetailPage(ctx context.Context, id string) (string, bool, error) {
	path, found, err := ps.cache.Get(ctx, id)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve product %s: %w", id, err)
	}
	if !found {
		ps.logger.Warn("no detail path cached", "product_id", id)
		return "", false, nil
	}

	html, err := ps.fetcher.Fetch(ctx, DetailURL(ps.baseURL, path))
	if err != nil {
		return "", false, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return html, true, nil
}
