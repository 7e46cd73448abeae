package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maltedev/zoom-price-scraper/internal/cache"
	"github.com/maltedev/zoom-price-scraper/internal/fetch"
	"github.com/maltedev/zoom-price-scraper/internal/models"
	"github.com/maltedev/zoom-price-scraper/internal/parser"
	"github.com/maltedev/zoom-price-scraper/internal/ratelimit"
)

// SearchScraper walks the paginated results for a term and records each
// product's detail path in the resolver cache.
type SearchScraper struct {
	fetcher  fetch.PageFetcher
	cache    cache.ResolverCache
	parser   parser.Parser
	listener  DiscoveryListener
	baseURL   string
	maxPages  int
	pageDelay time.Duration
	logger    *slog.Logger
}

func NewSearchScraper(f fetch.PageFetcher, c cache.ResolverCache, p parser.Parser, opts Options, logger *slog.Logger) *SearchScraper {
	return &SearchScraper{
		fetcher:   f,
		cache:     c,
		parser:    p,
		listener:  opts.Listener,
		baseURL:   opts.BaseURL,
		maxPages:  opts.MaxPages,
		pageDelay: opts.PageDelay,
		logger:    logger.With("component", "search_scraper"),
	}
}

// newLimiter returns a limiter owned by a single Search call, or nil when
// pacing is off. Concurrent searches never wait on each other.
func (s *SearchScraper) newLimiter() ratelimit.RateLimiter {
	if s.pageDelay <= 0 {
		return nil
	}
	return ratelimit.NewSimpleRateLimiter(s.pageDelay, s.pageDelay)
}

// Search fetches pages 1, 2, ... in order and stops at the first page with no
// cards. Fetch, parse and cache failures abort the search.
func (s *SearchScraper) Search(ctx context.Context, term string) (*models.SearchResult, error) {
	s.logger.Info("starting search", "term", term)

	result := &models.SearchResult{Products: []models.ProductSummary{}}
	limiter := s.newLimiter()

	for page := 1; s.maxPages == 0 || page <= s.maxPages; page++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		html, err := s.fetcher.Fetch(ctx, SearchURL(s.baseURL, term, page))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch search page %d: %w", page, err)
		}

		products, err := s.parser.ParseSearchPage(html)
		if err != nil {
			return nil, fmt.Errorf("failed to parse search page %d: %w", page, err)
		}
		if len(products) == 0 {
			break
		}

		for _, product := range products {
			if err := s.remember(ctx, product); err != nil {
				return nil, err
			}
		}

		s.logger.Debug("search page processed", "term", term, "page", page, "count", len(products))

		result.Products = append(result.Products, products...)
		result.TotalPages++
		result.TotalProducts += len(products)
	}

	s.logger.Info("search finished",
		"term", term,
		"pages", result.TotalPages,
		"products", result.TotalProducts)

	return result, nil
}

func (s *SearchScraper) remember(ctx context.Context, product models.ProductSummary) error {
	if !product.HasDetailPath() {
		return nil
	}

	stored, err := s.cache.SetIfAbsent(ctx, product.ID, *product.DetailURL, cache.DetailTTL)
	if err != nil {
		return fmt.Errorf("failed to cache detail path for %s: %w", product.ID, err)
	}

	if stored && s.listener != nil {
		if err := s.listener.ProductDiscovered(ctx, product); err != nil {
			s.logger.Warn("discovery listener failed", "product_id", product.ID, "error", err)
		}
	}
	return nil
}
