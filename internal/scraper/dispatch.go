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

type Kind string

const (
	KindSearch  Kind = "search"
	KindDetails Kind = "details"
	KindOffers  Kind = "offers"
)

func ParseKind(name string) (Kind, error) {
	switch k := Kind(name); k {
	case KindSearch, KindDetails, KindOffers:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// Operation is one of Search, Details or Offers. The set is closed.
type Operation interface {
	Kind() Kind
	operation()
}

type Search struct {
	Term string
}

type Details struct {
	ProductID string
}

type Offers struct {
	ProductID string
}

func (Search) Kind() Kind  { return KindSearch }
func (Details) Kind() Kind { return KindDetails }
func (Offers) Kind() Kind  { return KindOffers }

func (Search) operation()  {}
func (Details) operation() {}
func (Offers) operation()  {}

// NewOperation builds an operation from its name and single argument, the
// search term or the product id.
func NewOperation(name, arg string) (Operation, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindSearch:
		return Search{Term: arg}, nil
	case KindDetails:
		return Details{ProductID: arg}, nil
	default:
		return Offers{ProductID: arg}, nil
	}
}

// Result holds the output of exactly one operation, selected by Kind.
type Result struct {
	Kind    Kind
	Search  *models.SearchResult
	Details models.ProductDetails
	Offers  []models.Offer
}

// Value returns the populated field for Kind.
func (r *Result) Value() any {
	switch r.Kind {
	case KindSearch:
		return r.Search
	case KindDetails:
		return r.Details
	default:
		return r.Offers
	}
}

// Dispatcher runs operations against a shared fetcher and resolver cache.
type Dispatcher struct {
	search   *SearchScraper
	products *ProductScraper
}

func NewDispatcher(f fetch.PageFetcher, c cache.ResolverCache, opts Options, logger *slog.Logger) *Dispatcher {
	p := parser.NewZoomParser()
	return &Dispatcher{
		search:   NewSearchScraper(f, c, p, opts, logger),
		products: NewProductScraper(f, c, p, opts.BaseURL, logger),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, op Operation) (*Result, error) {
	switch op := op.(type) {
	case Search:
		res, err := d.search.Search(ctx, op.Term)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: KindSearch, Search: res}, nil
	case Details:
		details, err := d.products.GetDetails(ctx, op.ProductID)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: KindDetails, Details: details}, nil
	case Offers:
		offers, err := d.products.GetOffers(ctx, op.ProductID)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: KindOffers, Offers: offers}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownOperation, op)
}

func (d *Dispatcher) Search(ctx context.Context, term string) (*models.SearchResult, error) {
	return d.search.Search(ctx, term)
}

func (d *Dispatcher) Details(ctx context.Context, id string) (models.ProductDetails, error) {
	return d.products.GetDetails(ctx, id)
}

func (d *Dispatcher) Offers(ctx context.Context, id string) ([]models.Offer, error) {
	return d.products.GetOffers(ctx, id)
}
