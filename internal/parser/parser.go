package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/zoom-price-scraper/internal/models"
)

type Parser interface {
	ParseSearchPage(html string) ([]models.ProductSummary, error)
	ParseDetails(html string) (models.ProductDetails, error)
	ParseOffers(html string) ([]models.Offer, error)
}

func newDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Text returns the trimmed text of the first element under scope matching
// selector. ok is false when nothing matches.
func Text(scope *goquery.Selection, selector string) (string, bool) {
	el := scope.Find(selector).First()
	if el.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(el.Text()), true
}

// Attr returns the named attribute of the first element under scope matching
// selector. ok is false when the element or the attribute is missing.
func Attr(scope *goquery.Selection, selector, attr string) (string, bool) {
	el := scope.Find(selector).First()
	if el.Length() == 0 {
		return "", false
	}
	return el.Attr(attr)
}

// TextPtr is Text with absence expressed as nil.
func TextPtr(scope *goquery.Selection, selector string) *string {
	if s, ok := Text(scope, selector); ok {
		return &s
	}
	return nil
}

// AttrPtr is Attr with absence expressed as nil.
func AttrPtr(scope *goquery.Selection, selector, attr string) *string {
	if s, ok := Attr(scope, selector, attr); ok {
		return &s
	}
	return nil
}
