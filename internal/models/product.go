package models

import (
	"encoding/json"
)

// ProductSummary is one listing card from a search results page.
type ProductSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Description carries the card's best-merchant label; listing cards have no
	// product description of their own.
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Installments *string  `json:"installments"`
	Ratings      *string  `json:"ratings"`
	ImageURL     *string  `json:"image_url"`
	DetailURL    *string  `json:"detail_url"`
}

// HasDetailPath reports whether the summary can be resolved to a detail page.
func (p *ProductSummary) HasDetailPath() bool {
	return p.ID != "" && p.DetailURL != nil && *p.DetailURL != ""
}

type SearchResult struct {
	TotalPages    int              `json:"total_pages"`
	TotalProducts int              `json:"total_products"`
	Products      []ProductSummary `json:"products"`
}

// DetailGroup is either a plain text block (the description group) or a set of
// attribute name/value pairs.
type DetailGroup struct {
	Text       *string
	Attributes map[string]string
}

func NewAttributeGroup() DetailGroup {
	return DetailGroup{Attributes: make(map[string]string)}
}

func NewTextGroup(text string) DetailGroup {
	return DetailGroup{Text: &text}
}

func (g DetailGroup) IsText() bool {
	return g.Text != nil
}

func (g DetailGroup) MarshalJSON() ([]byte, error) {
	if g.Text != nil {
		return json.Marshal(*g.Text)
	}
	if g.Attributes == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(g.Attributes)
}

func (g *DetailGroup) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		g.Text = &text
		g.Attributes = nil
		return nil
	}

	attrs := make(map[string]string)
	if err := json.Unmarshal(data, &attrs); err != nil {
		return err
	}
	g.Text = nil
	g.Attributes = attrs
	return nil
}

// ProductDetails maps a group label, as rendered on the page, to its content.
// A nil ProductDetails means the page had neither known layout.
type ProductDetails map[string]DetailGroup

// Offer is one store's entry on a detail page.
type Offer struct {
	Price        *float64 `json:"price"`
	StoreName    *string  `json:"store_name"`
	PurchaseLink *string  `json:"purchase_link"`
}
