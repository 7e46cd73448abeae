package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/maltedev/zoom-price-scraper/internal/models"
	"github.com/maltedev/zoom-price-scraper/internal/scraper"
)

func render(w io.Writer, res *scraper.Result) error {
	if !asTable {
		return writeJSON(w, res.Value())
	}

	switch res.Kind {
	case scraper.KindSearch:
		renderSearch(w, res.Search)
	case scraper.KindDetails:
		renderDetails(w, res.Details)
	case scraper.KindOffers:
		renderOffers(w, res.Offers)
	}
	return nil
}

func renderSearch(w io.Writer, res *models.SearchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Name", "Price", "Best merchant", "Detail path"})

	for _, p := range res.Products {
		t.AppendRow(table.Row{p.ID, p.Name, formatPrice(p.Price), deref(p.Description), deref(p.DetailURL)})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d products", res.TotalProducts), fmt.Sprintf("%d pages", res.TotalPages)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderDetails(w io.Writer, details models.ProductDetails) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Group", "Attribute", "Value"})

	groups := make([]string, 0, len(details))
	for name := range details {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	for _, name := range groups {
		group := details[name]
		if group.IsText() {
			t.AppendRow(table.Row{name, "", *group.Text})
			continue
		}

		attrs := make([]string, 0, len(group.Attributes))
		for attr := range group.Attributes {
			attrs = append(attrs, attr)
		}
		sort.Strings(attrs)
		for _, attr := range attrs {
			t.AppendRow(table.Row{name, attr, group.Attributes[attr]})
		}
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderOffers(w io.Writer, offers []models.Offer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Store", "Price", "Link"})

	for _, o := range offers {
		t.AppendRow(table.Row{deref(o.StoreName), formatPrice(o.Price), deref(o.PurchaseLink)})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("R$ %.2f", *p)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
