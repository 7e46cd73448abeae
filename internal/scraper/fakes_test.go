package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/maltedev/zoom-price-scraper/internal/cache"
	"github.com/maltedev/zoom-price-scraper/internal/fetch"
	"github.com/maltedev/zoom-price-scraper/internal/models"
	"github.com/stretchr/testify/mock"
)

const testBaseURL = "https://zoom.test"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFetcher serves canned pages by URL. Unknown URLs get an empty
// document.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	fail  map[string]error
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]string),
		fail:  make(map[string]error),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, url)
	if err, ok := f.fail[url]; ok {
		return "", err
	}
	if html, ok := f.pages[url]; ok {
		return html, nil
	}
	return "<html><body></body></html>", nil
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

var _ fetch.PageFetcher = (*fakeFetcher)(nil)

type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, id string) (string, bool, error) {
	return "", false, fmt.Errorf("%w: connection refused", cache.ErrStoreUnavailable)
}

func (brokenCache) SetIfAbsent(ctx context.Context, id, path string, ttl time.Duration) (bool, error) {
	return false, fmt.Errorf("%w: connection refused", cache.ErrStoreUnavailable)
}

type mockListener struct {
	mock.Mock
}

func (m *mockListener) ProductDiscovered(ctx context.Context, product models.ProductSummary) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

type card struct {
	id   string
	name string
	path string
}

func searchPage(cards ...card) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, c := range cards {
		b.WriteString(`<div class="Hits_ProductCard__Bonl_">`)
		if c.path != "" {
			fmt.Fprintf(&b, `<a href="%s">`, c.path)
		}
		if c.name != "" {
			fmt.Fprintf(&b, `<h2 class="ProductCard_ProductCard_Name__U_mUQ" id="product-card-%s::0">%s</h2>`, c.id, c.name)
		}
		if c.path != "" {
			b.WriteString("</a>")
		}
		b.WriteString(`<p data-testid="product-card::price">R$ 100,00</p>`)
		b.WriteString("</div>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

const detailPage = `<html><body>
<div data-testid="detailsSection-masonry">
	<div class="DetailsContent_AttributeBlock__lGim_">
		<h3 class="AttributeBlock_GroupTitle__XIqmq">Descrição</h3>
		<div class="AttributeBlock_GroupContent__rKxrs"><p>Texto do produto</p></div>
	</div>
	<div class="DetailsContent_AttributeBlock__lGim_">
		<h3 class="AttributeBlock_GroupTitle__XIqmq">Técnico</h3>
		<table><tr class="Row_Row__kKYw6">
			<th class="AttributeName_Key__JJU2r"><span>Marca</span></th>
			<td class="AttributeValues_Value__iqjHN"><span>Acme</span></td>
		</tr></table>
	</div>
</div>
<div data-testid="offer-card-wrapper">
	<a data-testid="offer-merchant" href="/loja/a"><h3>Loja A</h3></a>
	<a data-testid="offer-price" href="/r/a"><span class="OfferPrice_InCash___m2LM">R$ 99,90</span></a>
</div>
<div data-testid="offer-card-wrapper">
	<a data-testid="offer-merchant" href="/loja/b"><h3>Loja B</h3></a>
	<a data-testid="offer-price" href="/r/b"></a>
</div>
</body></html>`
