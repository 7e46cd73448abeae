package scraper

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/maltedev/zoom-price-scraper/internal/cache"
	"github.com/maltedev/zoom-price-scraper/internal/fetch"
	"github.com/maltedev/zoom-price-scraper/internal/models"
	"github.com/maltedev/zoom-price-scraper/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSearchScraper(f *fakeFetcher, c cache.ResolverCache, opts Options) *SearchScraper {
	opts.BaseURL = testBaseURL
	return NewSearchScraper(f, c, parser.NewZoomParser(), opts, testLogger())
}

func TestSearchURL(t *testing.T) {
	got := SearchURL("https://www.zoom.com.br/", "smart tv & soundbar", 2)
	assert.Equal(t,
		"https://www.zoom.com.br/search?enableRefinementsSuggestions=true&hitsPerPage=48&isDealsPage=false&page=2&q=smart+tv+%26+soundbar&sortBy=default",
		got)
}

func TestDetailURL(t *testing.T) {
	assert.Equal(t, "https://zoom.test/celular/x1", DetailURL("https://zoom.test", "/celular/x1"))
	assert.Equal(t, "https://zoom.test/celular/x1", DetailURL("https://zoom.test/", "celular/x1"))
	assert.Equal(t, "https://other.test/p", DetailURL("https://zoom.test", "https://other.test/p"))
}

func TestSearch_StopsAtFirstEmptyPage(t *testing.T) {
	f := newFakeFetcher()
	f.pages[SearchURL(testBaseURL, "tv", 1)] = searchPage(
		card{id: "1", name: "TV 1", path: "/tv-1"},
		card{id: "2", name: "TV 2", path: "/tv-2"},
	)
	f.pages[SearchURL(testBaseURL, "tv", 2)] = searchPage(
		card{id: "3", name: "TV 3", path: "/tv-3"},
	)
	f.pages[SearchURL(testBaseURL, "tv", 4)] = searchPage(
		card{id: "4", name: "Never reached", path: "/tv-4"},
	)

	c := cache.NewMemoryCache()
	s := newTestSearchScraper(f, c, Options{})

	result, err := s.Search(context.Background(), "tv")
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalPages)
	assert.Equal(t, 3, result.TotalProducts)
	require.Len(t, result.Products, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{result.Products[0].ID, result.Products[1].ID, result.Products[2].ID})

	assert.Equal(t, []string{
		SearchURL(testBaseURL, "tv", 1),
		SearchURL(testBaseURL, "tv", 2),
		SearchURL(testBaseURL, "tv", 3),
	}, f.Calls())

	path, found, err := c.Get(context.Background(), "3")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/tv-3", path)
}

func TestSearch_EmptyFirstPage(t *testing.T) {
	f := newFakeFetcher()
	s := newTestSearchScraper(f, cache.NewMemoryCache(), Options{})

	result, err := s.Search(context.Background(), "nada")
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalPages)
	assert.Equal(t, 0, result.TotalProducts)
	assert.NotNil(t, result.Products)
	assert.Empty(t, result.Products)
	assert.Len(t, f.Calls(), 1)
}

func TestSearch_FirstWriteWins(t *testing.T) {
	f := newFakeFetcher()
	f.pages[SearchURL(testBaseURL, "fone", 1)] = searchPage(
		card{id: "7", name: "Fone", path: "/fone-original"},
		card{id: "7", name: "Fone de novo", path: "/fone-duplicado"},
	)

	c := cache.NewMemoryCache()
	_, err := c.SetIfAbsent(context.Background(), "8", "/anterior", cache.DetailTTL)
	require.NoError(t, err)
	f.pages[SearchURL(testBaseURL, "fone", 2)] = searchPage(
		card{id: "8", name: "Outro", path: "/novo"},
	)

	s := newTestSearchScraper(f, c, Options{})
	result, err := s.Search(context.Background(), "fone")
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalProducts)

	path, _, _ := c.Get(context.Background(), "7")
	assert.Equal(t, "/fone-original", path)
	path, _, _ = c.Get(context.Background(), "8")
	assert.Equal(t, "/anterior", path)
}

func TestSearch_SkipsNamelessCardsAndUncacheableRecords(t *testing.T) {
	f := newFakeFetcher()
	f.pages[SearchURL(testBaseURL, "x", 1)] = searchPage(
		card{id: "1", path: "/sem-nome"},
		card{id: "2", name: "Sem link"},
		card{id: "3", name: "Completo", path: "/completo"},
	)

	c := cache.NewMemoryCache()
	s := newTestSearchScraper(f, c, Options{})

	result, err := s.Search(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, result.Products, 2)
	assert.Equal(t, "2", result.Products[0].ID)
	assert.Nil(t, result.Products[0].DetailURL)

	assert.Equal(t, 1, c.Len())
}

func TestSearch_FetchErrorPropagates(t *testing.T) {
	f := newFakeFetcher()
	f.pages[SearchURL(testBaseURL, "tv", 1)] = searchPage(card{id: "1", name: "TV", path: "/tv"})
	f.fail[SearchURL(testBaseURL, "tv", 2)] = &fetch.FetchError{URL: SearchURL(testBaseURL, "tv", 2), StatusCode: 503}

	s := newTestSearchScraper(f, cache.NewMemoryCache(), Options{})
	result, err := s.Search(context.Background(), "tv")
	require.Error(t, err)
	assert.Nil(t, result)

	var fetchErr *fetch.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 503, fetchErr.StatusCode)
}

func TestSearch_StoreUnavailablePropagates(t *testing.T) {
	f := newFakeFetcher()
	f.pages[SearchURL(testBaseURL, "tv", 1)] = searchPage(card{id: "1", name: "TV", path: "/tv"})

	s := newTestSearchScraper(f, brokenCache{}, Options{})
	_, err := s.Search(context.Background(), "tv")
	assert.ErrorIs(t, err, cache.ErrStoreUnavailable)
}

func TestSearch_MaxPages(t *testing.T) {
	f := newFakeFetcher()
	for page := 1; page <= 3; page++ {
		f.pages[SearchURL(testBaseURL, "tv", page)] = searchPage(card{id: strconv.Itoa(page), name: "TV", path: "/tv"})
	}

	s := newTestSearchScraper(f, cache.NewMemoryCache(), Options{MaxPages: 2})
	result, err := s.Search(context.Background(), "tv")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalPages)
	assert.Len(t, f.Calls(), 2)
}

func TestSearch_PageDelay(t *testing.T) {
	f := newFakeFetcher()
	f.pages[SearchURL(testBaseURL, "tv", 1)] = searchPage(card{id: "1", name: "TV", path: "/tv"})

	s := newTestSearchScraper(f, cache.NewMemoryCache(), Options{PageDelay: 30 * time.Millisecond})

	start := time.Now()
	_, err := s.Search(context.Background(), "tv")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestSearch_PageDelayStartsFreshPerSearch(t *testing.T) {
	f := newFakeFetcher()
	f.pages[SearchURL(testBaseURL, "tv", 1)] = searchPage(card{id: "1", name: "TV", path: "/tv"})

	s := newTestSearchScraper(f, cache.NewMemoryCache(), Options{PageDelay: 200 * time.Millisecond})

	_, err := s.Search(context.Background(), "tv")
	require.NoError(t, err)

	// "radio" has no results, so it fetches only page 1.
	start := time.Now()
	result, err := s.Search(context.Background(), "radio")
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalPages)
	assert.Less(t, time.Since(start), 100*time.Millisecond, "first page of a new search does not wait")
}

func TestSearch_ConcurrentSearchesPaceIndependently(t *testing.T) {
	const delay = 150 * time.Millisecond

	f := newFakeFetcher()
	f.pages[SearchURL(testBaseURL, "a", 1)] = searchPage(card{id: "1", name: "A", path: "/a"})
	f.pages[SearchURL(testBaseURL, "b", 1)] = searchPage(card{id: "2", name: "B", path: "/b"})

	s := newTestSearchScraper(f, cache.NewMemoryCache(), Options{PageDelay: delay})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := time.Now()
	for i, term := range []string{"a", "b"} {
		wg.Add(1)
		go func(i int, term string) {
			defer wg.Done()
			_, errs[i] = s.Search(context.Background(), term)
		}(i, term)
	}
	wg.Wait()
	elapsed := time.Since(start)

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.GreaterOrEqual(t, elapsed, delay-20*time.Millisecond)
	assert.Less(t, elapsed, 2*delay, "searches must not serialize on a shared limiter")
	assert.Len(t, f.Calls(), 4)
}

func TestSearch_NotifiesListenerOnFirstWriteOnly(t *testing.T) {
	f := newFakeFetcher()
	f.pages[SearchURL(testBaseURL, "tv", 1)] = searchPage(
		card{id: "1", name: "TV 1", path: "/tv-1"},
		card{id: "1", name: "TV 1 again", path: "/tv-1b"},
		card{id: "2", name: "TV 2", path: "/tv-2"},
	)

	listener := new(mockListener)
	listener.On("ProductDiscovered", mock.Anything, mock.MatchedBy(func(p models.ProductSummary) bool {
		return p.ID == "1"
	})).Return(nil).Once()
	listener.On("ProductDiscovered", mock.Anything, mock.MatchedBy(func(p models.ProductSummary) bool {
		return p.ID == "2"
	})).Return(errors.New("outbox down")).Once()

	s := newTestSearchScraper(f, cache.NewMemoryCache(), Options{Listener: listener})
	result, err := s.Search(context.Background(), "tv")

	require.NoError(t, err, "listener failures do not fail the search")
	assert.Equal(t, 3, result.TotalProducts)
	listener.AssertExpectations(t)
	listener.AssertNumberOfCalls(t, "ProductDiscovered", 2)
}
