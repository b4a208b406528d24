package feed

import (
	"context"
	"sync"

	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/catalog"
)

const defaultPageSize = 20

// Filters narrow the product feed. They are passed through to the fetcher
// untouched.
type Filters struct {
	Category string `json:"category,omitempty"`
	Search   string `json:"search,omitempty"`
}

// Page is one fetched page of the feed.
type Page struct {
	Products []catalog.Product
	HasMore  bool
}

// Fetcher loads one page of products for a filter set. Pages are 1-based.
type Fetcher interface {
	FetchPage(ctx context.Context, filters Filters, page, limit int) (Page, error)
}

// CatalogFetcher adapts a catalog.Client to the Fetcher interface.
type CatalogFetcher struct {
	Client *catalog.Client
}

func (f *CatalogFetcher) FetchPage(ctx context.Context, filters Filters, page, limit int) (Page, error) {
	products, hasMore, err := f.Client.List(ctx, catalog.ListParams{
		Category: filters.Category,
		Search:   filters.Search,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return Page{}, err
	}
	return Page{Products: products, HasMore: hasMore}, nil
}

// State is a snapshot of the feed for rendering.
type State struct {
	Items       []catalog.Product `json:"items"`
	Page        int               `json:"page"`
	HasMore     bool              `json:"hasMore"`
	Filters     Filters           `json:"filters"`
	Loading     bool              `json:"loading"`
	Refreshing  bool              `json:"refreshing"`
	LoadingMore bool              `json:"loadingMore"`
	Err         string            `json:"error,omitempty"`
}

// Controller manages a filtered, paginated view over the product catalog.
// Items are merged across pages without duplicates (first fetch of an id
// wins) and a filter change discards everything and starts over from
// page 1. One controller serves one screen; it is cheap and disposable.
//
// The lock is released around fetch calls, so a reset can overtake an
// in-flight load-more. Every reset bumps a generation counter and any
// completion carrying a stale generation is discarded without touching
// state.
type Controller struct {
	mu      sync.Mutex
	fetcher Fetcher
	limit   int

	items       []catalog.Product
	seen        map[string]struct{}
	page        int
	hasMore     bool
	filters     Filters
	loading     bool
	refreshing  bool
	loadingMore bool
	errMsg      string
	generation  uint64
}

// NewController constructor. limit <= 0 selects the default page size.
func NewController(fetcher Fetcher, limit int) *Controller {
	if limit <= 0 {
		limit = defaultPageSize
	}
	return &Controller{
		fetcher: fetcher,
		limit:   limit,
		seen:    make(map[string]struct{}),
		hasMore: true,
	}
}

// Load performs the initial fetch of page 1 with the current filters.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	filters := c.filters
	c.mu.Unlock()
	c.reset(ctx, filters, false)
}

// SetFilters replaces the filter set and refetches from page 1. Previously
// loaded items are discarded once the new page arrives.
func (c *Controller) SetFilters(ctx context.Context, filters Filters) {
	c.reset(ctx, filters, false)
}

// Refresh refetches page 1 with the current filters, raising the
// refreshing flag instead of loading so a pull-to-refresh renders its own
// spinner.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	filters := c.filters
	c.mu.Unlock()
	c.reset(ctx, filters, true)
}

// RefreshWith is Refresh with an overridden filter set.
func (c *Controller) RefreshWith(ctx context.Context, filters Filters) {
	c.reset(ctx, filters, true)
}

// LoadMore fetches the next page and appends products whose ids have not
// been seen yet. It is a no-op while another load-more is in flight, when
// the server reported no further pages, or before the initial load.
// Failures are swallowed: page, items and hasMore stay as they were, so a
// flaky page fetch never breaks infinite scroll.
func (c *Controller) LoadMore(ctx context.Context) {
	c.mu.Lock()
	if c.loadingMore || c.loading || c.refreshing || !c.hasMore || c.page == 0 {
		c.mu.Unlock()
		return
	}
	c.loadingMore = true
	gen := c.generation
	filters := c.filters
	next := c.page + 1
	c.mu.Unlock()

	page, err := c.fetcher.FetchPage(ctx, filters, next, c.limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadingMore = false
	if gen != c.generation {
		// A reset overtook this fetch; the result is stale.
		return
	}
	if err != nil {
		return
	}
	for _, p := range page.Products {
		if _, dup := c.seen[p.ID]; dup {
			continue
		}
		c.seen[p.ID] = struct{}{}
		c.items = append(c.items, p)
	}
	c.page = next
	c.hasMore = page.HasMore
}

// State returns a copy of the current feed state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]catalog.Product, len(c.items))
	copy(items, c.items)
	return State{
		Items:       items,
		Page:        c.page,
		HasMore:     c.hasMore,
		Filters:     c.filters,
		Loading:     c.loading,
		Refreshing:  c.refreshing,
		LoadingMore: c.loadingMore,
		Err:         c.errMsg,
	}
}

// reset fetches page 1 with the given filters and, on success, replaces
// the loaded items. On failure the previous items stay visible and errMsg
// is set; the list is never cleared until fresh data actually arrives.
func (c *Controller) reset(ctx context.Context, filters Filters, refreshing bool) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.filters = filters
	if refreshing {
		c.refreshing = true
	} else {
		c.loading = true
	}
	c.mu.Unlock()

	page, err := c.fetcher.FetchPage(ctx, filters, 1, c.limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// A newer reset owns the flags and the state now.
		return
	}
	c.loading = false
	c.refreshing = false
	if err != nil {
		c.errMsg = err.Error()
		return
	}
	c.errMsg = ""
	c.items = nil
	c.seen = make(map[string]struct{})
	for _, p := range page.Products {
		if _, dup := c.seen[p.ID]; dup {
			continue
		}
		c.seen[p.ID] = struct{}{}
		c.items = append(c.items, p)
	}
	c.page = 1
	c.hasMore = page.HasMore
}
