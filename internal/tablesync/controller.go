package tablesync

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after the last SetSearch call before
// the search text is committed.
const DefaultDebounce = 300 * time.Millisecond

// DefaultPageSize matches the server's default list page size.
const DefaultPageSize = 20

// Config wires a Controller to its collection.
type Config[T any] struct {
	// Root identifies the collection in the shared Store. Must be distinct
	// per collection type.
	Root string
	// Fetch retrieves one page. Required.
	Fetch FetchFunc[T]
	// Store is the shared query cache. A private one is created when nil.
	Store *Store
	// PageSize is fixed per view. Defaults to DefaultPageSize.
	PageSize int
	// InitialFilters seeds the filter state.
	InitialFilters Filters
	// Debounce overrides the search quiet period. Defaults to DefaultDebounce.
	Debounce time.Duration
	// OnChange is called after every state transition the view should render.
	OnChange func()
	// OnError receives non-cancellation fetch failures. Previously displayed
	// data is retained; the error is the only signal.
	OnError func(error)
}

// Controller owns pagination, filter, and search state for one server-backed
// collection view. All exported methods are safe for concurrent use; fetches
// run in their own goroutine and a response is applied only when its cache
// key still matches the controller's current key at resolution time.
type Controller[T any] struct {
	root     string
	fetch    FetchFunc[T]
	store    *Store
	pageSize int
	debounce time.Duration
	onChange func()
	onError  func(error)

	mu        sync.Mutex
	page      int
	filters   Filters
	searchRaw string
	search    string // committed, trimmed
	searchGen int    // bumped per SetSearch/SetSearchImmediate; stale commits bail

	timer       *time.Timer
	key         string
	inflightKey string
	cancel      context.CancelFunc
	fetching    bool

	data       []T
	pagination *Pagination
	loadedKey  string // key of the last applied page
	subID      int
	closed     bool
}

// NewController builds a controller and issues the initial fetch.
func NewController[T any](cfg Config[T]) *Controller[T] {
	if cfg.Fetch == nil {
		panic("tablesync: Config.Fetch is required")
	}
	if cfg.Store == nil {
		cfg.Store = NewStore(StoreConfig{})
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	c := &Controller[T]{
		root:     cfg.Root,
		fetch:    cfg.Fetch,
		store:    cfg.Store,
		pageSize: cfg.PageSize,
		debounce: cfg.Debounce,
		onChange: cfg.OnChange,
		onError:  cfg.OnError,
		page:     1,
		filters:  cfg.InitialFilters.Clone(),
		data:     []T{},
	}
	c.subID = c.store.subscribe(cfg.Root, c.revalidate)

	c.mu.Lock()
	c.syncLocked(false)
	c.mu.Unlock()
	c.notify()
	return c
}

// SetPage moves to page n (>= 1) without touching filters or search.
func (c *Controller[T]) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	c.page = n
	c.syncLocked(false)
	c.mu.Unlock()
	c.notify()
}

// SetFilter merges one filter key and resets to page 1. A nil value clears
// the key.
func (c *Controller[T]) SetFilter(key string, value any) {
	c.mu.Lock()
	if c.filters == nil {
		c.filters = Filters{}
	}
	if value == nil {
		delete(c.filters, key)
	} else {
		c.filters[key] = value
	}
	c.page = 1
	c.syncLocked(false)
	c.mu.Unlock()
	c.notify()
}

// SetSearch updates the raw search text immediately and schedules the commit
// after the debounce window. Each call supersedes the pending timer, so only
// the last call within the window commits.
func (c *Controller[T]) SetSearch(text string) {
	c.mu.Lock()
	c.searchRaw = text
	// Stop is best effort: a timer that already fired is blocked on c.mu and
	// must be superseded by generation, not by Stop's return value.
	c.searchGen++
	gen := c.searchGen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.commitSearch(text, gen)
	})
	c.mu.Unlock()
	c.notify()
}

// SetSearchImmediate commits search text with no debounce. Meant for
// programmatic updates rather than keystrokes.
func (c *Controller[T]) SetSearchImmediate(text string) {
	c.mu.Lock()
	c.searchRaw = text
	c.searchGen++
	gen := c.searchGen
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.commitSearch(text, gen)
}

func (c *Controller[T]) commitSearch(text string, gen int) {
	c.mu.Lock()
	if c.closed || gen != c.searchGen {
		// A newer SetSearch/SetSearchImmediate superseded this commit while
		// it waited for the lock.
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.search = strings.TrimSpace(text)
	c.page = 1
	// A committed search bypasses any cached result for the new key.
	c.syncLocked(true)
	c.mu.Unlock()
	c.notify()
}

// Refresh marks the current key's cached result stale and refetches it
// without changing any state.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	c.store.markStale(c.key)
	c.syncLocked(true)
	c.mu.Unlock()
	c.notify()
}

// Close releases the debounce timer and cancels any in-flight fetch. The
// controller must not be used afterwards.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.cancelInflightLocked()
	c.mu.Unlock()
	c.store.unsubscribe(c.subID)
}

// revalidate re-runs the current key against the (now stale) cache. Wired to
// store invalidation so active views refetch after a mutation.
func (c *Controller[T]) revalidate() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.syncLocked(false)
	c.mu.Unlock()
	c.notify()
}

// Data returns the latest successfully fetched items, empty before the
// first success.
func (c *Controller[T]) Data() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// Pagination returns the latest page metadata, or nil before the first
// success.
func (c *Controller[T]) Pagination() *Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pagination == nil {
		return nil
	}
	p := *c.pagination
	return &p
}

// IsLoading reports whether a fetch is in flight and nothing has ever been
// applied for the current key.
func (c *Controller[T]) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetching && c.loadedKey != c.key
}

// IsFetching reports whether any request for the current key is in flight,
// including background revalidation.
func (c *Controller[T]) IsFetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetching
}

// Page returns the current page number.
func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Search returns the committed search text.
func (c *Controller[T]) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// SearchInput returns what the user is typing, ahead of the commit.
func (c *Controller[T]) SearchInput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchRaw
}

// FilterValue returns the current value for a filter key.
func (c *Controller[T]) FilterValue(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.filters[key]
	return v, ok
}

// Filters returns a copy of the current filter state.
func (c *Controller[T]) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Clone()
}

// CurrentKey returns the derived cache key for the current state.
func (c *Controller[T]) CurrentKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

// syncLocked recomputes the cache key and reconciles displayed data with the
// cache, issuing a fetch when needed. Callers hold c.mu. force bypasses a
// fresh cache hit and in-flight dedup (search commit, Refresh).
func (c *Controller[T]) syncLocked(force bool) {
	key := Key(c.root, c.page, c.pageSize, c.filters, c.search)
	c.key = key

	if !force {
		if v, ok, stale := c.store.get(key); ok {
			c.applyLocked(key, v.(Page[T]))
			if !stale {
				// Fresh hit: nothing to fetch, drop any request for a
				// superseded key.
				c.cancelInflightLocked()
				return
			}
			// Stale hit keeps showing cached data while we revalidate.
		}
		// One logical request per distinct key in flight.
		if c.fetching && c.inflightKey == key {
			return
		}
	}

	c.cancelInflightLocked()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.inflightKey = key
	c.fetching = true

	filters := c.mergedFiltersLocked()
	page, size := c.page, c.pageSize

	go c.run(ctx, key, page, size, filters)
}

// run executes one fetch and applies the result if the controller's key
// still matches. Runs outside the lock.
func (c *Controller[T]) run(ctx context.Context, key string, page, size int, filters Filters) {
	result, err := c.fetch(ctx, page, size, filters)

	c.mu.Lock()
	if c.closed || c.inflightKey != key || c.key != key {
		// Superseded while in flight: silently discard.
		c.mu.Unlock()
		return
	}
	c.fetching = false
	c.inflightKey = ""
	c.cancel = nil

	if err != nil {
		c.mu.Unlock()
		if !errors.Is(err, context.Canceled) && ctx.Err() == nil {
			if c.onError != nil {
				c.onError(err)
			}
		}
		c.notify()
		return
	}

	c.store.put(key, c.root, result)
	c.applyLocked(key, result)
	c.mu.Unlock()
	c.notify()
}

// applyLocked replaces displayed data and pagination atomically.
func (c *Controller[T]) applyLocked(key string, p Page[T]) {
	c.data = p.Items
	if c.data == nil {
		c.data = []T{}
	}
	c.pagination = &Pagination{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
	c.loadedKey = key
}

// mergedFiltersLocked builds the filter map sent to the fetch function:
// every filter entry plus the committed search when non-empty.
func (c *Controller[T]) mergedFiltersLocked() Filters {
	out := c.filters.Clone()
	if c.search != "" {
		out["search"] = c.search
	}
	return out
}

func (c *Controller[T]) cancelInflightLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.inflightKey = ""
	c.fetching = false
}

func (c *Controller[T]) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
