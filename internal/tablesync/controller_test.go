package tablesync

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchCall struct {
	page     int
	pageSize int
	filters  Filters
}

// recorder is a scripted FetchFunc that logs every call it receives.
type recorder struct {
	mu    sync.Mutex
	calls []fetchCall
	total int
}

func newRecorder(total int) *recorder {
	return &recorder{total: total}
}

func (r *recorder) fetch(ctx context.Context, page, pageSize int, filters Filters) (Page[string], error) {
	r.mu.Lock()
	r.calls = append(r.calls, fetchCall{page: page, pageSize: pageSize, filters: filters.Clone()})
	r.mu.Unlock()

	items := make([]string, 0, pageSize)
	for i := 0; i < pageSize; i++ {
		items = append(items, fmt.Sprintf("row-%d-%d", page, i))
	}
	totalPages := (r.total + pageSize - 1) / pageSize
	return Page[string]{Items: items, Page: page, PageSize: pageSize, Total: r.total, TotalPages: totalPages}, nil
}

func (r *recorder) count(pred func(fetchCall) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if pred(c) {
			n++
		}
	}
	return n
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recorder) call(i int) fetchCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[i]
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func TestInitialFetchAndPagination(t *testing.T) {
	rec := newRecorder(57)
	c := NewController(Config[string]{Root: "accounts", Fetch: rec.fetch, PageSize: 20})
	defer c.Close()

	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	p := c.Pagination()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 57, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, c.Data(), 20)
}

func TestSetPageKeepsFilters(t *testing.T) {
	rec := newRecorder(57)
	c := NewController(Config[string]{
		Root:           "accounts",
		Fetch:          rec.fetch,
		PageSize:       20,
		InitialFilters: Filters{"status": "active"},
	})
	defer c.Close()
	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	c.SetPage(2)
	waitFor(t, func() bool { return c.Pagination().Page == 2 }, "page 2 applied")

	require.Equal(t, 2, rec.len())
	second := rec.call(1)
	assert.Equal(t, 2, second.page)
	assert.Equal(t, "active", second.filters["status"], "changing page does not reset filters")
}

func TestSetFilterResetsPage(t *testing.T) {
	rec := newRecorder(200)
	c := NewController(Config[string]{Root: "accounts", Fetch: rec.fetch, PageSize: 20})
	defer c.Close()
	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	c.SetPage(5)
	waitFor(t, func() bool { return c.Pagination().Page == 5 }, "page 5 applied")

	c.SetFilter("status", "disabled")
	waitFor(t, func() bool {
		return rec.count(func(fc fetchCall) bool { return fc.filters["status"] == "disabled" }) == 1
	}, "filtered fetch issued")

	assert.Equal(t, 1, c.Page(), "setting a filter resets to page 1")
	filtered := rec.call(rec.len() - 1)
	assert.Equal(t, 1, filtered.page)
}

func TestSearchCommitResetsPage(t *testing.T) {
	rec := newRecorder(200)
	c := NewController(Config[string]{Root: "accounts", Fetch: rec.fetch, PageSize: 20, Debounce: 10 * time.Millisecond})
	defer c.Close()
	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	c.SetPage(4)
	waitFor(t, func() bool { return c.Pagination().Page == 4 }, "page 4 applied")

	c.SetSearch("alpha")
	waitFor(t, func() bool { return c.Search() == "alpha" }, "search committed")
	assert.Equal(t, 1, c.Page(), "committing a search resets to page 1")
}

func TestDebounceCollapse(t *testing.T) {
	rec := newRecorder(10)
	c := NewController(Config[string]{Root: "accounts", Fetch: rec.fetch, PageSize: 10, Debounce: 60 * time.Millisecond})
	defer c.Close()
	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	c.SetSearch("a")
	time.Sleep(5 * time.Millisecond)
	c.SetSearch("ab")
	time.Sleep(5 * time.Millisecond)
	c.SetSearch("abc")

	assert.Equal(t, "abc", c.SearchInput(), "raw input echoes synchronously")
	assert.Equal(t, "", c.Search(), "nothing committed inside the quiet period")

	time.Sleep(200 * time.Millisecond)

	searches := rec.count(func(fc fetchCall) bool { _, ok := fc.filters["search"]; return ok })
	assert.Equal(t, 1, searches, "rapid keystrokes collapse to one commit")
	last := rec.call(rec.len() - 1)
	assert.Equal(t, "abc", last.filters["search"])
	assert.Equal(t, "abc", c.Search())
}

func TestImmediateSearchOutlivesPendingTimer(t *testing.T) {
	rec := newRecorder(10)
	c := NewController(Config[string]{Root: "accounts", Fetch: rec.fetch, PageSize: 10, Debounce: 10 * time.Millisecond})
	defer c.Close()
	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	// Land the immediate commit right as the debounce timer fires. A timer
	// callback that already started may acquire the lock after the newer
	// commit; the older text must never win.
	for i := 0; i < 25; i++ {
		c.SetSearch("typed")
		time.Sleep(10 * time.Millisecond)
		c.SetSearchImmediate("final")
		waitFor(t, func() bool { return c.Search() == "final" }, "immediate commit applied")
		time.Sleep(15 * time.Millisecond)
		require.Equal(t, "final", c.Search(), "a superseded debounce commit overrode newer search text")
	}
}

func TestSupersededRequestIsCancelled(t *testing.T) {
	cancelled := make(chan struct{})
	fetch := func(ctx context.Context, page, pageSize int, filters Filters) (Page[string], error) {
		if page == 1 {
			<-ctx.Done()
			close(cancelled)
			return Page[string]{}, ctx.Err()
		}
		return Page[string]{Items: []string{"p2"}, Page: page, PageSize: pageSize, Total: 40, TotalPages: 2}, nil
	}

	var mu sync.Mutex
	var surfaced []error
	c := NewController(Config[string]{
		Root:     "accounts",
		Fetch:    fetch,
		PageSize: 20,
		OnError: func(err error) {
			mu.Lock()
			surfaced = append(surfaced, err)
			mu.Unlock()
		},
	})
	defer c.Close()

	// Moving to page 2 supersedes the in-flight page 1 request; its context
	// must actually be cancelled, not merely ignored at resolution.
	c.SetPage(2)
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("superseded request never saw cancellation")
	}

	waitFor(t, func() bool {
		d := c.Data()
		return len(d) == 1 && d[0] == "p2"
	}, "page 2 displayed")

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Empty(t, surfaced, "cancellation is silent")
	mu.Unlock()
}

func TestWhitespaceSearchEqualsEmpty(t *testing.T) {
	rec := newRecorder(10)
	c := NewController(Config[string]{Root: "accounts", Fetch: rec.fetch, PageSize: 10})
	defer c.Close()
	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	c.SetSearchImmediate("   ")
	waitFor(t, func() bool { return rec.len() == 2 }, "forced refetch after commit")

	for i := 0; i < rec.len(); i++ {
		_, ok := rec.call(i).filters["search"]
		assert.False(t, ok, "all-whitespace search sends no search filter")
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	applied := []int{}

	fetch := func(ctx context.Context, page, pageSize int, filters Filters) (Page[string], error) {
		if page == 1 {
			// Simulate a slow first page that resolves after the view moved on.
			<-release
		}
		mu.Lock()
		applied = append(applied, page)
		mu.Unlock()
		return Page[string]{Items: []string{fmt.Sprintf("p%d", page)}, Page: page, PageSize: pageSize, Total: 40, TotalPages: 2}, nil
	}

	c := NewController(Config[string]{Root: "accounts", Fetch: fetch, PageSize: 20})
	defer c.Close()

	c.SetPage(2)
	waitFor(t, func() bool {
		d := c.Data()
		return len(d) == 1 && d[0] == "p2"
	}, "page 2 displayed")

	close(release)
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(applied) == 2
	}, "slow page 1 response resolved")

	// The page 1 response resolved after the key moved to page 2; it must
	// not touch displayed state.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"p2"}, c.Data())
	assert.Equal(t, 2, c.Pagination().Page)
}

func TestInFlightDedup(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	var mu sync.Mutex

	fetch := func(ctx context.Context, page, pageSize int, filters Filters) (Page[string], error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return Page[string]{Items: []string{"x"}, Page: page, PageSize: pageSize, Total: 1, TotalPages: 1}, nil
	}

	c := NewController(Config[string]{Root: "accounts", Fetch: fetch, PageSize: 20})
	defer c.Close()

	// Same page again while the identical key is in flight: no extra request.
	c.SetPage(1)
	c.SetPage(1)
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, int32(1), calls, "identical key dedups to one in-flight request")
	mu.Unlock()
	close(release)
}

func TestErrorRetainsDataAndSurfaces(t *testing.T) {
	var mu sync.Mutex
	fail := false
	var gotErr error

	fetch := func(ctx context.Context, page, pageSize int, filters Filters) (Page[string], error) {
		mu.Lock()
		f := fail
		mu.Unlock()
		if f {
			return Page[string]{}, fmt.Errorf("upstream exploded")
		}
		return Page[string]{Items: []string{"ok"}, Page: page, PageSize: pageSize, Total: 1, TotalPages: 1}, nil
	}

	c := NewController(Config[string]{
		Root:     "accounts",
		Fetch:    fetch,
		PageSize: 20,
		OnError: func(err error) {
			mu.Lock()
			gotErr = err
			mu.Unlock()
		},
	})
	defer c.Close()
	waitFor(t, func() bool { return len(c.Data()) == 1 }, "first page applied")

	mu.Lock()
	fail = true
	mu.Unlock()
	c.Refresh()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return gotErr != nil
	}, "failure surfaced to caller")

	assert.Equal(t, []string{"ok"}, c.Data(), "stale data retained on error")
	assert.NotNil(t, c.Pagination())
}

func TestRefreshForcesRefetchWithoutStateChange(t *testing.T) {
	rec := newRecorder(5)
	c := NewController(Config[string]{Root: "accounts", Fetch: rec.fetch, PageSize: 5})
	defer c.Close()
	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	before := c.Page()
	c.Refresh()
	waitFor(t, func() bool { return rec.len() == 2 }, "refresh refetched the current key")

	assert.Equal(t, before, c.Page())
	assert.Equal(t, rec.call(0).page, rec.call(1).page)
}

func TestFilterSetThenClearUsesCache(t *testing.T) {
	rec := newRecorder(30)
	c := NewController(Config[string]{Root: "accounts", Fetch: rec.fetch, PageSize: 20})
	defer c.Close()
	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	c.SetFilter("status", "active")
	c.SetFilter("status", nil)

	waitFor(t, func() bool { return rec.len() >= 2 }, "filtered fetch issued")
	time.Sleep(30 * time.Millisecond)

	// Mount fetch + filtered fetch; clearing returns to the cached unfiltered
	// key, so no third request is issued.
	assert.Equal(t, 2, rec.len())
	for i := 0; i < rec.len(); i++ {
		assert.Equal(t, 1, rec.call(i).page)
	}
	_, ok := c.FilterValue("status")
	assert.False(t, ok, "cleared filter key absent")
}

func TestCachedPageAvoidsRefetch(t *testing.T) {
	rec := newRecorder(57)
	c := NewController(Config[string]{Root: "accounts", Fetch: rec.fetch, PageSize: 20})
	defer c.Close()
	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	c.SetPage(2)
	waitFor(t, func() bool { return c.Pagination().Page == 2 }, "page 2 applied")
	c.SetPage(1)
	waitFor(t, func() bool { return c.Pagination().Page == 1 }, "page 1 redisplayed")

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, rec.len(), "returning to a fresh cached page issues no request")
}

func TestInvalidationBreadth(t *testing.T) {
	store := NewStore(StoreConfig{})
	rec := newRecorder(57)
	c := NewController(Config[string]{Root: "accounts", Fetch: rec.fetch, Store: store, PageSize: 20})
	defer c.Close()
	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	// Populate a second cached combination, then come back.
	c.SetPage(2)
	waitFor(t, func() bool { return c.Pagination().Page == 2 }, "page 2 applied")
	c.SetPage(1)
	waitFor(t, func() bool { return c.Pagination().Page == 1 }, "page 1 redisplayed")
	require.Equal(t, 2, rec.len())

	done := make(chan struct{})
	m := BindMutation(MutationConfig[string]{
		Store:     store,
		Root:      "accounts",
		Fn:        func(ctx context.Context, arg string) error { return nil },
		OnSuccess: func() { close(done) },
	})
	m.Mutate(context.Background(), "rename account 7")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mutation never succeeded")
	}

	// Active view revalidates on its own...
	waitFor(t, func() bool {
		return rec.count(func(fc fetchCall) bool { return fc.page == 1 }) == 2
	}, "active page refetched after invalidation")

	// ...and every other cached combination under the root is stale, so the
	// next access refetches it too.
	c.SetPage(2)
	waitFor(t, func() bool {
		return rec.count(func(fc fetchCall) bool { return fc.page == 2 }) == 2
	}, "previously cached page refetched on next access")
}

func TestMutationFailureLeavesCacheAlone(t *testing.T) {
	store := NewStore(StoreConfig{})
	rec := newRecorder(5)
	c := NewController(Config[string]{Root: "accounts", Fetch: rec.fetch, Store: store, PageSize: 5})
	defer c.Close()
	waitFor(t, func() bool { return c.Pagination() != nil }, "first page applied")

	errs := make(chan error, 1)
	m := BindMutation(MutationConfig[string]{
		Store:   store,
		Root:    "accounts",
		Fn:      func(ctx context.Context, arg string) error { return fmt.Errorf("boom") },
		OnError: func(err error) { errs <- err },
	})
	m.Mutate(context.Background(), "x")

	select {
	case err := <-errs:
		assert.EqualError(t, err, "boom")
	case <-time.After(time.Second):
		t.Fatal("mutation error never routed to handler")
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, rec.len(), "failed mutation invalidates nothing")
	assert.False(t, m.IsPending())
}

func TestLoadingAndFetchingStates(t *testing.T) {
	release := make(chan struct{})
	fetch := func(ctx context.Context, page, pageSize int, filters Filters) (Page[string], error) {
		<-release
		return Page[string]{Items: []string{"x"}, Page: page, PageSize: pageSize, Total: 1, TotalPages: 1}, nil
	}

	c := NewController(Config[string]{Root: "accounts", Fetch: fetch, PageSize: 20})
	defer c.Close()

	assert.True(t, c.IsLoading(), "loading until the first page for this key lands")
	assert.True(t, c.IsFetching())
	assert.Nil(t, c.Pagination())

	release <- struct{}{}
	waitFor(t, func() bool { return !c.IsFetching() }, "first fetch settled")
	assert.False(t, c.IsLoading())

	c.Refresh()
	assert.True(t, c.IsFetching())
	assert.False(t, c.IsLoading(), "background refetch is not a first load")
	release <- struct{}{}
	waitFor(t, func() bool { return !c.IsFetching() }, "refresh settled")
	close(release)
}
