package tablesync

import (
	"container/list"
	"sync"
	"time"
)

// Store is the shared query cache behind one or more controllers. Entries are
// keyed by the derived cache key and scoped to a cache-key root, so a
// mutation anywhere in a collection can mark every cached page of that
// collection stale at once. Stale entries keep serving their last value until
// a revalidating fetch replaces them.
type Store struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	eviction   *list.List // front = most recently used
	maxEntries int
	ttl        time.Duration

	subs   map[int]subscriber
	nextID int
}

type storeEntry struct {
	key      string
	root     string
	value    any
	stale    bool
	storedAt time.Time
}

type subscriber struct {
	root   string
	notify func()
}

// StoreConfig configures the query cache.
type StoreConfig struct {
	// MaxEntries bounds the number of cached pages. Defaults to 512.
	MaxEntries int
	// TTL is how long an entry is served without revalidation. An expired
	// entry is treated as stale, not as a miss. Defaults to 5 minutes.
	TTL time.Duration
}

// NewStore creates a query cache.
func NewStore(cfg StoreConfig) *Store {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 512
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &Store{
		entries:    make(map[string]*list.Element),
		eviction:   list.New(),
		maxEntries: cfg.MaxEntries,
		ttl:        cfg.TTL,
		subs:       make(map[int]subscriber),
	}
}

// get returns the cached value for key. The second result reports whether an
// entry exists at all, the third whether it must be revalidated.
func (s *Store) get(key string) (any, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return nil, false, false
	}
	e := elem.Value.(*storeEntry)
	s.eviction.MoveToFront(elem)
	stale := e.stale || time.Since(e.storedAt) > s.ttl
	return e.value, true, stale
}

// put stores a fresh value for key under the given root.
func (s *Store) put(key, root string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		e := elem.Value.(*storeEntry)
		e.value = value
		e.stale = false
		e.storedAt = time.Now()
		s.eviction.MoveToFront(elem)
		return
	}
	for s.eviction.Len() >= s.maxEntries {
		back := s.eviction.Back()
		if back == nil {
			break
		}
		delete(s.entries, back.Value.(*storeEntry).key)
		s.eviction.Remove(back)
	}
	elem := s.eviction.PushFront(&storeEntry{
		key:      key,
		root:     root,
		value:    value,
		storedAt: time.Now(),
	})
	s.entries[key] = elem
}

// markStale flags a single entry for revalidation without dropping its value.
func (s *Store) markStale(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.entries[key]; ok {
		elem.Value.(*storeEntry).stale = true
	}
}

// InvalidateRoot marks every cached page under root stale, regardless of
// page, filters, or search, and wakes subscribed controllers so active views
// revalidate. Values are retained for stale-while-revalidate display.
func (s *Store) InvalidateRoot(root string) {
	s.mu.Lock()
	var wake []func()
	for e := s.eviction.Front(); e != nil; e = e.Next() {
		entry := e.Value.(*storeEntry)
		if entry.root == root {
			entry.stale = true
		}
	}
	for _, sub := range s.subs {
		if sub.root == root {
			wake = append(wake, sub.notify)
		}
	}
	s.mu.Unlock()

	for _, notify := range wake {
		notify()
	}
}

// Len reports the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eviction.Len()
}

func (s *Store) subscribe(root string, notify func()) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.subs[s.nextID] = subscriber{root: root, notify: notify}
	return s.nextID
}

func (s *Store) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
