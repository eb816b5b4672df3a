package tablesync

import (
	"context"
	"sync"
)

// MutationConfig wires a mutation to the cache root it dirties.
type MutationConfig[A any] struct {
	// Store is the shared query cache whose root gets invalidated. Required.
	Store *Store
	// Root is the cache-key root of the collection the mutation touches.
	Root string
	// Fn performs the mutation. Required.
	Fn func(ctx context.Context, arg A) error
	// OnSuccess runs after the root has been invalidated.
	OnSuccess func()
	// OnError receives the failure. The cache is left untouched.
	OnError func(error)
}

// Mutation wraps a single-argument mutation so that every cached page under
// its root is refetched after a successful write, whatever page, filter, or
// search combination produced the cached entry.
type Mutation[A any] struct {
	cfg MutationConfig[A]

	mu      sync.Mutex
	pending bool
}

// BindMutation builds a Mutation.
func BindMutation[A any](cfg MutationConfig[A]) *Mutation[A] {
	if cfg.Store == nil || cfg.Fn == nil {
		panic("tablesync: MutationConfig.Store and Fn are required")
	}
	return &Mutation[A]{cfg: cfg}
}

// Mutate runs the mutation in its own goroutine. Failures are never
// swallowed: they always reach OnError.
func (m *Mutation[A]) Mutate(ctx context.Context, arg A) {
	m.mu.Lock()
	m.pending = true
	m.mu.Unlock()

	go func() {
		err := m.cfg.Fn(ctx, arg)

		m.mu.Lock()
		m.pending = false
		m.mu.Unlock()

		if err != nil {
			if m.cfg.OnError != nil {
				m.cfg.OnError(err)
			}
			return
		}
		m.cfg.Store.InvalidateRoot(m.cfg.Root)
		if m.cfg.OnSuccess != nil {
			m.cfg.OnSuccess()
		}
	}()
}

// IsPending reports whether a mutation is in flight.
func (m *Mutation[A]) IsPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}
