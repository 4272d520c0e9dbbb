package live

import (
	"context"
	"fmt"
	"sync"
)

// Query loads the current result set of a live query.
type Query[T any] func(ctx context.Context) ([]T, error)

// Subscription is a live query. It holds the latest snapshot and calls its
// callback with every new one until cancelled.
type Subscription[T any] struct {
	hub      *Hub
	id       uint64
	query    Query[T]
	onChange func([]T)

	// deliverMu is held while a callback runs and while cancelling.
	deliverMu sync.Mutex
	cancelled bool
	// ready is set once the initial snapshot is stored. A publish seen
	// before that only marks the subscription stale.
	ready bool
	stale bool
	// issued and delivered number refreshes so an older result never
	// replaces a newer one.
	issued    uint64
	delivered uint64

	snapMu   sync.RWMutex
	snapshot []T
}

// Watch runs query once and returns a subscription holding that result.
// Afterwards every Publish of one of topics re-runs the query and passes the
// new result to onChange. A publish that arrives while the first query runs is
// delivered through onChange as soon as Watch has stored the first result.
// onChange may be nil when only Snapshot is used.
func Watch[T any](ctx context.Context, hub *Hub, topics []Topic, query Query[T], onChange func([]T)) (*Subscription[T], error) {
	s := &Subscription[T]{
		hub:      hub,
		query:    query,
		onChange: onChange,
	}
	// Registered before the first query so no publish can slip in between.
	s.id = hub.add(topics, s)

	initial, err := query(ctx)
	if err != nil {
		hub.remove(s.id)
		return nil, fmt.Errorf("failed to run initial query: %w", err)
	}

	s.deliverMu.Lock()
	s.snapMu.Lock()
	s.snapshot = initial
	s.snapMu.Unlock()
	s.ready = true
	stale := s.stale
	s.deliverMu.Unlock()

	if stale {
		s.refresh(ctx)
	}
	return s, nil
}

// Snapshot returns the most recent result set.
func (s *Subscription[T]) Snapshot() []T {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snapshot
}

// Cancel stops the subscription. It waits for a callback that is already
// running, so no callback starts or runs after Cancel returns. Calling it more
// than once is fine; calling it from the subscription's own callback deadlocks.
func (s *Subscription[T]) Cancel() {
	s.hub.remove(s.id)

	s.deliverMu.Lock()
	s.cancelled = true
	s.deliverMu.Unlock()
}

// Cancelled reports whether Cancel has been called.
func (s *Subscription[T]) Cancelled() bool {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	return s.cancelled
}

func (s *Subscription[T]) refresh(ctx context.Context) {
	s.deliverMu.Lock()
	if s.cancelled {
		s.deliverMu.Unlock()
		return
	}
	if !s.ready {
		s.stale = true
		s.deliverMu.Unlock()
		return
	}
	s.issued++
	seq := s.issued
	s.deliverMu.Unlock()

	result, err := s.query(ctx)
	if err != nil {
		if s.hub.logger != nil {
			s.hub.logger.WithError(err).WithField("subscription", s.id).Error("Failed to refresh live query")
		}
		return
	}

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if s.cancelled || seq < s.delivered {
		return
	}
	s.delivered = seq
	s.snapMu.Lock()
	s.snapshot = result
	s.snapMu.Unlock()
	if s.onChange != nil {
		s.onChange(result)
	}
}
