// ABOUTME: Generic live queries that re-run when the collections they read change.
// ABOUTME: Results arrive as pending, ready, or failed snapshots on a latest-wins channel.
package live

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/ironlog/internal/storage"
)

// State is the lifecycle of a snapshot.
type State int

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Snapshot is one delivered query result. Value is only meaningful when
// State is Ready; Err is set when State is Failed.
type Snapshot[T any] struct {
	State State
	Value T
	Err   error
}

// Query reads from the store. Everything it reads through r becomes a
// dependency of the subscription.
type Query[T any] func(ctx context.Context, r storage.Reader) (T, error)

// Subscription delivers fresh results of one query until its context ends.
type Subscription[T any] struct {
	ID uuid.UUID

	hub    *Hub
	query  Query[T]
	cancel context.CancelFunc
	out    chan Snapshot[T]
	done   chan struct{}
	wake   chan struct{}

	mu         sync.Mutex
	current    Snapshot[T]
	deps       depSet
	missed     []storage.Collection
	evaluating bool
}

// Watch starts a subscription. The query runs once immediately and again
// after every committed change to a collection it read. Cancelling ctx or
// calling Close tears it down and closes Updates.
func Watch[T any](ctx context.Context, h *Hub, query Query[T]) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		ID:         uuid.New(),
		hub:        h,
		query:      query,
		cancel:     cancel,
		out:        make(chan Snapshot[T], 1),
		done:       make(chan struct{}),
		wake:       make(chan struct{}, 1),
		deps:       depSet{},
		evaluating: true,
	}
	h.add(s.ID, s)
	log.Debug("live query started", "sub", s.ID)
	go s.run(ctx)
	return s
}

// Updates delivers snapshots. Only the newest undelivered snapshot is kept.
func (s *Subscription[T]) Updates() <-chan Snapshot[T] {
	return s.out
}

// Current returns the latest snapshot; Pending before the first evaluation.
func (s *Subscription[T]) Current() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Deps returns the collections the last evaluation read.
func (s *Subscription[T]) Deps() []storage.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.list()
}

// Close stops the subscription and waits for it to finish.
func (s *Subscription[T]) Close() {
	s.cancel()
	<-s.done
}

// Done is closed once the subscription has stopped.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription[T]) notify(cols []storage.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evaluating {
		s.missed = append(s.missed, cols...)
		return
	}
	if s.deps.intersects(cols) {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

func (s *Subscription[T]) run(ctx context.Context) {
	defer func() {
		s.hub.remove(s.ID)
		close(s.out)
		close(s.done)
		log.Debug("live query stopped", "sub", s.ID)
	}()

	for {
		snap, deps := s.evaluate(ctx)
		if ctx.Err() != nil {
			return
		}
		s.publish(snap)

		s.mu.Lock()
		if snap.State == Failed && len(deps) == 0 {
			// Nothing was read before the failure; retry on what the last run read,
			// or on any change when there was no successful run.
			deps = s.deps
			if len(deps) == 0 {
				deps = allCollections()
			}
		}
		s.deps = deps
		rerun := deps.intersects(s.missed)
		s.missed = nil
		s.evaluating = rerun
		s.mu.Unlock()

		if rerun {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			s.mu.Lock()
			s.evaluating = true
			s.mu.Unlock()
		}
	}
}

func (s *Subscription[T]) evaluate(ctx context.Context) (Snapshot[T], depSet) {
	var value T
	var tr *trackingReader
	err := s.hub.repo.View(ctx, func(r storage.Reader) error {
		tr = newTrackingReader(r)
		var err error
		value, err = s.query(ctx, tr)
		return err
	})

	deps := depSet{}
	if tr != nil {
		tr.mu.Lock()
		deps = tr.deps
		tr.mu.Unlock()
	}

	if err != nil {
		if ctx.Err() == nil {
			log.Warn("live query failed", "sub", s.ID, "err", err)
		}
		return Snapshot[T]{State: Failed, Err: err}, deps
	}
	return Snapshot[T]{State: Ready, Value: value}, deps
}

// publish stores snap as current and replaces any undelivered snapshot.
func (s *Subscription[T]) publish(snap Snapshot[T]) {
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	select {
	case s.out <- snap:
		return
	default:
	}
	select {
	case <-s.out:
	default:
	}
	s.out <- snap
}
