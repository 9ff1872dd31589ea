// ABOUTME: Change hub that fans store mutations out to live subscriptions.
// ABOUTME: The store reports changed collections; the hub wakes dependent queries.
package live

import (
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/ironlog/internal/storage"
)

// notifier is implemented by every subscription regardless of result type.
type notifier interface {
	notify(cols []storage.Collection)
}

// Hub receives "collection changed" events and wakes the subscriptions
// whose last evaluation read one of those collections.
type Hub struct {
	repo storage.Repository

	mu   sync.Mutex
	subs map[uuid.UUID]notifier
}

// NewHub creates a hub and registers it as an observer of repo.
func NewHub(repo storage.Repository) *Hub {
	h := &Hub{repo: repo, subs: make(map[uuid.UUID]notifier)}
	repo.Observe(h.Notify)
	return h
}

// Notify marks cols as changed. It never blocks on subscribers.
func (h *Hub) Notify(cols ...storage.Collection) {
	h.mu.Lock()
	subs := make([]notifier, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.notify(cols)
	}
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) add(id uuid.UUID, n notifier) {
	h.mu.Lock()
	h.subs[id] = n
	h.mu.Unlock()
}

func (h *Hub) remove(id uuid.UUID) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}
