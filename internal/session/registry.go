// Package session holds the server-side, in-memory resources a client
// builds up across several requests — ingested graphs, coordinate-to-node
// mappings, VRP instances and solutions — each keyed by a UUID and reaped
// after its retention window lapses.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// Registry is a generic, concurrency-safe, TTL-reaped store for one kind
// of resource, keyed by UUID.
type Registry[T any] struct {
	mu    sync.RWMutex
	kind  string
	items map[uuid.UUID]item[T]
}

type item[T any] struct {
	value     T
	createdAt time.Time
}

// NewRegistry returns an empty registry. kind names the resource for
// NotFound error messages (e.g. "graph", "instance").
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, items: make(map[uuid.UUID]item[T])}
}

// Insert stores v under a freshly generated id and returns it.
func (r *Registry[T]) Insert(v T) uuid.UUID {
	id := uuid.New()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = item[T]{value: v, createdAt: time.Now()}

	return id
}

// InsertAt stores v under a caller-chosen id, replacing any prior value.
// Used when a resource is naturally keyed by another resource's id (e.g.
// a Mapping keyed by its owning graph's id) rather than minted fresh.
func (r *Registry[T]) InsertAt(id uuid.UUID, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = item[T]{value: v, createdAt: time.Now()}
}

// Get returns the value for id, or a NotFound AppError.
func (r *Registry[T]) Get(id uuid.UUID) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		var zero T

		return zero, vrperrors.NotFound(r.kind, id.String())
	}

	return it.value, nil
}

// Delete removes id if present; deleting a missing id is a no-op.
func (r *Registry[T]) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

// Count returns the number of live entries.
func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// Reap removes every entry older than maxAge as of now, returning how many
// were removed.
func (r *Registry[T]) Reap(now time.Time, maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, it := range r.items {
		if now.Sub(it.createdAt) > maxAge {
			delete(r.items, id)
			removed++
		}
	}

	return removed
}
