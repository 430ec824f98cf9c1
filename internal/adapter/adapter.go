// Package adapter defines the source-adapter contract: the polymorphic
// projection every content source (filesystem, feed, RDF graph)
// implements to populate the store and optionally answer search and
// writes natively.
package adapter

import (
	"context"

	"github.com/gopherdesk/contentd/internal/model"
	"github.com/gopherdesk/contentd/internal/store"
)

// Adapter is the read side every source implements.
type Adapter interface {
	// Namespace returns the namespace this adapter owns.
	Namespace() string

	// Sync populates or refreshes every node under this adapter's
	// namespace. Sync is total: selectors absent from the source after
	// Sync returns are no longer present in the store.
	Sync(ctx context.Context, s *store.LocalStore) error

	// Search claims a query natively, or returns (nil, false) to
	// delegate to generic case-insensitive display filtering.
	Search(ctx context.Context, selector, query string) ([]model.MenuItem, bool, error)
}

// Writable is implemented by adapters that support publish and delete.
// An implementation may still reject writes with NotWritable when its
// namespace is read-only (fsadapter does).
type Writable interface {
	Adapter
	Publish(ctx context.Context, s *store.LocalStore, selector, content string) (action string, err error)
	Delete(ctx context.Context, s *store.LocalStore, selector string) error
}

// Registry maps namespace names to their owning adapter.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register records a, keyed by a.Namespace(). Registering the same
// namespace twice replaces the prior adapter.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Namespace()] = a
}

// Lookup returns the adapter owning ns, if any.
func (r *Registry) Lookup(ns string) (Adapter, bool) {
	a, ok := r.adapters[ns]
	return a, ok
}

// Namespaces returns every registered namespace name.
func (r *Registry) Namespaces() []string {
	names := make([]string, 0, len(r.adapters))
	for ns := range r.adapters {
		names = append(names, ns)
	}
	return names
}

// SyncAll runs Sync on every registered adapter, collecting the first
// error but continuing through the remaining adapters so one bad source
// does not block the others from refreshing.
func (r *Registry) SyncAll(ctx context.Context, s *store.LocalStore) error {
	var firstErr error
	for _, a := range r.adapters {
		if err := a.Sync(ctx, s); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
