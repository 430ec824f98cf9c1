// Package store implements the content engine's local store: a
// namespace/selector map with one reader/writer lock per namespace, so
// a publish into one namespace never blocks reads of another.
package store

import (
	"github.com/sasha-s/go-deadlock"

	"github.com/gopherdesk/contentd/internal/contenterr"
	"github.com/gopherdesk/contentd/internal/model"
)

type namespaceState struct {
	mu       deadlock.RWMutex
	writable bool
	nodes    map[string]model.ContentNode
}

// LocalStore is the sole shared mutable resource in the content engine.
// All exported methods are safe for concurrent use across namespaces;
// within a namespace, at most one writer runs at a time and excludes
// readers of that namespace.
type LocalStore struct {
	mu         deadlock.RWMutex // guards the namespaces map itself, not its contents
	namespaces map[string]*namespaceState
}

// New returns an empty store.
func New() *LocalStore {
	return &LocalStore{namespaces: make(map[string]*namespaceState)}
}

// RegisterNamespace declares a namespace and its writability. Calling it
// again for an already-registered namespace replaces the writability
// flag with the new value; it does not clear existing nodes.
func (s *LocalStore) RegisterNamespace(ns string, writable bool) {
	s.mu.Lock()
	existing, ok := s.namespaces[ns]
	if !ok {
		s.namespaces[ns] = &namespaceState{writable: writable, nodes: make(map[string]model.ContentNode)}
	}
	s.mu.Unlock()

	if ok {
		existing.mu.Lock()
		existing.writable = writable
		existing.mu.Unlock()
	}
}

func (s *LocalStore) namespace(ns string) (*namespaceState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.namespaces[ns]
	return n, ok
}

// Namespaces returns the set of registered namespace names.
func (s *LocalStore) Namespaces() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.namespaces))
	for name := range s.namespaces {
		names = append(names, name)
	}
	return names
}

// IsWritable reports whether ns is registered and writable.
func (s *LocalStore) IsWritable(ns string) bool {
	n, ok := s.namespace(ns)
	if !ok {
		return false
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.writable
}

// Get looks up a node by namespace/selector. The second return value is
// false when the namespace is unregistered or the selector is absent.
func (s *LocalStore) Get(ns, sel string) (model.ContentNode, bool) {
	n, ok := s.namespace(ns)
	if !ok {
		return model.ContentNode{}, false
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	node, ok := n.nodes[sel]
	return node, ok
}

// PutDocument stores a Document node at ns/sel, registering ns first if
// necessary (as read-only; callers that need a writable namespace must
// RegisterNamespace explicitly before the first write).
func (s *LocalStore) PutDocument(ns, sel, text, mime string) {
	s.put(ns, sel, model.NewDocument(text, mime))
}

// PutMenu stores a Menu node at ns/sel.
func (s *LocalStore) PutMenu(ns, sel string, items []model.MenuItem) {
	s.put(ns, sel, model.NewMenu(items))
}

func (s *LocalStore) put(ns, sel string, node model.ContentNode) {
	n := s.ensureNamespace(ns)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nodes[sel] = node
}

func (s *LocalStore) ensureNamespace(ns string) *namespaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.namespaces[ns]
	if !ok {
		n = &namespaceState{nodes: make(map[string]model.ContentNode)}
		s.namespaces[ns] = n
	}
	return n
}

// Remove deletes the node at ns/sel, if present.
func (s *LocalStore) Remove(ns, sel string) {
	n, ok := s.namespace(ns)
	if !ok {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.nodes, sel)
}

// Selectors returns every selector currently stored under ns, in no
// particular order; callers that need menu order keep it on the Menu
// node's Items slice instead.
func (s *LocalStore) Selectors(ns string) []string {
	n, ok := s.namespace(ns)
	if !ok {
		return nil
	}
	n.mu.RLock()
	defer n.mu.RUnlock()

	sels := make([]string, 0, len(n.nodes))
	for sel := range n.nodes {
		sels = append(sels, sel)
	}
	return sels
}

// ReplaceNamespace atomically swaps an entire namespace's node set,
// implementing sync totality (invariant #3): selectors not present in
// fresh disappear, and readers never observe a partial mix of old and
// new content for the namespace as a whole beyond per-key atomicity.
func (s *LocalStore) ReplaceNamespace(ns string, fresh map[string]model.ContentNode) {
	n := s.ensureNamespace(ns)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nodes = fresh
}

// WithNamespaceRead runs fn while holding the read lock for ns, for
// callers that need a consistent multi-key read.
func (s *LocalStore) WithNamespaceRead(ns string, fn func()) error {
	n, ok := s.namespace(ns)
	if !ok {
		return contenterr.New(contenterr.NotFound, "store.WithNamespaceRead", ns, "namespace not registered")
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	fn()
	return nil
}

// WithNamespaceWrite runs fn while holding the write lock for ns.
func (s *LocalStore) WithNamespaceWrite(ns string, fn func()) error {
	if !s.IsWritable(ns) {
		return contenterr.New(contenterr.NotWritable, "store.WithNamespaceWrite", ns, "namespace is not writable")
	}
	n, _ := s.namespace(ns)
	n.mu.Lock()
	defer n.mu.Unlock()
	fn()
	return nil
}
