// Package router implements the content engine's six public
// operations — browse, fetch, search, publish, delete, dump — by
// dispatching between the local store, registered adapters, and a
// remote Gopher proxy.
package router

import (
	"context"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gopherdesk/contentd/gopher"
	"github.com/gopherdesk/contentd/internal/adapter"
	"github.com/gopherdesk/contentd/internal/contenterr"
	"github.com/gopherdesk/contentd/internal/model"
	"github.com/gopherdesk/contentd/internal/store"
)

// defaultRemotePort is the standard Gopher service port.
const defaultRemotePort = 70

// Router is the process-scoped singleton tying the store, adapter
// registry, and Gopher client together.
type Router struct {
	Store    *store.LocalStore
	Adapters *adapter.Registry
	Gopher   *gopher.Client

	log *logrus.Entry
}

// New returns a Router over s and registry.
func New(s *store.LocalStore, registry *adapter.Registry) *Router {
	return &Router{
		Store:    s,
		Adapters: registry,
		Gopher:   &gopher.Client{},
		log:      logrus.WithField("component", "router"),
	}
}

// normalize applies path normalisation: trim one trailing slash, reject
// embedded "//" and ".." segments, coerce an empty selector to "/".
func normalize(raw string) (model.Path, error) {
	p := model.ParsePath(raw)
	if p.Empty() {
		return p, nil
	}
	normalized, ok := model.Normalize(p)
	if !ok {
		return model.Path{}, contenterr.New(contenterr.InvalidPath, "normalize", raw, "malformed selector")
	}
	return normalized, nil
}

func isLocal(r *Router, ns string) bool {
	if _, ok := r.Adapters.Lookup(ns); ok {
		return true
	}
	return r.Store.IsWritable(ns) || storeHasNamespace(r.Store, ns)
}

func storeHasNamespace(s *store.LocalStore, ns string) bool {
	for _, n := range s.Namespaces() {
		if n == ns {
			return true
		}
	}
	return false
}

// Browse lists the menu items at a namespace/selector path.
func (r *Router) Browse(ctx context.Context, rawPath string) ([]model.MenuItem, error) {
	p, err := normalize(rawPath)
	if err != nil {
		return nil, err
	}

	if p.Empty() {
		return r.namespaceListing(), nil
	}

	if isLocal(r, p.Namespace) {
		node, ok := r.Store.Get(p.Namespace, selectorOrRoot(p.Selector))
		if !ok {
			return nil, contenterr.New(contenterr.NotFound, "browse", rawPath, "no such selector")
		}
		if !node.IsMenu() {
			return nil, contenterr.New(contenterr.TypeMismatch, "browse", rawPath, "selector is a document, not a menu")
		}
		return node.Items, nil
	}

	return r.browseRemote(ctx, p)
}

func (r *Router) namespaceListing() []model.MenuItem {
	names := r.Store.Namespaces()
	sort.Strings(names)
	items := make([]model.MenuItem, 0, len(names))
	for _, name := range names {
		items = append(items, model.MenuItem{Type: model.Menu, Display: name, Selector: "/", Host: name})
	}
	return items
}

func selectorOrRoot(sel string) string {
	if sel == "" {
		return "/"
	}
	return sel
}

func (r *Router) browseRemote(ctx context.Context, p model.Path) ([]model.MenuItem, error) {
	host, port := splitHostPort(p.Namespace)
	gopherItems, err := r.Gopher.FetchMenu(ctx, host, port, selectorOrRoot(p.Selector))
	if err != nil {
		r.log.WithError(err).WithField("path", p.String()).Debug("remote browse failed")
		return nil, contenterr.Wrap(contenterr.Network, "browse", p.String(), err)
	}
	return toModelItems(gopherItems, host), nil
}

func toModelItems(items []gopher.Item, host string) []model.MenuItem {
	out := make([]model.MenuItem, 0, len(items))
	for _, it := range items {
		itemHost := it.Host
		if itemHost == "" {
			itemHost = host
		}
		out = append(out, model.MenuItem{
			Type:     it.Type,
			Display:  it.Display,
			Selector: it.Selector,
			Host:     itemHost,
			Port:     it.Port,
		})
	}
	return out
}

func splitHostPort(ns string) (string, int) {
	if idx := strings.LastIndexByte(ns, ':'); idx >= 0 {
		if port, err := strconv.Atoi(ns[idx+1:]); err == nil {
			return ns[:idx], port
		}
	}
	return ns, defaultRemotePort
}

// FetchResult is the result of a fetch operation.
type FetchResult struct {
	Path    string
	Content string
	Mime    string
}

// Fetch retrieves the document content at a namespace/selector path.
func (r *Router) Fetch(ctx context.Context, rawPath string) (FetchResult, error) {
	p, err := normalize(rawPath)
	if err != nil {
		return FetchResult{}, err
	}
	if p.Empty() {
		return FetchResult{}, contenterr.New(contenterr.InvalidPath, "fetch", rawPath, "no namespace given")
	}

	if isLocal(r, p.Namespace) {
		node, ok := r.Store.Get(p.Namespace, selectorOrRoot(p.Selector))
		if !ok {
			return FetchResult{}, contenterr.New(contenterr.NotFound, "fetch", rawPath, "no such selector")
		}
		if !node.IsDocument() {
			return FetchResult{}, contenterr.New(contenterr.TypeMismatch, "fetch", rawPath, "selector is a menu, not a document")
		}
		return FetchResult{Path: p.String(), Content: node.Text, Mime: node.Mime}, nil
	}

	host, port := splitHostPort(p.Namespace)
	text, err := r.Gopher.FetchDocument(ctx, host, port, selectorOrRoot(p.Selector))
	if err != nil {
		return FetchResult{}, contenterr.Wrap(contenterr.Network, "fetch", rawPath, err)
	}
	return FetchResult{Path: p.String(), Content: text, Mime: "text/plain"}, nil
}

// Search queries a namespace/selector path, preferring an adapter's
// native search and falling back to display filtering.
func (r *Router) Search(ctx context.Context, rawPath, query string) ([]model.MenuItem, error) {
	p, err := normalize(rawPath)
	if err != nil {
		return nil, err
	}

	if a, ok := r.Adapters.Lookup(p.Namespace); ok {
		items, claimed, err := a.Search(ctx, selectorOrRoot(p.Selector), query)
		if err != nil {
			return nil, contenterr.Wrap(contenterr.Internal, "search", rawPath, err)
		}
		if claimed {
			return items, nil
		}
	}

	if isLocal(r, p.Namespace) {
		items, err := r.Browse(ctx, rawPath)
		if err != nil {
			return nil, err
		}
		return filterByDisplay(items, query), nil
	}

	host, port := splitHostPort(p.Namespace)
	gopherItems, err := r.Gopher.Search(ctx, host, port, selectorOrRoot(p.Selector), query)
	if err != nil {
		return nil, contenterr.Wrap(contenterr.Network, "search", rawPath, err)
	}
	return toModelItems(gopherItems, host), nil
}

func filterByDisplay(items []model.MenuItem, query string) []model.MenuItem {
	lowerQuery := strings.ToLower(query)
	var out []model.MenuItem
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Display), lowerQuery) {
			out = append(out, it)
		}
	}
	return out
}

// WriteResult is the result of a publish or delete operation.
type WriteResult struct {
	Path   string
	Action string
}

// Publish writes content to a namespace/selector path in a writable
// namespace.
func (r *Router) Publish(ctx context.Context, rawPath, content string) (WriteResult, error) {
	p, err := normalize(rawPath)
	if err != nil {
		return WriteResult{}, err
	}

	a, ok := r.Adapters.Lookup(p.Namespace)
	if !ok {
		return WriteResult{}, contenterr.New(contenterr.NotWritable, "publish", rawPath, "namespace has no writable adapter")
	}
	w, ok := a.(adapter.Writable)
	if !ok {
		return WriteResult{}, contenterr.New(contenterr.NotWritable, "publish", rawPath, "adapter is read-only")
	}

	action, err := w.Publish(ctx, r.Store, selectorOrRoot(p.Selector), content)
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Path: p.String(), Action: action}, nil
}

// Delete removes a namespace/selector path from a writable namespace.
func (r *Router) Delete(ctx context.Context, rawPath string) (WriteResult, error) {
	p, err := normalize(rawPath)
	if err != nil {
		return WriteResult{}, err
	}

	a, ok := r.Adapters.Lookup(p.Namespace)
	if !ok {
		return WriteResult{}, contenterr.New(contenterr.NotWritable, "delete", rawPath, "namespace has no writable adapter")
	}
	w, ok := a.(adapter.Writable)
	if !ok {
		return WriteResult{}, contenterr.New(contenterr.NotWritable, "delete", rawPath, "adapter is read-only")
	}

	if err := w.Delete(ctx, r.Store, selectorOrRoot(p.Selector)); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Path: p.String(), Action: "deleted"}, nil
}

// DumpResult is the result of a dump operation.
type DumpResult struct {
	Source      string
	Destination string
	Published   int
	Skipped     int
}

const defaultMaxDepth = 3

// Dump walks source breadth-first up to maxDepth menu levels,
// publishing every document found under destination while preserving
// its relative selector. It fails fast if destination is not writable;
// per-item fetch/publish failures count as skips rather than aborting
// the whole walk.
func (r *Router) Dump(ctx context.Context, sourcePath, destPath string, maxDepth int) (DumpResult, error) {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	destP, err := normalize(destPath)
	if err != nil {
		return DumpResult{}, err
	}
	destAdapter, ok := r.Adapters.Lookup(destP.Namespace)
	if !ok {
		return DumpResult{}, contenterr.New(contenterr.NotWritable, "dump", destPath, "destination namespace has no writable adapter")
	}
	writable, ok := destAdapter.(adapter.Writable)
	if !ok {
		return DumpResult{}, contenterr.New(contenterr.NotWritable, "dump", destPath, "destination adapter is read-only")
	}
	if !r.Store.IsWritable(destP.Namespace) {
		return DumpResult{}, contenterr.New(contenterr.NotWritable, "dump", destPath, "destination namespace is read-only")
	}

	srcP, err := normalize(sourcePath)
	if err != nil {
		return DumpResult{}, err
	}

	result := DumpResult{Source: sourcePath, Destination: destPath}

	type queued struct {
		selector string
		depth    int
	}
	queue := []queued{{selector: selectorOrRoot(srcP.Selector), depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth > maxDepth {
			continue
		}

		items, err := r.Browse(ctx, joinPath(sourcePath, cur.selector))
		if err != nil {
			result.Skipped++
			continue
		}

		for _, item := range items {
			if !item.Type.IsNavigable() {
				continue
			}
			switch item.Type {
			case model.Menu:
				if cur.depth < maxDepth {
					queue = append(queue, queued{selector: item.Selector, depth: cur.depth + 1})
				}
			case model.TextFile:
				fetched, err := r.Fetch(ctx, joinPath(sourcePath, item.Selector))
				if err != nil {
					result.Skipped++
					continue
				}
				targetSelector := destinationSelector(destP.Selector, item.Selector)
				if _, err := writable.Publish(ctx, r.Store, targetSelector, fetched.Content); err != nil {
					result.Skipped++
					continue
				}
				result.Published++
			}
		}
	}

	return result, nil
}

func joinPath(namespacePath, selector string) string {
	p := model.ParsePath(namespacePath)
	return p.Namespace + selector
}

// destinationSelector derives a file-safe target selector under base
// that preserves the relative structure of src.
func destinationSelector(base, src string) string {
	clean := path.Clean("/" + src)
	sanitized := sanitizeSelector(clean)
	if base == "" || base == "/" {
		return sanitized
	}
	return strings.TrimSuffix(base, "/") + sanitized
}

func sanitizeSelector(sel string) string {
	var b strings.Builder
	for _, r := range sel {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := b.String()
	for strings.Contains(cleaned, "//") {
		cleaned = strings.ReplaceAll(cleaned, "//", "/")
	}
	return cleaned
}
