// Package fsadapter projects a directory tree into the content model:
// directories become Menus, text files become Documents, binary files
// become unfetchable Binary menu entries, and a ".gophermap" file in a
// directory fully overrides that directory's generated menu.
package fsadapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gopherdesk/contentd/internal/contenterr"
	"github.com/gopherdesk/contentd/internal/model"
	"github.com/gopherdesk/contentd/internal/store"
)

// gophermapName is the override file name. See DESIGN.md for why this
// adapter uses the dotted form rather than a bare "gophermap" sibling.
const gophermapName = ".gophermap"

// extensionItemType maps file extensions to item types, extended with
// a couple of entries a vault of notes needs beyond plain text and
// binary (markdown notes, JSON documents).
var extensionItemType = map[string]model.ItemType{
	".txt":  model.TextFile,
	".md":   model.TextFile,
	".go":   model.TextFile,
	".py":   model.TextFile,
	".c":    model.TextFile,
	".h":    model.TextFile,
	".json": model.TextFile,
	".gif":  model.Gif,
	".jpg":  model.Image,
	".jpeg": model.Image,
	".png":  model.Image,
	".html": model.Html,
	".htm":  model.Html,
}

var extensionMime = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".go":   "text/plain",
	".py":   "text/plain",
	".c":    "text/plain",
	".h":    "text/plain",
	".json": "application/json",
	".html": "text/html",
	".htm":  "text/html",
}

func itemTypeFor(name string) model.ItemType {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extensionItemType[ext]; ok {
		return t
	}
	return model.Binary
}

func mimeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if m, ok := extensionMime[ext]; ok {
		return m
	}
	return "application/octet-stream"
}

// Adapter projects a directory tree rooted at Root. It always
// implements adapter.Writable; Publish and Delete fail with NotWritable
// unless Writable is true.
type Adapter struct {
	NS         string
	Root       string
	Extensions []string // optional allow-list; empty means allow all
	Writable   bool

	log *logrus.Entry
}

// New returns an Adapter for namespace ns rooted at root.
func New(ns, root string, extensions []string, writable bool) *Adapter {
	return &Adapter{
		NS:         ns,
		Root:       root,
		Extensions: extensions,
		Writable:   writable,
		log:        logrus.WithFields(logrus.Fields{"namespace": ns, "adapter": "fsadapter"}),
	}
}

func (a *Adapter) Namespace() string { return a.NS }

func (a *Adapter) allowed(name string) bool {
	if len(a.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range a.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Sync walks Root and (re)builds every Menu/Document node under NS,
// honouring .gophermap overrides. It is total: a second Sync on an
// unchanged tree replaces the namespace with byte-identical content,
// satisfying the menu-regeneration idempotence invariant.
func (a *Adapter) Sync(ctx context.Context, s *store.LocalStore) error {
	fresh := make(map[string]model.ContentNode)
	if err := a.walk(a.Root, "/", fresh); err != nil {
		a.log.WithError(err).Warn("sync failed")
		return contenterr.Wrap(contenterr.IO, "fsadapter.Sync", a.NS, err)
	}
	s.RegisterNamespace(a.NS, a.Writable)
	s.ReplaceNamespace(a.NS, fresh)
	return nil
}

func (a *Adapter) walk(dir, selector string, out map[string]model.ContentNode) error {
	overridePath := filepath.Join(dir, gophermapName)
	if items, err := parseGophermap(overridePath, a.NS); err == nil {
		out[selector] = model.NewMenu(items)
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var items []model.MenuItem
	for _, entry := range entries {
		name := entry.Name()
		if name == gophermapName {
			continue
		}
		childSelector := joinSelector(selector, name)
		fullPath := filepath.Join(dir, name)

		if entry.IsDir() {
			if err := a.walk(fullPath, childSelector, out); err != nil {
				return err
			}
			items = append(items, model.MenuItem{Type: model.Menu, Display: name, Selector: childSelector, Host: a.NS})
			continue
		}

		if !a.allowed(name) {
			continue
		}

		itemType := itemTypeFor(name)
		if itemType == model.TextFile {
			text, err := os.ReadFile(fullPath)
			if err != nil {
				return fmt.Errorf("read file %s: %w", fullPath, err)
			}
			out[childSelector] = model.NewDocument(string(text), mimeFor(name))
		}
		items = append(items, model.MenuItem{Type: itemType, Display: name, Selector: childSelector, Host: a.NS})
	}
	out[selector] = model.NewMenu(items)
	return nil
}

func joinSelector(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

// parseGophermap parses a .gophermap override file: lines of the form
// "<type><display>\t<selector>\t<host>\t<port>"; blank lines and "#"
// comments are skipped; "i" lines may omit trailing fields.
func parseGophermap(path, ns string) ([]model.MenuItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []model.MenuItem
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, parseGophermapLine(line, ns))
	}
	return items, nil
}

func parseGophermapLine(line, ns string) model.MenuItem {
	typ := model.ItemType(line[0])
	rest := line[1:]
	fields := strings.Split(rest, "\t")

	display := fields[0]
	selector, host, port := "", "", 0
	if len(fields) > 1 {
		selector = fields[1]
	}
	if len(fields) > 2 {
		host = fields[2]
	}
	if len(fields) > 3 {
		if p, err := strconv.Atoi(fields[3]); err == nil {
			port = p
		}
	}
	if host == "" && typ != model.Info {
		host = ns
	}
	return model.MenuItem{Type: typ, Display: display, Selector: selector, Host: host, Port: port}
}

// Search is never claimed by the filesystem adapter; the router falls
// back to case-insensitive display filtering over a browse listing.
func (a *Adapter) Search(ctx context.Context, selector, query string) ([]model.MenuItem, bool, error) {
	return nil, false, nil
}
