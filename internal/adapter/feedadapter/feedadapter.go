// Package feedadapter projects an RSS/Atom feed into the content model:
// a root menu listing entries and categories, one Document per entry,
// and one submenu per category.
package feedadapter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/gopherdesk/contentd/internal/adapter"
	"github.com/gopherdesk/contentd/internal/contenterr"
	"github.com/gopherdesk/contentd/internal/model"
	"github.com/gopherdesk/contentd/internal/store"
)

var _ adapter.Adapter = (*Adapter)(nil)

// Adapter fetches and projects a single feed URL.
type Adapter struct {
	NS      string
	FeedURL string

	parser *gofeed.Parser
	log    *logrus.Entry
}

// New returns an Adapter for namespace ns backed by feedURL.
func New(ns, feedURL string) *Adapter {
	return &Adapter{
		NS:      ns,
		FeedURL: feedURL,
		parser:  gofeed.NewParser(),
		log:     logrus.WithFields(logrus.Fields{"namespace": ns, "adapter": "feedadapter"}),
	}
}

func (a *Adapter) Namespace() string { return a.NS }

// Sync fetches FeedURL and rebuilds the namespace's menus and
// documents from its entries and categories.
func (a *Adapter) Sync(ctx context.Context, s *store.LocalStore) error {
	feed, err := a.parser.ParseURLWithContext(a.FeedURL, ctx)
	if err != nil {
		a.log.WithError(err).Warn("feed fetch/parse failed")
		return contenterr.Wrap(contenterr.Network, "feedadapter.Sync", a.NS, err)
	}

	fresh := make(map[string]model.ContentNode)
	categories := make(map[string][]int) // category -> entry indices, in feed order
	var rootItems []model.MenuItem
	rootItems = append(rootItems, model.MenuItem{Type: model.Info, Display: feed.Title})

	for i, entry := range feed.Items {
		selector := fmt.Sprintf("/entry/%d", i)
		rootItems = append(rootItems, model.MenuItem{Type: model.TextFile, Display: entry.Title, Selector: selector, Host: a.NS})
		fresh[selector] = model.NewDocument(renderEntry(entry), "text/plain")

		for _, cat := range entry.Categories {
			categories[cat] = append(categories[cat], i)
		}
	}

	for _, cat := range sortedKeys(categories) {
		selector := "/category/" + sanitizeSegment(cat)
		rootItems = append(rootItems, model.MenuItem{Type: model.Menu, Display: cat, Selector: selector, Host: a.NS})

		var catItems []model.MenuItem
		for _, idx := range categories[cat] {
			entrySelector := fmt.Sprintf("/entry/%d", idx)
			catItems = append(catItems, model.MenuItem{Type: model.TextFile, Display: feed.Items[idx].Title, Selector: entrySelector, Host: a.NS})
		}
		fresh[selector] = model.NewMenu(catItems)
	}

	fresh["/"] = model.NewMenu(rootItems)

	s.RegisterNamespace(a.NS, false)
	s.ReplaceNamespace(a.NS, fresh)
	return nil
}

func renderEntry(entry *gofeed.Item) string {
	var b strings.Builder
	b.WriteString(entry.Title)
	b.WriteString("\n")
	if entry.PublishedParsed != nil {
		b.WriteString(entry.PublishedParsed.Format("2006-01-02T15:04:05Z07:00"))
		b.WriteString("\n")
	}

	summary := entry.Description
	if summary == "" {
		summary = entry.Content
	}
	if summary != "" {
		b.WriteString(stripHTML(summary))
		b.WriteString("\n")
	}

	for _, link := range entry.Links {
		b.WriteString("i")
		b.WriteString(link)
		b.WriteString("\n")
	}
	return b.String()
}

// stripHTML renders HTML summary/content down to plain text, walking
// the parsed node tree and collecting text nodes.
func stripHTML(markup string) string {
	node, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return strings.TrimSpace(b.String())
}

func sanitizeSegment(s string) string {
	r := strings.NewReplacer("/", "_", " ", "_")
	return r.Replace(s)
}

func sortedKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic ordering independent of map iteration.
	sort.Strings(keys)
	return keys
}

// Search is never claimed; the router falls back to generic filtering.
func (a *Adapter) Search(ctx context.Context, selector, query string) ([]model.MenuItem, bool, error) {
	return nil, false, nil
}
