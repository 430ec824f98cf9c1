// Package rdfadapter projects an RDF graph into the content model: one
// submenu per rdf:type class, one document per subject, and an
// optional SPARQL-backed native search.
package rdfadapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/knakk/rdf"
	"github.com/sirupsen/logrus"

	"github.com/gopherdesk/contentd/internal/adapter"
	"github.com/gopherdesk/contentd/internal/contenterr"
	"github.com/gopherdesk/contentd/internal/model"
	"github.com/gopherdesk/contentd/internal/store"
)

var _ adapter.Adapter = (*Adapter)(nil)

const (
	rdfTypeIRI   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	rdfsLabelIRI = "http://www.w3.org/2000/01/rdf-schema#label"
)

// Adapter projects an in-memory RDF graph read from exactly one of
// FilePath or URL.
type Adapter struct {
	NS        string
	FilePath  string
	URL       string
	Format    rdf.Format
	SparqlURL string // optional; when set, Search is claimed

	httpClient *http.Client
	log        *logrus.Entry
}

// New returns an Adapter for namespace ns with the given graph source
// and optional SPARQL endpoint.
func New(ns, filePath, url string, format rdf.Format, sparqlURL string) *Adapter {
	return &Adapter{
		NS:         ns,
		FilePath:   filePath,
		URL:        url,
		Format:     format,
		SparqlURL:  sparqlURL,
		httpClient: &http.Client{},
		log:        logrus.WithFields(logrus.Fields{"namespace": ns, "adapter": "rdfadapter"}),
	}
}

func (a *Adapter) Namespace() string { return a.NS }

// SafeIRI encodes an IRI into a selector-safe segment by replacing ":"
// and "/" with "_". The mapping is deterministic but not guaranteed
// collision-free for pathological IRIs that differ only in characters
// already mapped to "_"; this is an accepted limitation of the simple
// scheme used here.
func SafeIRI(iri string) string {
	r := strings.NewReplacer(":", "_", "/", "_")
	return r.Replace(iri)
}

func (a *Adapter) open(ctx context.Context) (io.ReadCloser, error) {
	if a.FilePath != "" {
		return os.Open(a.FilePath)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("rdf source %s: status %d", a.URL, resp.StatusCode)
	}
	return resp.Body, nil
}

type subject struct {
	iri   string
	types []string
	preds []rdf.Triple
	label string
}

// Sync decodes the configured graph and rebuilds the namespace's
// class/resource menus and documents.
func (a *Adapter) Sync(ctx context.Context, s *store.LocalStore) error {
	r, err := a.open(ctx)
	if err != nil {
		return contenterr.Wrap(contenterr.Network, "rdfadapter.Sync", a.NS, err)
	}
	defer r.Close()

	dec := rdf.NewTripleDecoder(r, a.Format)
	subjects := make(map[string]*subject)
	classMembers := make(map[string][]string) // class IRI -> subject IRIs, in encounter order

	for {
		triple, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			a.log.WithError(err).Warn("rdf parse failed")
			return contenterr.Wrap(contenterr.Parse, "rdfadapter.Sync", a.NS, err)
		}

		subjIRI := triple.Subj.String()
		subj, ok := subjects[subjIRI]
		if !ok {
			subj = &subject{iri: subjIRI}
			subjects[subjIRI] = subj
		}
		subj.preds = append(subj.preds, triple)

		predIRI := triple.Pred.String()
		switch predIRI {
		case rdfTypeIRI:
			classIRI := triple.Obj.String()
			subj.types = append(subj.types, classIRI)
			classMembers[classIRI] = append(classMembers[classIRI], subjIRI)
		case rdfsLabelIRI:
			subj.label = triple.Obj.String()
		}
	}

	fresh := make(map[string]model.ContentNode)

	var rootItems []model.MenuItem
	classIRIs := make([]string, 0, len(classMembers))
	for c := range classMembers {
		classIRIs = append(classIRIs, c)
	}
	sort.Strings(classIRIs)

	for _, classIRI := range classIRIs {
		classSelector := "/class/" + SafeIRI(classIRI)
		rootItems = append(rootItems, model.MenuItem{Type: model.Menu, Display: classIRI, Selector: classSelector, Host: a.NS})

		var classItems []model.MenuItem
		for _, subjIRI := range classMembers[classIRI] {
			resourceSelector := "/resource/" + SafeIRI(subjIRI)
			classItems = append(classItems, model.MenuItem{Type: model.TextFile, Display: subjIRI, Selector: resourceSelector, Host: a.NS})
		}
		fresh[classSelector] = model.NewMenu(classItems)
	}

	if a.SparqlURL != "" {
		rootItems = append(rootItems, model.MenuItem{Type: model.Search, Display: "Search", Selector: "/sparql", Host: a.NS})
	}
	fresh["/"] = model.NewMenu(rootItems)

	for subjIRI, subj := range subjects {
		fresh["/resource/"+SafeIRI(subjIRI)] = model.NewDocument(renderResource(subj), "text/plain")
	}

	s.RegisterNamespace(a.NS, false)
	s.ReplaceNamespace(a.NS, fresh)
	return nil
}

func renderResource(subj *subject) string {
	var b strings.Builder
	b.WriteString(subj.iri)
	b.WriteString("\n")
	if subj.label != "" {
		b.WriteString(rdfsLabelIRI)
		b.WriteString(" ")
		b.WriteString(subj.label)
		b.WriteString("\n")
	}
	for _, t := range subj.preds {
		predIRI := t.Pred.String()
		if predIRI == rdfsLabelIRI {
			continue
		}
		b.WriteString(predIRI)
		b.WriteString(" ")
		b.WriteString(t.Obj.String())
		b.WriteString("\n")
	}
	return b.String()
}
