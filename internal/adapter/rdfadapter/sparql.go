package rdfadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gopherdesk/contentd/internal/model"
)

const sparqlTimeout = 10 * time.Second

// sparqlResults is the subset of the SPARQL 1.1 JSON results format this
// adapter needs: one bound variable "subject" per matching row.
type sparqlResults struct {
	Results struct {
		Bindings []struct {
			Subject struct {
				Value string `json:"value"`
			} `json:"subject"`
		} `json:"bindings"`
	} `json:"results"`
}

// Search issues "subjects whose rdfs:label contains query
// (case-insensitive)" against SparqlURL when configured. It is claimed
// only when a SPARQL endpoint is configured; timeouts or transport
// errors degrade to unclaimed so the router falls back to generic
// filtering.
func (a *Adapter) Search(ctx context.Context, selector, query string) ([]model.MenuItem, bool, error) {
	if a.SparqlURL == "" {
		return nil, false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, sparqlTimeout)
	defer cancel()

	q := fmt.Sprintf(
		`SELECT ?subject WHERE { ?subject <%s> ?label . FILTER(CONTAINS(LCASE(STR(?label)), LCASE("%s"))) }`,
		rdfsLabelIRI, escapeSparqlString(query),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.SparqlURL+"?query="+url.QueryEscape(q), nil)
	if err != nil {
		a.log.WithError(err).Debug("sparql request build failed, falling back to generic filtering")
		return nil, false, nil
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.log.WithError(err).Debug("sparql request failed, falling back to generic filtering")
		return nil, false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.log.WithField("status", resp.StatusCode).Debug("sparql endpoint returned non-200, falling back to generic filtering")
		return nil, false, nil
	}

	var results sparqlResults
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		a.log.WithError(err).Debug("sparql response decode failed, falling back to generic filtering")
		return nil, false, nil
	}

	items := make([]model.MenuItem, 0, len(results.Results.Bindings))
	for _, b := range results.Results.Bindings {
		items = append(items, model.MenuItem{
			Type:     model.TextFile,
			Display:  b.Subject.Value,
			Selector: "/resource/" + SafeIRI(b.Subject.Value),
			Host:     a.NS,
		})
	}
	return items, true, nil
}

func escapeSparqlString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
