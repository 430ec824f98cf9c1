package main

import (
	"testing"

	"github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"serve", "browse", "fetch", "search", "publish", "delete", "dump"}, names)
}

func TestRdfFormatDefaultsToTurtle(t *testing.T) {
	assert.Equal(t, rdf.Turtle, rdfFormat(""))
	assert.Equal(t, rdf.NTriples, rdfFormat("ntriples"))
	assert.Equal(t, rdf.RDFXML, rdfFormat("rdfxml"))
}
