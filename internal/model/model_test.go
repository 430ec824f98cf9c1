package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gopherdesk/contentd/internal/model"
)

func TestPathRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, raw := range []string{"local", "local/welcome", "vault/notes/a.md", "gopher.floodgap.com/"} {
		p := model.ParsePath(raw)
		assert.Equal(raw, p.String())
	}
}

func TestParsePathBareNamespace(t *testing.T) {
	assert := assert.New(t)

	p := model.ParsePath("local")
	assert.Equal("local", p.Namespace)
	assert.Equal("/", p.Selector)
	assert.True(p.IsRoot())
	assert.Equal("local", p.String())
	assert.Equal("local/", model.ParsePath("local/").String())
}

func TestParsePathEmpty(t *testing.T) {
	p := model.ParsePath("")
	assert.True(t, p.Empty())
}

func TestNormalizeTrimsTrailingSlash(t *testing.T) {
	assert := assert.New(t)

	p, ok := model.Normalize(model.Path{Namespace: "vault", Selector: "/notes/"})
	assert.True(ok)
	assert.Equal("/notes", p.Selector)
}

func TestNormalizeKeepsBareRootSlash(t *testing.T) {
	p, ok := model.Normalize(model.Path{Namespace: "vault", Selector: "/"})
	assert.True(t, ok)
	assert.Equal(t, "/", p.Selector)
}

func TestNormalizeRejectsDoubleSlash(t *testing.T) {
	_, ok := model.Normalize(model.Path{Namespace: "vault", Selector: "/a//b"})
	assert.False(t, ok)
}

func TestNormalizeRejectsDotDot(t *testing.T) {
	_, ok := model.Normalize(model.Path{Namespace: "vault", Selector: "/a/../b"})
	assert.False(t, ok)
}

func TestMenuItemPathUsesHostWhenPresent(t *testing.T) {
	item := model.MenuItem{Type: model.Menu, Selector: "/about", Host: "gopher.floodgap.com"}
	assert.Equal(t, "gopher.floodgap.com/about", item.Path())
}

func TestMenuItemMime(t *testing.T) {
	item := model.MenuItem{Type: model.TextFile}
	assert.Equal(t, "text/plain", item.Mime())
}

func TestContentNodeVariants(t *testing.T) {
	assert := assert.New(t)

	menu := model.NewMenu([]model.MenuItem{{Type: model.Info, Display: "hi"}})
	assert.True(menu.IsMenu())
	assert.False(menu.IsDocument())

	doc := model.NewDocument("hello", "text/plain")
	assert.True(doc.IsDocument())
	assert.Equal("hello", doc.Text)
}
