package model

import "github.com/gopherdesk/contentd/gopher"

// ItemType is an alias of gopher.ItemType, re-exported here so that
// model callers never need to import the wire package directly.
type ItemType = gopher.ItemType

const (
	TextFile = gopher.TextFile
	Menu     = gopher.Menu
	Search   = gopher.Search
	Binary   = gopher.Binary
	Gif      = gopher.Gif
	Image    = gopher.Image
	Html     = gopher.Html
	Info     = gopher.Info
)

// MenuItem is one entry in a projected menu.
type MenuItem struct {
	Type     ItemType
	Display  string
	Selector string
	Host     string
	Port     int
}

// Path computes the navigable path for this item: "host/selector" for
// items naming a remote host or adapter-owned namespace, which is the
// same shape since namespaces and hosts share the same addressing rule.
func (m MenuItem) Path() string {
	if m.Host == "" {
		return m.Selector
	}
	sel := m.Selector
	if sel == "" {
		sel = "/"
	}
	return m.Host + sel
}

// Mime derives the MIME hint callers should associate with this item.
func (m MenuItem) Mime() string {
	return ItemType(m.Type).MimeHint()
}

// NodeKind discriminates the two ContentNode variants.
type NodeKind int

const (
	KindMenu NodeKind = iota
	KindDocument
)

// ContentNode is either a Menu (ordered MenuItems) or a Document (text
// plus a MIME hint). Exactly one of Items/Text is meaningful, selected
// by Kind.
type ContentNode struct {
	Kind  NodeKind
	Items []MenuItem
	Text  string
	Mime  string
}

// NewMenu builds a Menu-kind node from an ordered item sequence.
func NewMenu(items []MenuItem) ContentNode {
	return ContentNode{Kind: KindMenu, Items: items}
}

// NewDocument builds a Document-kind node.
func NewDocument(text, mime string) ContentNode {
	return ContentNode{Kind: KindDocument, Text: text, Mime: mime}
}

func (n ContentNode) IsMenu() bool     { return n.Kind == KindMenu }
func (n ContentNode) IsDocument() bool { return n.Kind == KindDocument }
