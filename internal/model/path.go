// Package model holds the content engine's domain types: the
// namespace/selector Path addressing scheme, menu items, and the
// Menu/Document content node variant. These sit above gopher's wire
// model — model.MenuItem is what a namespace/selector projection looks
// like once an adapter or the router has resolved it, not what crosses
// the wire.
package model

import "strings"

// Path is a parsed namespace/selector address. The zero value is not
// meaningful; construct with ParsePath.
type Path struct {
	Namespace string
	Selector  string

	// bare records that the path was parsed from a namespace with no
	// slash at all ("local" rather than "local/"), so String can
	// re-serialise the exact form it was given.
	bare bool
}

// ParsePath splits a raw "namespace/selector" string on its first slash.
// A bare namespace with no slash gets the implicit selector "/".
func ParsePath(raw string) Path {
	if raw == "" {
		return Path{}
	}
	idx := strings.IndexByte(raw, '/')
	if idx < 0 {
		return Path{Namespace: raw, Selector: "/", bare: true}
	}
	ns, sel := raw[:idx], raw[idx:]
	if sel == "" {
		sel = "/"
	}
	return Path{Namespace: ns, Selector: sel}
}

// String reassembles the path. Parsing and re-serialising a well-formed
// path yields the same string (the round-trip invariant), including the
// bare-namespace form with no slash.
func (p Path) String() string {
	if p.Namespace == "" {
		return ""
	}
	if p.Selector == "" || p.Selector == "/" {
		if p.bare {
			return p.Namespace
		}
		return p.Namespace + "/"
	}
	return p.Namespace + p.Selector
}

// IsRoot reports whether the path names a namespace's root menu, either
// by an empty/"/" selector or by naming only the namespace.
func (p Path) IsRoot() bool {
	return p.Selector == "" || p.Selector == "/"
}

// Empty reports whether the path names no namespace at all: the
// top-level "list every namespace" request.
func (p Path) Empty() bool {
	return p.Namespace == ""
}

// Normalize applies the path-normalisation rules from the routing
// design: trim exactly one trailing slash (but never collapse a bare
// "/" selector), and report whether the selector contains a forbidden
// "//" or a ".." segment.
func Normalize(p Path) (Path, bool) {
	sel := p.Selector
	if sel == "" {
		sel = "/"
	}
	if strings.Contains(sel, "//") {
		return p, false
	}
	for _, seg := range strings.Split(sel, "/") {
		if seg == ".." {
			return p, false
		}
	}
	if len(sel) > 1 && strings.HasSuffix(sel, "/") {
		sel = strings.TrimSuffix(sel, "/")
	}
	return Path{Namespace: p.Namespace, Selector: sel, bare: p.bare}, true
}
