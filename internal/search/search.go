// Package search indexes a realized view tree, cycles through substring
// matches, and reveals the active match by expanding its ancestors.
package search

import (
	"strings"

	"github.com/gvascope/gvascope/internal/tree"
)

// Engine owns the match list and active cursor for one view tree. Create a
// fresh Engine whenever the tree is rebuilt; an Engine never outlives its
// tree, so no stale node references can survive an upload.
//
// Search runs a full synchronous scan on every call. Callers are expected to
// debounce typed input before invoking it; the engine does no coalescing of
// its own.
type Engine struct {
	tree    *tree.Tree
	query   string
	matches []*tree.Node
	matched map[*tree.Node]struct{}
	cursor  int // index into matches, -1 when none
	active  *tree.Node
}

// New binds an engine to a freshly built tree.
func New(t *tree.Tree) *Engine {
	return &Engine{tree: t, cursor: -1}
}

// Search recomputes the match list from scratch for the given query.
//
// An empty (or blank) query clears all match and active markings; that is
// idempotent and fully undoes prior highlighting. A non-empty query scans the
// whole realized tree in pre-order, regardless of what is currently expanded,
// and immediately activates the first match when one exists.
func (e *Engine) Search(query string) {
	e.query = query
	e.matches = nil
	e.matched = nil
	e.cursor = -1
	e.active = nil

	lowered := strings.ToLower(query)
	if strings.TrimSpace(lowered) == "" {
		e.query = ""
		return
	}

	e.matched = make(map[*tree.Node]struct{})
	e.tree.Walk(func(n *tree.Node) bool {
		if n.Matches(lowered) {
			e.matches = append(e.matches, n)
			e.matched[n] = struct{}{}
		}
		return true
	})

	if len(e.matches) > 0 {
		e.cursor = 0
		e.activate()
	}
}

// Next advances the cursor with wraparound. No-op without matches.
func (e *Engine) Next() {
	if len(e.matches) == 0 {
		return
	}
	e.cursor = (e.cursor + 1) % len(e.matches)
	e.activate()
}

// Previous retreats the cursor with wraparound: moving back from the first
// match lands on the last one. No-op without matches.
func (e *Engine) Previous() {
	if len(e.matches) == 0 {
		return
	}
	e.cursor = (e.cursor - 1 + len(e.matches)) % len(e.matches)
	e.activate()
}

// activate marks the node under the cursor active and reveals it: every
// ancestor on the path to the root is expanded (sibling subtrees untouched),
// and a value leaf additionally opens its synthetic value row.
func (e *Engine) activate() {
	n := e.matches[e.cursor]
	e.active = n
	for p := n.Parent; p != nil; p = p.Parent {
		p.Expanded = true
	}
	if n.HasValue && len(n.Children) == 0 {
		n.Expanded = true
	}
}

// Query returns the current query, "" after a clear.
func (e *Engine) Query() string { return e.query }

// Len returns the number of matches for the current query.
func (e *Engine) Len() int { return len(e.matches) }

// Cursor returns the active match index, or -1 when there is none.
func (e *Engine) Cursor() int { return e.cursor }

// Active returns the currently active match, or nil.
func (e *Engine) Active() *tree.Node { return e.active }

// IsMatch reports whether the node is in the current match list.
func (e *Engine) IsMatch(n *tree.Node) bool {
	_, ok := e.matched[n]
	return ok
}
