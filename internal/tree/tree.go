// Package tree builds the explorable view tree from a decoded property list.
// Construction is pure: no rendering happens here. The ui package walks the
// result and draws it; the search package scans it.
package tree

import (
	"strings"

	"github.com/gvascope/gvascope/internal/gvas"
)

// placeholderLabel stands in for nodes carrying neither a name nor a type.
const placeholderLabel = "(unnamed)"

// Node is one realized entry of the view tree. It wraps a PropertyNode with
// display and interaction state: label after fallback, icon, stringified
// value, the collapsed-by-default expand flag, and parent/child links.
//
// A Node lives exactly as long as the Tree that built it; the next successful
// upload builds a fresh Tree and nothing references the old one.
type Node struct {
	ID       int    // pre-order ordinal within this build
	Label    string // name, falling back to type, falling back to a placeholder
	Type     string
	Icon     string
	Value    string // stringified scalar value, "" when absent
	HasValue bool   // distinguishes an absent value from a real empty one
	Meta     string
	Depth    int
	Expanded bool
	Parent   *Node
	Children []*Node

	searchLabel string // lower-cased label, "" when only the placeholder applies
	searchValue string // lower-cased stringified value
}

// Toggleable reports whether the node reacts to a toggle: containers open
// their children, value leaves open their synthetic value row. Bare nodes are
// labels only.
func (n *Node) Toggleable() bool {
	return len(n.Children) > 0 || n.HasValue
}

// Toggle flips only this node's own visibility flag. Descendant expand state
// is left alone so collapsing and re-expanding a branch restores whatever its
// descendants looked like.
func (n *Node) Toggle() {
	if n.Toggleable() {
		n.Expanded = !n.Expanded
	}
}

// Matches reports whether the node matches a lower-cased, non-empty query:
// a case-insensitive substring test against the display name or the
// stringified value. A node with neither never matches.
func (n *Node) Matches(lowerQuery string) bool {
	if lowerQuery == "" {
		return false
	}
	if n.searchLabel != "" && strings.Contains(n.searchLabel, lowerQuery) {
		return true
	}
	return n.HasValue && strings.Contains(n.searchValue, lowerQuery)
}

// Tree is one build of the view tree. Each call to Build produces a fresh
// Tree; callers must drop every reference into the previous one.
type Tree struct {
	roots []*Node
	nodes []*Node // pre-order; index equals Node.ID
}

// Build realizes the full view tree for the given roots, depth-first with no
// depth limit. Child order is preserved exactly. Every node starts collapsed.
func Build(roots []gvas.PropertyNode) *Tree {
	t := &Tree{}
	for i := range roots {
		t.roots = append(t.roots, t.realize(&roots[i], nil, 0))
	}
	return t
}

func (t *Tree) realize(p *gvas.PropertyNode, parent *Node, depth int) *Node {
	n := &Node{
		ID:     len(t.nodes),
		Type:   p.Type,
		Icon:   IconFor(p.Type),
		Meta:   p.Meta,
		Depth:  depth,
		Parent: parent,
	}
	t.nodes = append(t.nodes, n)

	switch {
	case p.Name != "":
		n.Label = p.Name
	case p.Type != "":
		n.Label = p.Type
	default:
		n.Label = placeholderLabel
	}
	if n.Label != placeholderLabel {
		n.searchLabel = strings.ToLower(n.Label)
	}

	if p.HasValue() {
		n.HasValue = true
		n.Value = FormatValue(p.Value)
		n.searchValue = strings.ToLower(n.Value)
	}

	for i := range p.Children {
		n.Children = append(n.Children, t.realize(&p.Children[i], n, depth+1))
	}
	return n
}

// Roots returns the top-level nodes in decoded order.
func (t *Tree) Roots() []*Node {
	return t.roots
}

// Len returns the number of realized nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// NodeByID resolves a node by its pre-order ordinal, or nil.
func (t *Tree) NodeByID(id int) *Node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// ToggleID flips the visibility flag of the node with the given ID. It is the
// command-API form of Node.Toggle and reports whether the node existed.
func (t *Tree) ToggleID(id int) bool {
	n := t.NodeByID(id)
	if n == nil {
		return false
	}
	n.Toggle()
	return true
}

// Walk visits every realized node in pre-order depth-first order, regardless
// of expansion state. This order defines search match ordering. Walk stops
// early when fn returns false.
func (t *Tree) Walk(fn func(*Node) bool) {
	var walk func(*Node) bool
	walk = func(n *Node) bool {
		if !fn(n) {
			return false
		}
		for _, c := range n.Children {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	for _, r := range t.roots {
		if !walk(r) {
			return
		}
	}
}
