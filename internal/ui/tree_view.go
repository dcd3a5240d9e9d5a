package ui

import (
	"github.com/gvascope/gvascope/internal/tree"
)

// row is one visible line of the tree view. A pseudo row is the synthetic
// value line shown under an expanded value leaf.
type row struct {
	node   *tree.Node
	pseudo bool
}

// chromeHeight is the vertical space taken by the header panel, the search
// bar and the status bar around the tree viewport.
const chromeHeight = 8

func treeHeight(total int) int {
	h := total - chromeHeight
	if h < 3 {
		return 3
	}
	return h
}

// flattenVisible projects the tree onto the visible row list: every node
// whose ancestors are all expanded, in pre-order, with a pseudo value row
// under each expanded value leaf.
func flattenVisible(t *tree.Tree) []row {
	if t == nil {
		return nil
	}
	var rows []row
	var visit func(n *tree.Node)
	visit = func(n *tree.Node) {
		rows = append(rows, row{node: n})
		if !n.Expanded {
			return
		}
		if n.HasValue && len(n.Children) == 0 {
			rows = append(rows, row{node: n, pseudo: true})
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, r := range t.Roots() {
		visit(r)
	}
	return rows
}

func (m *Model) refreshRows() {
	m.rows = flattenVisible(m.tree)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.ready {
		m.renderTreeContent()
	}
}

// rowIndexOf finds the visible row of a node. Pseudo rows are not addressed.
func (m *Model) rowIndexOf(n *tree.Node) int {
	for i, r := range m.rows {
		if r.node == n && !r.pseudo {
			return i
		}
	}
	return -1
}

func (m *Model) toggleAtCursor() {
	if m.cursor >= len(m.rows) {
		return
	}
	r := m.rows[m.cursor]
	if r.pseudo {
		// Toggling the value row collapses its owner.
		r.node.Toggle()
		m.cursor--
	} else {
		r.node.Toggle()
	}
	m.refreshRows()
	m.scrollToCursor()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

// scrollToCursor keeps the cursor row inside the viewport.
func (m *Model) scrollToCursor() {
	if !m.ready {
		return
	}
	m.renderTreeContent()
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	if m.cursor < top {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor > bottom {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}
