package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gvascope/gvascope/internal/tree"
)

// renderMain composes the primary screen: header panel, search bar, tree
// viewport and status bar.
func (m *Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeaderPanel())
	b.WriteString("\n")
	b.WriteString(m.renderSearchBar())
	b.WriteString("\n")
	if m.overlay.Visible() {
		b.WriteString(m.renderOverlayBanner())
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

// renderTreeContent rebuilds the viewport content from the visible rows.
func (m *Model) renderTreeContent() {
	if len(m.rows) == 0 {
		styles := m.theme.Styles()
		m.viewport.SetContent(styles.FaintText.Render("  (no properties loaded)"))
		return
	}

	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		lines = append(lines, m.renderRow(r, i == m.cursor))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) renderRow(r row, selected bool) string {
	styles := m.theme.Styles()
	indent := strings.Repeat("  ", r.node.Depth)

	if r.pseudo {
		line := indent + "    " + tree.EqualsIcon + " " + r.node.Value
		if selected {
			return styles.Selected.Render(line)
		}
		return styles.InfoText.Render(line)
	}

	marker := " "
	if r.node.Toggleable() {
		if r.node.Expanded {
			marker = "▾"
		} else {
			marker = "▸"
		}
	}

	label := r.node.Label

	if selected {
		// A single style so the selection background covers the line.
		plain := indent + marker + " " + r.node.Icon + " " + label
		if r.node.Meta != "" {
			plain += " [" + r.node.Meta + "]"
		}
		return styles.Selected.Render(plain)
	}

	labelStyle := styles.Text
	switch {
	case m.engine != nil && m.engine.Active() == r.node:
		labelStyle = styles.ActiveMatch
	case m.engine != nil && m.engine.IsMatch(r.node):
		labelStyle = styles.Match
	}

	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(styles.FaintText.Render(marker))
	b.WriteString(" ")
	b.WriteString(styles.AccentText.Render(r.node.Icon))
	b.WriteString(" ")
	b.WriteString(labelStyle.Render(label))
	if r.node.Meta != "" {
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render("[" + r.node.Meta + "]"))
	}
	return b.String()
}

// renderSearchBar shows the live input while searching, the committed query
// and match counter otherwise.
func (m *Model) renderSearchBar() string {
	styles := m.theme.Styles()

	if m.mode == modeSearch {
		return m.searchInput.View()
	}

	q := m.query()
	if q == "" {
		return styles.FaintText.Render("  / to search")
	}

	counter := "no matches"
	if m.engine.Len() > 0 {
		counter = fmt.Sprintf("%d/%d", m.engine.Cursor()+1, m.engine.Len())
	}
	return styles.AccentText.Render("/"+q) + "  " + styles.MutedText.Render(counter) +
		"  " + styles.FaintText.Render("n/N cycle, esc clear")
}

// renderOverlayBanner renders the drop-activity banner shown while the drop
// directory has unsettled files.
func (m *Model) renderOverlayBanner() string {
	banner := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Foreground(lipgloss.Color(m.theme.Accent)).
		Padding(0, 2).
		Render("Drop a save file…")

	return lipgloss.Place(
		m.width,
		m.viewport.Height,
		lipgloss.Center,
		lipgloss.Center,
		banner,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
