package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gvascope/gvascope/internal/gvas"
)

// headerEntry is one label/value pair of the save stats panel.
type headerEntry struct {
	label string
	value string
}

// headerEntries builds the stats panel rows. The panel always has exactly
// these four entries in this order; absent fields render as empty values.
func headerEntries(h *gvas.SaveHeader) []headerEntry {
	entries := []headerEntry{
		{label: "Magic"},
		{label: "Save game version"},
		{label: "Package file version"},
		{label: "Save game class"},
	}
	if h == nil {
		return entries
	}
	entries[0].value = h.Magic
	if h.SaveGameVersion != nil {
		entries[1].value = strconv.Itoa(*h.SaveGameVersion)
	}
	if h.PackageFileVersion != nil {
		entries[2].value = strconv.Itoa(*h.PackageFileVersion)
	}
	entries[3].value = h.SaveGameClassName
	return entries
}

// renderHeaderPanel renders the bordered save stats panel.
func (m *Model) renderHeaderPanel() string {
	styles := m.theme.Styles()

	labelStyle := styles.MutedText.Width(22)
	var b strings.Builder
	for i, e := range headerEntries(m.header) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render(e.label))
		b.WriteString(styles.Text.Render(e.value))
	}

	width := m.width - 2
	if width < 20 {
		width = 20
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Width(width).
		Render(b.String())
}
