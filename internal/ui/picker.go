package ui

import (
	"strings"
)

// renderPicker renders the file-picker view.
func (m Model) renderPicker() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Pick a save file"))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render("(esc to cancel)"))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	return b.String()
}

// renderPrompt renders the typed-path entry view.
func (m Model) renderPrompt() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Load a save file by path"))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render("(enter to load, esc to cancel)"))
	b.WriteString("\n\n")
	b.WriteString(m.pathInput.View())
	return b.String()
}
