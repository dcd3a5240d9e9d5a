package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gvascope/gvascope/internal/intake"
)

// renderStatus renders the bottom status bar: intake state badge, status
// text, and key hints. Each state is visually distinct.
func (m *Model) renderStatus() string {
	styles := m.theme.Styles()

	state := m.controller.State()
	badge := styles.StateStyle(state.String()).Render(strings.ToUpper(state.String()))

	text := m.controller.Status()
	var textStyle = styles.MutedText
	switch state {
	case intake.Uploading:
		text = m.spinner.View() + " " + text
		textStyle = styles.AccentText
	case intake.Success:
		textStyle = styles.SuccessText
	case intake.Error:
		textStyle = styles.DangerText
	}

	left := badge + " " + textStyle.Render(text)
	right := styles.FaintText.Render("o open  p path  h help  q quit")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return styles.Footer.Width(m.width).Render(left)
	}
	return styles.Footer.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
