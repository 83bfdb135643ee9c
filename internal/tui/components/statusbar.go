package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetmon/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar. message, when set,
// replaces the project label on the right.
func RenderStatusBar(width int, project, message string, messageIsError bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	left := " [e]dit  [x]port  [w]rite  [?]help  [q]uit"
	right := project
	rightStyle := style
	if message != "" {
		right = message
		rightStyle = style.Foreground(t.Green)
		if messageIsError {
			rightStyle = style.Foreground(t.Red)
		}
	}
	right += " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return style.Render(left) +
		style.Width(padding).Render("") +
		rightStyle.Render(right)
}
