package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetmon/internal/report"
	"github.com/theirongolddev/budgetmon/internal/tui/theme"
)

// cellColorFunc picks a foreground for a body cell. An empty color keeps
// the default.
type cellColorFunc func(row, col int, c report.Cell) lipgloss.Color

// renderTable draws t without borders for use inside a ContentCard.
// Numeric columns are right-aligned.
func renderTable(t report.Table, color cellColorFunc) string {
	th := theme.Active
	rows := t.Strings()

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, s := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(s))
			}
		}
	}

	headStyle := lipgloss.NewStyle().Foreground(th.Accent).Background(th.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(th.TextPrimary).Background(th.Surface)
	ruleStyle := lipgloss.NewStyle().Foreground(th.Border).Background(th.Surface)
	gap := lipgloss.NewStyle().Background(th.Surface).Render("  ")

	var b strings.Builder
	for i, h := range t.Headers {
		if i > 0 {
			b.WriteString(gap)
		}
		b.WriteString(headStyle.Width(widths[i]).Render(h))
	}
	b.WriteString("\n")

	total := 0
	for _, w := range widths {
		total += w
	}
	total += 2 * max(len(widths)-1, 0)
	b.WriteString(ruleStyle.Render(strings.Repeat("─", total)))

	for r, row := range t.Rows {
		b.WriteString("\n")
		for i, c := range row {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				b.WriteString(gap)
			}
			st := cellStyle.Width(widths[i])
			if c.Numeric() {
				st = st.Align(lipgloss.Right)
			}
			if color != nil {
				if fg := color(r, i, c); fg != "" {
					st = st.Foreground(fg)
				}
			}
			b.WriteString(st.Render(rows[r][i]))
		}
	}
	return b.String()
}
