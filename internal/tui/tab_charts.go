package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetmon/internal/cli"
	"github.com/theirongolddev/budgetmon/internal/pipeline"
	"github.com/theirongolddev/budgetmon/internal/tui/components"
	"github.com/theirongolddev/budgetmon/internal/tui/theme"
)

func (a App) renderChartsTab(cw int) string {
	t := theme.Active

	if a.result.Fallback {
		msg := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("Charts need category data. Press [e] to enter hours.")
		return components.ContentCard("Charts", msg, cw)
	}

	var b strings.Builder

	diffs := make([]components.Bar, 0, len(a.result.Variance))
	pairs := make([]components.BarPair, 0, len(a.result.Variance))
	for _, r := range a.result.Variance {
		diffs = append(diffs, components.Bar{
			Label: r.Category.String(),
			Value: r.DifferenceAbs,
			Text:  cli.FormatSignedCurrency(r.DifferenceAbs),
		})
		pairs = append(pairs, components.BarPair{
			Label:     r.Category.String(),
			Estimated: r.Estimated,
			Actual:    r.Actual,
		})
	}

	var left, right int
	if a.isCompactLayout() {
		left, right = cw, cw
	} else {
		widths := components.LayoutRow(cw, 2)
		left, right = widths[0], widths[1]
	}

	diffCard := components.ContentCard("Difference by Category (Estimated - Actual)",
		components.DivergingBarChart(diffs, components.CardInnerWidth(left), true), left)
	pairCard := components.ContentCard("Estimated vs Actual",
		components.GroupedBarChart(pairs, components.CardInnerWidth(right)), right)

	if a.isCompactLayout() {
		b.WriteString(diffCard + "\n" + pairCard)
	} else {
		b.WriteString(components.CardRow([]string{diffCard, pairCard}))
	}

	if shares := a.shareChart(cw); shares != "" {
		b.WriteString("\n")
		b.WriteString(shares)
	}
	return b.String()
}

// shareChart renders each category's share of the actual total, or "" when
// there is no positive actual spend.
func (a App) shareChart(cw int) string {
	shares := pipeline.ComputeShares(a.result.Actual)
	if len(shares) == 0 {
		return ""
	}
	t := theme.Active
	palette := []lipgloss.Color{t.Blue, t.Orange, t.Green, t.Magenta, t.Cyan, t.Yellow}

	labels := make([]string, len(shares))
	for i, s := range shares {
		labels[i] = s.Category.String()
	}
	lw := 0
	for _, l := range labels {
		lw = max(lw, lipgloss.Width(l))
	}
	barW := max(components.CardInnerWidth(cw)-lw-10, 10)

	lines := make([]string, len(shares))
	for i, s := range shares {
		lines[i] = components.ShareBar(labels[i], s.Percent, lw, barW, palette[i%len(palette)])
	}
	return components.ContentCard("Share of Actual Cost", strings.Join(lines, "\n"), cw)
}
