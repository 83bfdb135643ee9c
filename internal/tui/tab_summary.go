package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetmon/internal/cli"
	"github.com/theirongolddev/budgetmon/internal/report"
	"github.com/theirongolddev/budgetmon/internal/tui/components"
	"github.com/theirongolddev/budgetmon/internal/tui/theme"
)

func (a App) renderSummaryTab(cw int) string {
	t := theme.Active
	s := a.result.Summary

	gapColor := t.Signed(s.GapAbs, false)
	gapDelta := cli.FormatPercent(s.GapPct)
	if !s.GapPctDefined {
		gapDelta = "no estimate"
	}

	metrics := []components.Metric{
		{Label: "Estimated", Value: cli.FormatCurrency(s.EstimatedTotal), Color: t.Estimated()},
		{Label: "Actual (core)", Value: cli.FormatCurrency(s.ActualTotalCore), Color: t.Actual()},
		{Label: "Actual (all)", Value: cli.FormatCurrency(s.ActualTotalFull),
			Delta: "+" + cli.FormatCurrency(s.WarrantyCost+s.AfterworkCost) + " extras"},
		{Label: "Gap", Value: cli.FormatSignedCurrency(s.GapAbs), Delta: gapDelta, Color: gapColor},
	}
	if a.isCompactLayout() {
		metrics = []components.Metric{metrics[0], metrics[2], metrics[3]}
	}

	out := components.MetricCardRow(metrics, cw) + "\n"

	if a.result.Fallback {
		msg := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No category data entered. Totals come from the lump sums.")
		return out + components.ContentCard("Cost Summary", msg, cw)
	}

	table := report.SummaryTable(a.result)
	body := renderTable(table, func(row, col int, c report.Cell) lipgloss.Color {
		// Difference is estimated minus actual: positive means under budget.
		if col >= 3 && c.Value != 0 {
			return t.Signed(c.Value, true)
		}
		return ""
	})
	return out + components.ContentCard(table.Title, body, cw)
}
