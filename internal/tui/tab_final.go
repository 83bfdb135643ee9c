package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetmon/internal/report"
	"github.com/theirongolddev/budgetmon/internal/tui/components"
	"github.com/theirongolddev/budgetmon/internal/tui/theme"
)

func (a App) renderFinalTab(cw int) string {
	t := theme.Active
	s := a.result.Summary

	table := report.FinalTable(s)
	body := renderTable(table, func(row, col int, c report.Cell) lipgloss.Color {
		if col == 1 && row >= len(table.Rows)-2 && c.Value != 0 {
			return t.Signed(c.Value, false)
		}
		return ""
	})

	// Gap (%) is a ratio, not an amount, so it stays out of the bar chart.
	bars := make([]components.Bar, 0, len(table.Rows))
	for _, row := range table.Rows {
		if row[0].Text == report.ItemGapPct {
			continue
		}
		bars = append(bars, components.Bar{Label: row[0].Text, Value: row[1].Value, Text: row[1].String()})
	}

	var tableW, chartW int
	compact := a.isCompactLayout()
	if compact {
		tableW, chartW = cw, cw
	} else {
		widths := components.LayoutRow(cw, 2)
		tableW, chartW = widths[0], widths[1]
	}

	tableCard := components.ContentCard(table.Title, body, tableW)
	chartCard := components.ContentCard("Totals",
		components.HBarChart(bars, t.Accent, components.CardInnerWidth(chartW)), chartW)
	budgetCard := components.ContentCard("Budget Used",
		components.BudgetBar(s.ActualTotalFull, s.EstimatedTotal, components.CardInnerWidth(cw)-20), cw)

	if compact {
		return tableCard + "\n" + chartCard + "\n" + budgetCard
	}
	return components.CardRow([]string{tableCard, chartCard}) + "\n" + budgetCard
}
