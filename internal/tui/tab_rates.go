package tui

import (
	"github.com/theirongolddev/budgetmon/internal/report"
	"github.com/theirongolddev/budgetmon/internal/tui/components"
)

func (a App) renderRatesTab(cw int) string {
	rates := report.RatesTable(a.rates)
	info := report.ProjectInfoTable(a.project.Info)

	if a.isCompactLayout() {
		return components.ContentCard(info.Title, renderTable(info, nil), cw) + "\n" +
			components.ContentCard(rates.Title, renderTable(rates, nil), cw)
	}

	widths := components.LayoutRow(cw, 2)
	return components.CardRow([]string{
		components.ContentCard(info.Title, renderTable(info, nil), widths[0]),
		components.ContentCard(rates.Title, renderTable(rates, nil), widths[1]),
	})
}
