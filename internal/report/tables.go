// Package report builds the tabular views of an evaluation result that the
// terminal, HTML and spreadsheet outputs share.
package report

import (
	"github.com/theirongolddev/budgetmon/internal/cli"
	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/model"
)

// Kind selects how a cell value is formatted.
type Kind int

const (
	Text Kind = iota
	Currency
	Percent
	Rate
)

// Cell is one table value. Numeric cells keep the raw number so the
// spreadsheet can store it unformatted.
type Cell struct {
	Kind  Kind
	Text  string
	Value float64
}

// String formats the cell for display.
func (c Cell) String() string {
	switch c.Kind {
	case Currency:
		return cli.FormatCurrency(c.Value)
	case Percent:
		return cli.FormatPercent(c.Value)
	case Rate:
		return cli.FormatRate(c.Value)
	}
	return c.Text
}

// Numeric reports whether the cell holds a number.
func (c Cell) Numeric() bool { return c.Kind != Text }

func text(s string) Cell { return Cell{Kind: Text, Text: s} }
func currency(v float64) Cell { return Cell{Kind: Currency, Value: v} }
func percent(v float64) Cell { return Cell{Kind: Percent, Value: v} }
func hourlyRate(v float64) Cell { return Cell{Kind: Rate, Value: v} }

// Table is a titled grid of cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]Cell
}

// Strings returns the table formatted for text output.
func (t Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = c.String()
		}
	}
	return out
}

// CLI converts the table for cli.RenderTable.
func (t Table) CLI() cli.Table {
	return cli.Table{Title: t.Title, Headers: t.Headers, Rows: t.Strings()}
}

// Final comparison item labels.
const (
	ItemEstimatedTotal  = "Estimated Total"
	ItemActualTotalCore = "Actual Total (No Warranty/Afterwork)"
	ItemWarrantyCost    = "Warranty Cost"
	ItemAfterworkCost   = "Afterwork Cost"
	ItemActualTotalFull = "Actual Total (All Included)"
	ItemGapAbs          = "Gap (USD)"
	ItemGapPct          = "Gap (%)"
)

// ProjectInfoTable lists the project metadata.
func ProjectInfoTable(info model.ProjectInfo) Table {
	return Table{
		Title:   "Project Info",
		Headers: []string{"Field", "Value"},
		Rows: [][]Cell{
			{text("Project Name"), text(info.Name)},
			{text("Start Date"), text(cli.FormatDate(info.StartDate))},
			{text("End Date"), text(cli.FormatDate(info.EndDate))},
		},
	}
}

// SummaryTable lists the per-category variance rows.
func SummaryTable(res model.Result) Table {
	t := Table{
		Title:   "Cost Summary",
		Headers: []string{"Category", "Estimated (USD)", "Actual (USD)", "Difference (USD)", "Difference (%)"},
		Rows:    make([][]Cell, 0, len(res.Variance)),
	}
	for _, r := range res.Variance {
		t.Rows = append(t.Rows, []Cell{
			text(r.Category.String()),
			currency(r.Estimated),
			currency(r.Actual),
			currency(r.DifferenceAbs),
			percent(r.DifferencePct),
		})
	}
	return t
}

// FinalTable lists the scenario totals and the final gap.
func FinalTable(s model.FinalSummary) Table {
	return Table{
		Title:   "Final Comparison",
		Headers: []string{"Item", "Value"},
		Rows: [][]Cell{
			{text(ItemEstimatedTotal), currency(s.EstimatedTotal)},
			{text(ItemActualTotalCore), currency(s.ActualTotalCore)},
			{text(ItemWarrantyCost), currency(s.WarrantyCost)},
			{text(ItemAfterworkCost), currency(s.AfterworkCost)},
			{text(ItemActualTotalFull), currency(s.ActualTotalFull)},
			{text(ItemGapAbs), currency(s.GapAbs)},
			{text(ItemGapPct), percent(s.GapPct)},
		},
	}
}

// RatesTable lists the fixed unit costs.
func RatesTable(rt *config.RateTable) Table {
	t := Table{
		Title:   "Fixed Unit Costs",
		Headers: []string{"Item", "Rate"},
		Rows: [][]Cell{
			{text("Labor (Worker)"), hourlyRate(rt.LaborWorker())},
			{text("Labor (Office)"), hourlyRate(rt.LaborOffice())},
		},
	}
	for _, m := range rt.Machines() {
		t.Rows = append(t.Rows, []Cell{text(m.Name), hourlyRate(m.Rate)})
	}
	return t
}
