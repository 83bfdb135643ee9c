package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/budgetmon/internal/cli"
	"github.com/theirongolddev/budgetmon/internal/model"
	"github.com/theirongolddev/budgetmon/internal/pipeline"
	"github.com/theirongolddev/budgetmon/internal/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [project.toml]",
	Short: "Print the cost report for a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

const barWidth = 30

func runReport(_ *cobra.Command, args []string) error {
	p, res, err := loadProject(args)
	if err != nil {
		return err
	}

	title := "BUDGET REPORT"
	if p.Info.Name != "" {
		title += "  " + p.Info.Name
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Print(cli.RenderTable(report.ProjectInfoTable(p.Info).CLI()))
	fmt.Println()
	fmt.Print(cli.RenderTable(quantitiesTable(p.Input)))
	fmt.Println()

	if res.Fallback {
		fmt.Println(cli.Muted("  No category data entered. Totals come from the lump sums."))
		fmt.Println()
	} else {
		fmt.Print(cli.RenderTable(report.SummaryTable(res).CLI()))
		fmt.Println()
		printDifferenceBars(res.Variance)
		printPairedBars(res.Variance)
		printShares(res.Actual)
	}

	fmt.Print(cli.RenderTable(finalTable(res.Summary)))
	fmt.Println()
	printGap(res.Summary)
	fmt.Println()

	fmt.Print(cli.RenderTable(report.RatesTable(rates).CLI()))
	return nil
}

// quantitiesTable lists what was entered for each scenario, before rates.
func quantitiesTable(in model.EvaluationInput) cli.Table {
	row := func(label string, est, act float64, format func(float64) string) []string {
		return []string{label, format(est), format(act)}
	}
	t := cli.Table{
		Title:   "Entered Quantities",
		Headers: []string{"Item", "Estimated", "Actual"},
		Rows: [][]string{
			row(model.LaborWorker.String(), in.Estimated.LaborWorkerHours, in.Actual.LaborWorkerHours, cli.FormatHours),
			row(model.LaborOffice.String(), in.Estimated.LaborOfficeHours, in.Actual.LaborOfficeHours, cli.FormatHours),
		},
	}
	for _, name := range rates.MachineNames() {
		t.Rows = append(t.Rows, row(name, in.Estimated.Hours(name), in.Actual.Hours(name), cli.FormatHours))
	}
	t.Rows = append(t.Rows,
		row(model.Material.String(), in.Estimated.MaterialCost, in.Actual.MaterialCost, cli.FormatCurrency),
		cli.Separator,
		[]string{"Warranty Cost", "-", cli.FormatCurrency(in.Extras.WarrantyCost)},
		[]string{"Afterwork Cost", "-", cli.FormatCurrency(in.Extras.AfterworkCost)},
	)
	if ls := in.Fallback; ls != nil {
		t.Rows = append(t.Rows, cli.Separator,
			[]string{"Lump Sum", cli.FormatCurrency(ls.SoldPrice), cli.FormatCurrency(ls.ActualCost)})
	}
	return t
}

// finalTable adds a rule before the gap rows.
func finalTable(s model.FinalSummary) cli.Table {
	t := report.FinalTable(s).CLI()
	rows := make([][]string, 0, len(t.Rows)+1)
	for _, row := range t.Rows {
		if row[0] == report.ItemGapAbs {
			rows = append(rows, cli.Separator)
		}
		rows = append(rows, row)
	}
	t.Rows = rows
	return t
}

func categoryLabelWidth(rows []model.VarianceRow) int {
	w := 0
	for _, r := range rows {
		w = max(w, lipgloss.Width(r.Category.String()))
	}
	return w
}

func printDifferenceBars(rows []model.VarianceRow) {
	if len(rows) == 0 {
		return
	}
	peak := 0.0
	for _, r := range rows {
		peak = math.Max(peak, math.Abs(r.DifferenceAbs))
	}
	lw := categoryLabelWidth(rows)

	fmt.Println(cli.Header("  Difference by Category (Estimated - Actual)"))
	for _, r := range rows {
		fmt.Println(cli.RenderDivergingBar(r.Category.String(), lw, r.DifferenceAbs, peak, barWidth/2, true,
			cli.FormatSignedCurrency(r.DifferenceAbs)))
	}
	fmt.Println()
}

func printPairedBars(rows []model.VarianceRow) {
	peak := 0.0
	for _, r := range rows {
		peak = math.Max(peak, math.Max(r.Estimated, r.Actual))
	}
	if peak <= 0 {
		return
	}
	lw := categoryLabelWidth(rows)

	fmt.Println(cli.Header("  Estimated vs Actual") + cli.Muted("  (top: estimated, bottom: actual)"))
	for _, r := range rows {
		fmt.Println(cli.RenderPairedBars(r.Category.String(), lw, r.Estimated, r.Actual, peak, barWidth))
	}
	fmt.Println()
}

func printShares(b model.CostBreakdown) {
	shares := pipeline.ComputeShares(b)
	if len(shares) == 0 {
		return
	}
	lw := 0
	for _, s := range shares {
		lw = max(lw, lipgloss.Width(s.Category.String()))
	}

	fmt.Println(cli.Header("  Share of Actual Cost"))
	for _, s := range shares {
		fmt.Println(cli.RenderHorizontalBar(s.Category.String(), lw, s.Percent, 100, barWidth, cli.FormatPercent(s.Percent)))
	}
	fmt.Println()
}

func printGap(s model.FinalSummary) {
	var verdict string
	switch {
	case s.GapAbs > 0:
		verdict = "over budget by " + cli.FormatCurrency(s.GapAbs)
	case s.GapAbs < 0:
		verdict = "under budget by " + cli.FormatCurrency(-s.GapAbs)
	default:
		verdict = "on budget"
	}
	if s.GapPctDefined {
		verdict += fmt.Sprintf(" (%s)", strings.TrimPrefix(cli.FormatPercent(s.GapPct), "-"))
	}
	fmt.Println("  " + cli.StyleSigned(verdict, s.GapAbs, false))
}
