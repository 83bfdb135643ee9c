package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/model"
	"github.com/theirongolddev/budgetmon/internal/pipeline"
)

func sampleResult(t *testing.T) (model.ProjectInfo, model.Result) {
	t.Helper()
	rt, err := config.NewRateTable(13.41, 31.25, []config.MachineRate{{Name: "CNC", Rate: 18.33}})
	if err != nil {
		t.Fatal(err)
	}
	in := model.EvaluationInput{
		Estimated: model.Snapshot{LaborWorkerHours: 10, LaborOfficeHours: 5, MachineHours: map[string]float64{"CNC": 2}, MaterialCost: 100},
		Actual:    model.Snapshot{LaborWorkerHours: 12, LaborOfficeHours: 5, MachineHours: map[string]float64{"CNC": 3}, MaterialCost: 95.5},
		Extras:    model.Extras{WarrantyCost: 20, AfterworkCost: 10},
	}
	info := model.ProjectInfo{
		Name:      "Hull Mould",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
	}
	return info, pipeline.Evaluate(in, rt)
}

func TestReportFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hull Mould", "Hull_Mould_report.xlsx"},
		{"  Deck  Rev 2 ", "Deck__Rev_2_report.xlsx"},
		{"", "project_report.xlsx"},
	}
	for _, tt := range tests {
		if got := ReportFileName(tt.in); got != tt.want {
			t.Errorf("ReportFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummaryTable(t *testing.T) {
	_, res := sampleResult(t)
	got := SummaryTable(res).Strings()
	want := [][]string{
		{"Labor - Worker", "$134.10", "$160.92", "-$26.82", "-20.00%"},
		{"Labor - Office", "$156.25", "$156.25", "$0.00", "0.00%"},
		{"Material", "$100.00", "$95.50", "$4.50", "4.50%"},
		{"CNC", "$36.66", "$54.99", "-$18.33", "-50.00%"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFinalTable(t *testing.T) {
	_, res := sampleResult(t)
	got := FinalTable(res.Summary).Strings()
	want := [][]string{
		{ItemEstimatedTotal, "$427.01"},
		{ItemActualTotalCore, "$467.66"},
		{ItemWarrantyCost, "$20.00"},
		{ItemAfterworkCost, "$10.00"},
		{ItemActualTotalFull, "$497.66"},
		{ItemGapAbs, "$70.65"},
		{ItemGapPct, "16.55%"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("final rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRatesTable(t *testing.T) {
	got := RatesTable(config.DefaultRateTable()).Strings()
	want := [][]string{
		{"Labor (Worker)", "$10.00/h"},
		{"Labor (Office)", "$10.00/h"},
		{"CNC", "$10.00/h"},
		{"Robot", "$10.00/h"},
		{"Autoclave", "$10.00/h"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rates rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteXLSX(t *testing.T) {
	info, res := sampleResult(t)

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, info, res); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff([]string{SheetProjectInfo, SheetCostSummary, SheetFinal}, f.GetSheetList()); diff != "" {
		t.Fatalf("sheet list mismatch (-want +got):\n%s", diff)
	}

	raw := excelize.Options{RawCellValue: true}
	checks := []struct {
		sheet, cell, want string
	}{
		{SheetProjectInfo, "A2", "Project Name"},
		{SheetProjectInfo, "B2", "Hull Mould"},
		{SheetProjectInfo, "B3", "2026-03-01"},
		{SheetProjectInfo, "B4", "2026-04-15"},
		{SheetCostSummary, "A1", "Category"},
		{SheetCostSummary, "E1", "Difference (%)"},
		{SheetCostSummary, "A5", "CNC"},
		{SheetCostSummary, "B2", "134.1"},
		{SheetCostSummary, "E2", "-0.2"},
		{SheetFinal, "A8", ItemGapPct},
		{SheetFinal, "B2", "427.01"},
		{SheetFinal, "B7", "70.65"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue(c.sheet, c.cell, raw)
		if err != nil {
			t.Fatalf("GetCellValue(%s!%s): %v", c.sheet, c.cell, err)
		}
		if got != c.want {
			t.Errorf("%s!%s = %q, want %q", c.sheet, c.cell, got, c.want)
		}
	}
}

func TestWriteXLSX_FallbackHasHeadersOnly(t *testing.T) {
	res := pipeline.Evaluate(model.EvaluationInput{Fallback: &model.LumpSum{SoldPrice: 500, ActualCost: 600}}, config.DefaultRateTable())

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, model.ProjectInfo{Name: "Quote"}, res); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetCostSummary)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("Cost Summary rows = %d, want header only", len(rows))
	}
	gap, err := f.GetCellValue(SheetFinal, "B8", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatal(err)
	}
	if gap != "0.2" {
		t.Fatalf("Gap (%%) raw = %q, want 0.2", gap)
	}
}
