package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/budgetmon/internal/model"
)

// Worksheet names, in workbook order.
const (
	SheetProjectInfo = "Project Info"
	SheetCostSummary = "Cost Summary"
	SheetFinal       = "Final Comparison"
)

const (
	currencyFormat = "$#,##0.00"
	percentFormat  = "0.00%"
)

// ReportFileName derives the export file name from the project name.
func ReportFileName(projectName string) string {
	name := strings.TrimSpace(projectName)
	if name == "" {
		name = "project"
	}
	return strings.ReplaceAll(name, " ", "_") + "_report.xlsx"
}

// BuildWorkbook lays out the three report sheets. The caller closes the file.
func BuildWorkbook(info model.ProjectInfo, res model.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	styles, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetProjectInfo); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	tables := []struct {
		sheet string
		table Table
	}{
		{SheetProjectInfo, ProjectInfoTable(info)},
		{SheetCostSummary, SummaryTable(res)},
		{SheetFinal, FinalTable(res.Summary)},
	}
	for i, st := range tables {
		if i > 0 {
			if _, err := f.NewSheet(st.sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("adding sheet %s: %w", st.sheet, err)
			}
		}
		if err := writeSheet(f, st.sheet, st.table, styles); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing sheet %s: %w", st.sheet, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteXLSX writes the report workbook to w.
func WriteXLSX(w io.Writer, info model.ProjectInfo, res model.Result) error {
	f, err := BuildWorkbook(info, res)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the report workbook to path.
func SaveXLSX(path string, info model.ProjectInfo, res model.Result) error {
	f, err := BuildWorkbook(info, res)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

type sheetStyles struct {
	header   int
	currency int
	percent  int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	cur := currencyFormat
	if s.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &cur}); err != nil {
		return s, fmt.Errorf("currency style: %w", err)
	}
	pct := percentFormat
	if s.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &pct}); err != nil {
		return s, fmt.Errorf("percent style: %w", err)
	}
	return s, nil
}

func writeSheet(f *excelize.File, sheet string, t Table, st sheetStyles) error {
	widths := make([]int, len(t.Headers))
	for col, h := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, st.header); err != nil {
			return err
		}
		widths[col] = len(h)
	}

	for r, row := range t.Rows {
		for col, c := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := setCell(f, sheet, cell, c, st); err != nil {
				return err
			}
			if col < len(widths) {
				widths[col] = max(widths[col], len(c.String()))
			}
		}
	}

	for col, w := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(w+2)); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet, cell string, c Cell, st sheetStyles) error {
	switch c.Kind {
	case Currency, Rate:
		if err := f.SetCellValue(sheet, cell, c.Value); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell, cell, st.currency)
	case Percent:
		// Spreadsheet percent formats expect a fraction.
		if err := f.SetCellValue(sheet, cell, c.Value/100); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell, cell, st.percent)
	}
	return f.SetCellValue(sheet, cell, c.Text)
}
