package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/theirongolddev/budgetmon/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export [project.toml]",
	Short: "Write the XLSX cost report",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Output file (default <project>_report.xlsx in general.export_dir)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	p, res, err := loadProject(args)
	if err != nil {
		return err
	}

	out := flagExportOut
	if out == "" {
		out = filepath.Join(cfg.General.ExportDir, report.ReportFileName(p.Info.Name))
	}
	if err := report.SaveXLSX(out, p.Info, res); err != nil {
		return err
	}

	logger.Info("report exported", zap.String("project", p.Info.Name), zap.String("path", out))
	fmt.Printf("  Wrote %s\n", out)
	return nil
}
