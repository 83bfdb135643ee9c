package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetmon/internal/cli"
	"github.com/theirongolddev/budgetmon/internal/report"

	"github.com/spf13/cobra"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the hourly rate table",
	Args:  cobra.NoArgs,
	RunE:  runRates,
}

func init() {
	rootCmd.AddCommand(ratesCmd)
}

func runRates(_ *cobra.Command, _ []string) error {
	fmt.Println()
	fmt.Print(cli.RenderTable(report.RatesTable(rates).CLI()))
	fmt.Println()
	fmt.Printf("  Categories: %d (material is entered as cost, not hours)\n", len(rates.Categories()))
	return nil
}
