// Package cmd implements the budgetmon CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/budgetmon/internal/cli"
	"github.com/theirongolddev/budgetmon/internal/config"

	"github.com/spf13/cobra"
)

var flagConfigInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigInit, "init", false, "Write the default config file if none exists")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	path := configPath()
	if flagConfigInit {
		return initConfig(path)
	}
	fmt.Printf("  Config file: %s\n", path)
	exists := config.Exists()
	if flagConfig != "" {
		_, err := os.Stat(flagConfig)
		exists = err == nil
	}
	if exists {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.DefaultProject != "" {
		fmt.Printf("    Default project: %s\n", cfg.General.DefaultProject)
	} else {
		fmt.Println("    Default project: not set")
	}
	exportDir := cfg.General.ExportDir
	if exportDir == "" {
		exportDir = "."
	}
	fmt.Printf("    Export directory: %s\n", exportDir)
	fmt.Println()

	fmt.Println("  [Rates]")
	fmt.Printf("    Labor (Worker): %s\n", cli.FormatRate(rates.LaborWorker()))
	fmt.Printf("    Labor (Office): %s\n", cli.FormatRate(rates.LaborOffice()))
	for _, m := range rates.Machines() {
		fmt.Printf("    %-14s  %s\n", m.Name+":", cli.FormatRate(m.Rate))
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", config.ListenAddr(cfg))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	level := cfg.Logging.Level
	if flagVerbose {
		level = "debug (--verbose)"
	}
	fmt.Printf("    Level: %s\n", level)
	fmt.Println()

	fmt.Printf("  Edit %s to change rates.\n", path)
	return nil
}

func initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("  Config already exists: %s\n", path)
		return nil
	}
	var err error
	if flagConfig != "" {
		err = config.SaveTo(path, config.DefaultConfig())
	} else {
		err = config.Save(config.DefaultConfig())
	}
	if err != nil {
		return err
	}
	fmt.Printf("  Wrote default config to %s\n", path)
	return nil
}
