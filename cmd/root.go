package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/input"
	"github.com/theirongolddev/budgetmon/internal/model"
	"github.com/theirongolddev/budgetmon/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagConfig  string
	flagVerbose bool
	flagQuiet   bool
)

// Set by PersistentPreRunE for every command.
var (
	cfg    config.Config
	rates  *config.RateTable
	logger = zap.NewNop()
)

// interactiveAnnotation marks commands that own the terminal; they get a
// no-op logger.
const interactiveAnnotation = "interactive"

var rootCmd = &cobra.Command{
	Use:               "budgetmon",
	Short:             "Project budget monitor",
	Long:              "Compare estimated and actual project costs by category, from the terminal, a dashboard or a browser.",
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) { _ = logger.Sync() },
	RunE:              runReport,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/budgetmon/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// setup loads the config, builds the rate table and the logger. An invalid
// rate table stops every command.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFrom(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	rates, err = cfg.RateTable()
	if err != nil {
		return fmt.Errorf("rate table: %w", err)
	}

	if cmd.Annotations[interactiveAnnotation] != "" {
		logger = zap.NewNop()
		return nil
	}
	logger, err = newLogger(cfg.Logging.Level, flagVerbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger.Debug("config loaded",
		zap.String("path", configPath()),
		zap.Strings("machines", rates.MachineNames()))
	return nil
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigPath()
}

var errNoProject = errors.New("no project file: pass a path or set general.default_project")

// projectPath resolves the project argument, falling back to the
// configured default.
func projectPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.General.DefaultProject != "" {
		return cfg.General.DefaultProject, nil
	}
	return "", errNoProject
}

// loadProject is the shared loading path for commands that evaluate a
// project file.
func loadProject(args []string) (model.Project, model.Result, error) {
	path, err := projectPath(args)
	if err != nil {
		return model.Project{}, model.Result{}, err
	}
	p, err := input.LoadProject(path, rates)
	if err != nil {
		return model.Project{}, model.Result{}, err
	}
	res := pipeline.Evaluate(p.Input, rates)

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loaded %s\n", path)
	}
	logger.Debug("evaluated",
		zap.String("project", p.Info.Name),
		zap.Bool("fallback", res.Fallback),
		zap.Float64("estimated_total", res.Summary.EstimatedTotal),
		zap.Float64("actual_total_full", res.Summary.ActualTotalFull),
		zap.Float64("gap_abs", res.Summary.GapAbs))
	return p, res, nil
}
