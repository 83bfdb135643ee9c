package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/budgetmon/internal/input"
	"github.com/theirongolddev/budgetmon/internal/model"
	"github.com/theirongolddev/budgetmon/internal/tui"
	"github.com/theirongolddev/budgetmon/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:         "tui [project.toml]",
	Short:       "Launch interactive TUI dashboard",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{interactiveAnnotation: "true"},
	RunE:        runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	// A missing file opens an empty project that [w] will create.
	path, err := projectPath(args)
	if err != nil && !errors.Is(err, errNoProject) {
		return err
	}
	var p model.Project
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if p, err = input.LoadProject(path, rates); err != nil {
				return err
			}
		}
	}

	app := tui.NewApp(p, rates, tui.Options{
		Path:      path,
		ExportDir: cfg.General.ExportDir,
		Watch:     path != "",
		Logger:    logger,
	})
	defer app.Close()
	prog := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
