package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/budgetmon/internal/input"
	"github.com/theirongolddev/budgetmon/internal/model"
	"github.com/theirongolddev/budgetmon/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:         "new [project.toml]",
	Short:       "Create or edit a project file with an interactive form",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{interactiveAnnotation: "true"},
	RunE:        runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(_ *cobra.Command, args []string) error {
	path, err := projectPath(args)
	if err != nil {
		return err
	}

	// Start from the existing file when there is one.
	var p model.Project
	if _, statErr := os.Stat(path); statErr == nil {
		p, err = input.LoadProject(path, rates)
		if err != nil {
			return err
		}
	}

	vals := tui.NewFormValues(p, rates)
	if err := tui.NewProjectForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Cancelled.")
			return nil
		}
		return err
	}

	p, err = vals.Project()
	if err != nil {
		return err
	}
	if err := input.SaveProject(path, p); err != nil {
		return err
	}

	fmt.Printf("\n  Wrote %s\n", path)
	fmt.Println("  Run `budgetmon report " + path + "` to see the results.")
	return nil
}
