package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetmon/internal/tui/theme"
)

// ShareBar renders a labeled bar for one category's share of a total.
// pct is in percent (0-100).
func ShareBar(label string, pct float64, labelW, barWidth int, color lipgloss.Color) string {
	t := theme.Active

	frac := clamp01(pct / 100)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.SurfaceBright)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(frac) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%6.2f%%", pct))
}

// ColorForUsage returns green/yellow/orange/red by how much of the
// estimate has been spent.
func ColorForUsage(used float64) lipgloss.Color {
	t := theme.Active
	switch {
	case used > 1:
		return t.Red
	case used >= 0.9:
		return t.Orange
	case used >= 0.75:
		return t.Yellow
	default:
		return t.Green
	}
}

// BudgetBar renders how much of the estimate the actual spend consumed.
// Spend past the estimate fills the bar and is reported as a percentage
// above 100.
func BudgetBar(actual, estimated float64, width int) string {
	t := theme.Active
	if estimated <= 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("no estimate to compare against")
	}

	used := actual / estimated
	color := ColorForUsage(used)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.SurfaceBright)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(clamp01(used)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%.0f%% of estimate", used*100))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
