package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetmon/internal/tui/theme"
)

// Bar is one labeled value. Text is shown after the bar; empty Text
// shows the value with formatChartLabel.
type Bar struct {
	Label string
	Value float64
	Text  string
}

// BarPair holds the estimated and actual value of one category.
type BarPair struct {
	Label     string
	Estimated float64
	Actual    float64
}

const minBarWidth = 4

func labelWidth(labels []string) int {
	w := 0
	for _, l := range labels {
		w = max(w, lipgloss.Width(l))
	}
	return w
}

func barText(b Bar) string {
	if b.Text != "" {
		return b.Text
	}
	return formatChartLabel(b.Value)
}

func scaled(v, peak float64, width int) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	n := int(math.Round(v / peak * float64(width)))
	return min(n, width)
}

// HBarChart renders one horizontal bar per entry, scaled to the largest
// value. Negative values draw no bar.
func HBarChart(bars []Bar, color lipgloss.Color, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labels := make([]string, len(bars))
	texts := make([]string, len(bars))
	peak := 0.0
	for i, b := range bars {
		labels[i] = b.Label
		texts[i] = barText(b)
		peak = math.Max(peak, b.Value)
	}
	lw := labelWidth(labels)
	tw := labelWidth(texts)
	barW := max(minBarWidth, width-lw-tw-2)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		n := scaled(b.Value, peak, barW)
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", lw, b.Label)) +
			spaceStyle.Render(" ") +
			barStyle.Render(strings.Repeat("█", n)) +
			spaceStyle.Render(strings.Repeat(" ", barW-n+1)) +
			textStyle.Render(texts[i])
	}
	return strings.Join(lines, "\n")
}

// GroupedBarChart renders estimated and actual bars for each category on
// a shared scale, with a legend line on top.
func GroupedBarChart(pairs []BarPair, width int) string {
	if len(pairs) == 0 {
		return ""
	}
	t := theme.Active

	labels := make([]string, len(pairs))
	peak := 0.0
	for i, p := range pairs {
		labels[i] = p.Label
		peak = math.Max(peak, math.Max(p.Estimated, p.Actual))
	}
	lw := labelWidth(labels)
	textW := len(formatChartLabel(peak))
	barW := max(minBarWidth, width-lw-textW-2)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	estStyle := lipgloss.NewStyle().Foreground(t.Estimated()).Background(t.Surface)
	actStyle := lipgloss.NewStyle().Foreground(t.Actual()).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	row := func(label string, v float64, style lipgloss.Style) string {
		n := scaled(v, peak, barW)
		return labelStyle.Render(fmt.Sprintf("%-*s", lw, label)) +
			spaceStyle.Render(" ") +
			style.Render(strings.Repeat("█", n)) +
			spaceStyle.Render(strings.Repeat(" ", barW-n+1)) +
			dimStyle.Render(formatChartLabel(v))
	}

	var b strings.Builder
	b.WriteString(estStyle.Render("█ Estimated") + spaceStyle.Render("  ") + actStyle.Render("█ Actual"))
	for _, p := range pairs {
		b.WriteString("\n")
		b.WriteString(row(p.Label, p.Estimated, estStyle))
		b.WriteString("\n")
		b.WriteString(row("", p.Actual, actStyle))
	}
	return b.String()
}

// DivergingBarChart renders signed values around a center axis. Positive
// values grow right. positiveGood selects whether right-hand bars use the
// under-budget color.
func DivergingBarChart(bars []Bar, width int, positiveGood bool) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labels := make([]string, len(bars))
	texts := make([]string, len(bars))
	peak := 0.0
	for i, b := range bars {
		labels[i] = b.Label
		texts[i] = barText(b)
		peak = math.Max(peak, math.Abs(b.Value))
	}
	lw := labelWidth(labels)
	tw := labelWidth(texts)
	half := max(minBarWidth/2, (width-lw-tw-3)/2)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		n := scaled(math.Abs(b.Value), peak, half)
		barStyle := lipgloss.NewStyle().Foreground(t.Signed(b.Value, positiveGood)).Background(t.Surface)
		textStyle := barStyle.Bold(b.Value != 0)

		left := spaceStyle.Render(strings.Repeat(" ", half))
		right := spaceStyle.Render(strings.Repeat(" ", half))
		switch {
		case b.Value < 0:
			left = spaceStyle.Render(strings.Repeat(" ", half-n)) + barStyle.Render(strings.Repeat("█", n))
		case b.Value > 0:
			right = barStyle.Render(strings.Repeat("█", n)) + spaceStyle.Render(strings.Repeat(" ", half-n))
		}
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", lw, b.Label)) +
			spaceStyle.Render(" ") + left + axisStyle.Render("│") + right +
			spaceStyle.Render(" ") + textStyle.Render(texts[i])
	}
	return strings.Join(lines, "\n")
}

func formatChartLabel(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%s$%.1fM", sign, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s$%.1fk", sign, v/1e3)
	default:
		return fmt.Sprintf("%s$%.2f", sign, v)
	}
}
