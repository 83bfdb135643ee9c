package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/budgetmon/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	if len(got) != 3 || got[0] != 4 || got[1] != 3 || got[2] != 3 {
		t.Fatalf("LayoutRow(10, 3) = %v, want [4 3 3]", got)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow(10, 0) != nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	// Padding under the short card must still carry background styling.
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI codes: %q", i, lines[i])
		}
	}

	w := lipgloss.Width(lines[0])
	for i, line := range lines {
		if got := lipgloss.Width(line); got != w {
			t.Errorf("line %d width = %d, want %d", i, got, w)
		}
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		bar := RenderTabBar(active, 0)
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1
		if got := lipgloss.Width(bar); got != want {
			t.Errorf("active=%d: bar width = %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('f'); got != 2 {
		t.Fatalf("TabIdxByKey(f) = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey(z) = %d, want -1", got)
	}
}

func TestDivergingBarChart(t *testing.T) {
	out := DivergingBarChart([]Bar{
		{Label: "Material", Value: 50},
		{Label: "CNC", Value: -100},
	}, 40, true)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	for i, line := range lines {
		axis := strings.Index(line, "│")
		if axis < 0 {
			t.Fatalf("line %d missing axis", i)
		}
		left, right := strings.Count(line[:axis], "█"), strings.Count(line[axis:], "█")
		switch i {
		case 0:
			if left != 0 || right == 0 {
				t.Errorf("positive row: left=%d right=%d", left, right)
			}
		case 1:
			if right != 0 || left == 0 {
				t.Errorf("negative row: left=%d right=%d", left, right)
			}
		}
	}
}

func TestHBarChart_ScalesToPeak(t *testing.T) {
	out := HBarChart([]Bar{
		{Label: "a", Value: 100, Text: "x"},
		{Label: "b", Value: 50, Text: "y"},
		{Label: "c", Value: -10, Text: "z"},
	}, theme.Active.Blue, 24)

	lines := strings.Split(out, "\n")
	full := strings.Count(lines[0], "█")
	half := strings.Count(lines[1], "█")
	if full == 0 || half*2 < full-1 || half*2 > full+1 {
		t.Fatalf("bar lengths full=%d half=%d", full, half)
	}
	if strings.Contains(lines[2], "█") {
		t.Fatalf("negative value drew a bar: %q", lines[2])
	}
}

func TestColorForUsage(t *testing.T) {
	th := theme.Active
	if ColorForUsage(0.5) != th.Green || ColorForUsage(0.95) != th.Orange || ColorForUsage(1.2) != th.Red {
		t.Fatal("ColorForUsage thresholds changed")
	}
}
