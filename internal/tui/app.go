// Package tui provides the interactive Bubble Tea dashboard for budgetmon.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/input"
	"github.com/theirongolddev/budgetmon/internal/model"
	"github.com/theirongolddev/budgetmon/internal/pipeline"
	"github.com/theirongolddev/budgetmon/internal/report"
	"github.com/theirongolddev/budgetmon/internal/tui/components"
	"github.com/theirongolddev/budgetmon/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// exportDoneMsg is sent when a background XLSX export finishes.
type exportDoneMsg struct {
	Path string
	Err  error
}

// savedMsg is sent when the project file has been written.
type savedMsg struct {
	Path string
	Err  error
}

// Options configures the dashboard.
type Options struct {
	// Path is where [w] writes the project. Empty disables saving.
	Path string
	// ExportDir is where [x] writes the workbook. Empty means the current directory.
	ExportDir string
	// Watch reloads the project when Path changes on disk.
	Watch  bool
	Logger *zap.Logger
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	rates   *config.RateTable
	project model.Project
	result  model.Result
	dirty   bool

	path      string
	exportDir string
	log       *zap.Logger
	watcher   *projectWatcher

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Editor (huh form)
	editForm *huh.Form
	editVals *FormValues

	// Status line message
	status    string
	statusErr bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160

	minContentHeight = 5
)

// NewApp creates the dashboard for one project.
func NewApp(p model.Project, rt *config.RateTable, opts Options) App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	a := App{
		rates:     rt,
		project:   p,
		path:      opts.Path,
		exportDir: opts.ExportDir,
		log:       log,
	}
	a.recompute()

	if opts.Watch && opts.Path != "" {
		w, err := newProjectWatcher(opts.Path, rt)
		if err != nil {
			log.Warn("file watch disabled", zap.Error(err))
			a.setStatus("file watch disabled", true)
		} else {
			a.watcher = w
		}
	}
	return a
}

// Close releases the file watcher, if any.
func (a App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Close()
}

// Result returns the current evaluation.
func (a App) Result() model.Result { return a.result }

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.watcher != nil {
		return tea.Batch(tea.EnableMouseCellMotion, a.watcher.wait())
	}
	return tea.EnableMouseCellMotion
}

// recompute evaluates the current project input.
func (a *App) recompute() {
	a.result = pipeline.Evaluate(a.project.Input, a.rates)
	a.log.Debug("evaluated",
		zap.String("project", a.project.Info.Name),
		zap.Bool("fallback", a.result.Fallback),
		zap.Float64("gap_abs", a.result.Summary.GapAbs))
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.editForm != nil {
			a.editForm = a.editForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case exportDoneMsg:
		if msg.Err != nil {
			a.log.Warn("export failed", zap.Error(msg.Err))
			a.setStatus("export failed: "+msg.Err.Error(), true)
		} else {
			a.setStatus("exported "+msg.Path, false)
		}
		return a, nil

	case projectReloadedMsg:
		switch {
		case msg.Err != nil:
			a.log.Warn("reload failed", zap.Error(msg.Err))
			a.setStatus("reload failed: "+msg.Err.Error(), true)
		case a.dirty:
			a.log.Info("file changed with unsaved edits, not reloading")
			a.setStatus("file changed on disk; keeping unsaved edits (w to overwrite)", true)
		default:
			a.project = msg.Project
			a.dirty = false
			a.recompute()
			a.setStatus("reloaded from disk", false)
		}
		if a.watcher == nil {
			return a, nil
		}
		return a, a.watcher.wait()

	case savedMsg:
		if msg.Err != nil {
			a.log.Warn("save failed", zap.Error(msg.Err))
			a.setStatus("save failed: "+msg.Err.Error(), true)
		} else {
			a.dirty = false
			a.setStatus("saved "+msg.Path, false)
		}
		return a, nil
	}

	// The editor owns all input while open.
	if a.editForm != nil {
		return a.updateEditForm(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		if a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// Help overlay closes on any key.
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "?":
			a.showHelp = true
			return a, nil
		case "e":
			return a.openEditor()
		case "x":
			a.setStatus("exporting...", false)
			return a, exportCmd(a.exportPath(), a.project.Info, a.result)
		case "w":
			if a.path == "" {
				a.setStatus("no project file to write", true)
				return a, nil
			}
			return a, saveCmd(a.path, a.project)
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}

		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil
	}

	return a, nil
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
}

func (a App) openEditor() (tea.Model, tea.Cmd) {
	a.editVals = NewFormValues(a.project, a.rates)
	a.editForm = NewProjectForm(a.editVals)
	if a.width > 0 {
		a.editForm = a.editForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.editForm.Init()
}

func (a App) updateEditForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
		return a, tea.Quit
	}

	form, cmd := a.editForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.editForm = f
	}

	switch a.editForm.State {
	case huh.StateCompleted:
		a.applyEdit()
		a.editForm = nil
		a.editVals = nil
		return a, nil
	case huh.StateAborted:
		a.editForm = nil
		a.editVals = nil
		a.setStatus("edit cancelled", false)
		return a, nil
	}
	return a, cmd
}

// applyEdit replaces the project with the editor's values and re-evaluates.
func (a *App) applyEdit() {
	p, err := a.editVals.Project()
	if err != nil {
		a.setStatus(err.Error(), true)
		return
	}
	a.project = p
	a.dirty = true
	a.recompute()
	a.setStatus("recalculated", false)
}

func (a App) exportPath() string {
	return filepath.Join(a.exportDir, report.ReportFileName(a.project.Info.Name))
}

func exportCmd(path string, info model.ProjectInfo, res model.Result) tea.Cmd {
	return func() tea.Msg {
		return exportDoneMsg{Path: path, Err: report.SaveXLSX(path, info, res)}
	}
}

func saveCmd(path string, p model.Project) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{Path: path, Err: input.SaveProject(path, p)}
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.editForm != nil {
		return a.editForm.View()
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  budgetmon needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"s c f r", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"e", "Edit project and recalculate"},
			{"x", "Export XLSX report"},
			{"w", "Write project file"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	name := a.project.Info.Name
	if name == "" {
		name = "untitled"
	}
	if a.dirty {
		name += " *"
	}
	statusBar := components.RenderStatusBar(w, name, a.status, a.statusErr)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderSummaryTab(cw)
	case 1:
		content = a.renderChartsTab(cw)
	case 2:
		content = a.renderFinalTab(cw)
	case 3:
		content = a.renderRatesTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
