package tui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/input"
	"github.com/theirongolddev/budgetmon/internal/model"
)

// projectReloadedMsg carries a project re-read after its file changed.
type projectReloadedMsg struct {
	Project model.Project
	Err     error
}

// Editors often write a file in several steps.
const reloadDebounce = 150 * time.Millisecond

// projectWatcher reloads the project file when it changes on disk. The
// parent directory is watched so atomic rename-on-save is seen too.
type projectWatcher struct {
	w     *fsnotify.Watcher
	path  string
	rates *config.RateTable
}

func newProjectWatcher(path string, rt *config.RateTable) (*projectWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &projectWatcher{w: w, path: abs, rates: rt}, nil
}

// wait blocks until the next relevant change and returns the reloaded
// project. It returns nil once the watcher is closed.
func (pw *projectWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-pw.w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != pw.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				pw.settle()
				p, err := input.LoadProject(pw.path, pw.rates)
				return projectReloadedMsg{Project: p, Err: err}

			case err, ok := <-pw.w.Errors:
				if !ok {
					return nil
				}
				return projectReloadedMsg{Err: err}
			}
		}
	}
}

// settle drops the burst of events that follows the first one.
func (pw *projectWatcher) settle() {
	timer := time.NewTimer(reloadDebounce)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			return
		case _, ok := <-pw.w.Events:
			if !ok {
				return
			}
		}
	}
}

func (pw *projectWatcher) Close() error {
	return pw.w.Close()
}
