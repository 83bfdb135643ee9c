package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/input"
)

func TestProjectWatcherReloadsOnWrite(t *testing.T) {
	rt := config.DefaultRateTable()
	path := filepath.Join(t.TempDir(), "p.toml")
	if err := input.SaveProject(path, sampleProject()); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	pw, err := newProjectWatcher(path, rt)
	if err != nil {
		t.Fatalf("newProjectWatcher: %v", err)
	}
	defer pw.Close()

	got := make(chan tea.Msg, 1)
	go func() { got <- pw.wait()() }()

	changed := sampleProject()
	changed.Info.Name = "Renamed"
	if err := input.SaveProject(path, changed); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	select {
	case msg := <-got:
		reloaded, ok := msg.(projectReloadedMsg)
		if !ok {
			t.Fatalf("msg = %T, want projectReloadedMsg", msg)
		}
		if reloaded.Err != nil {
			t.Fatalf("reload error: %v", reloaded.Err)
		}
		if reloaded.Project.Info.Name != "Renamed" {
			t.Fatalf("Name = %q, want Renamed", reloaded.Project.Info.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestProjectWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.toml")
	if err := input.SaveProject(path, sampleProject()); err != nil {
		t.Fatal(err)
	}
	pw, err := newProjectWatcher(path, config.DefaultRateTable())
	if err != nil {
		t.Fatal(err)
	}

	got := make(chan tea.Msg, 1)
	go func() { got <- pw.wait()() }()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-got:
		t.Fatalf("unexpected msg %#v for unrelated file", msg)
	case <-time.After(300 * time.Millisecond):
	}

	// Closing ends the wait with no message.
	if err := pw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case msg := <-got:
		if msg != nil {
			t.Fatalf("msg after Close = %#v, want nil", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("wait did not return after Close")
	}
}

func TestReloadedMsgUpdatesApp(t *testing.T) {
	a := newTestApp(t)
	p := sampleProject()
	p.Input.Actual.MaterialCost = 230

	a, cmd := update(t, a, projectReloadedMsg{Project: p})
	if cmd != nil {
		t.Fatal("cmd != nil without a watcher")
	}
	if a.dirty {
		t.Fatal("dirty = true after reload")
	}
	if got := a.Result().Summary.ActualTotalFull; got != 530 {
		t.Fatalf("ActualTotalFull = %v, want 530", got)
	}
}

func TestReloadedMsgKeepsUnsavedEdits(t *testing.T) {
	a := newTestApp(t)
	a.dirty = true
	before := a.Result().Summary.ActualTotalFull
	p := sampleProject()
	p.Input.Actual.MaterialCost = 230

	a, _ = update(t, a, projectReloadedMsg{Project: p})
	if !a.dirty {
		t.Fatal("dirty = false, want unsaved edits kept")
	}
	if got := a.Result().Summary.ActualTotalFull; got != before {
		t.Fatalf("ActualTotalFull = %v, want unchanged %v", got, before)
	}
	if !a.statusErr || !strings.Contains(a.status, "unsaved") {
		t.Fatalf("status = %q (err %v), want unsaved-edits warning", a.status, a.statusErr)
	}
}
