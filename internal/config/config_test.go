package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFrom_RatesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[rates]
labor_worker = 13.41
labor_office = 31.25

[[rates.machines]]
name = "Laser"
rate = 22.5
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	want := RatesConfig{
		LaborWorker: 13.41,
		LaborOffice: 31.25,
		Machines:    []MachineRate{{Name: "Laser", Rate: 22.5}},
	}
	if diff := cmp.Diff(want, cfg.Rates); diff != "" {
		t.Fatalf("rates mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Fatalf("Server.Addr = %q, want default %q", cfg.Server.Addr, DefaultAddr)
	}
}

func TestLoadFrom_KeepsDefaultMachinesWhenOmitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[rates]\nlabor_worker = 20.0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if len(cfg.Rates.Machines) != len(DefaultMachineRates) {
		t.Fatalf("len(Machines) = %d, want %d", len(cfg.Rates.Machines), len(DefaultMachineRates))
	}
	if cfg.Rates.LaborWorker != 20 {
		t.Fatalf("LaborWorker = %.2f, want 20", cfg.Rates.LaborWorker)
	}
}

func TestSaveToThenLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.General.DefaultProject = "/tmp/p.toml"
	cfg.Rates.Machines = append(cfg.Rates.Machines, MachineRate{Name: "Laser", Rate: 7.5})

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigRateTable_InvalidIsFatal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rates.LaborOffice = -3

	if _, err := cfg.RateTable(); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("RateTable() err = %v, want ErrInvalidRate", err)
	}
}

func TestListenAddr(t *testing.T) {
	t.Setenv("BUDGETMON_ADDR", "")
	cfg := DefaultConfig()
	cfg.Server.Addr = ""
	if got := ListenAddr(cfg); got != DefaultAddr {
		t.Fatalf("ListenAddr() = %q, want %q", got, DefaultAddr)
	}

	t.Setenv("BUDGETMON_ADDR", ":9999")
	if got := ListenAddr(cfg); got != ":9999" {
		t.Fatalf("ListenAddr() = %q, want env override", got)
	}
}

func TestConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("BUDGETMON_CONFIG", "/etc/budgetmon.toml")
	if got := ConfigPath(); got != "/etc/budgetmon.toml" {
		t.Fatalf("ConfigPath() = %q", got)
	}
}
