package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all budgetmon configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Rates      RatesConfig      `toml:"rates"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultProject string `toml:"default_project,omitempty"`
	ExportDir      string `toml:"export_dir,omitempty"`
}

// RatesConfig holds the hourly rates the rate table is built from.
type RatesConfig struct {
	LaborWorker float64       `toml:"labor_worker"`
	LaborOffice float64       `toml:"labor_office"`
	Machines    []MachineRate `toml:"machines"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8765"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	machines := make([]MachineRate, len(DefaultMachineRates))
	copy(machines, DefaultMachineRates)
	return Config{
		Rates: RatesConfig{
			LaborWorker: DefaultLaborWorkerRate,
			LaborOffice: DefaultLaborOfficeRate,
			Machines:    machines,
		},
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// RateTable builds and validates the rate table from the config.
func (c Config) RateTable() (*RateTable, error) {
	return NewRateTable(c.Rates.LaborWorker, c.Rates.LaborOffice, c.Rates.Machines)
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetmon")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgetmon")
}

// ConfigPath returns the full path to the config file.
// BUDGETMON_CONFIG overrides the XDG location.
func ConfigPath() string {
	if p := os.Getenv("BUDGETMON_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-chosen config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	// A [rates] table replaces the default machine list rather than merging.
	cfg.Rates.Machines = nil
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if !md.IsDefined("rates", "machines") {
		cfg.Rates.Machines = DefaultConfig().Rates.Machines
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// ListenAddr returns the server address from env var or config, in that order.
func ListenAddr(cfg Config) string {
	if addr := os.Getenv("BUDGETMON_ADDR"); addr != "" {
		return addr
	}
	if cfg.Server.Addr == "" {
		return DefaultAddr
	}
	return cfg.Server.Addr
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
