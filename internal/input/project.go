package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/model"
)

// ErrUnknownCategory is returned when an input names a machine that the
// rate table does not define.
var ErrUnknownCategory = errors.New("unknown cost category")

const dateLayout = "2006-01-02"

// Date is a calendar date written as YYYY-MM-DD. In TOML it may also be a
// native local date.
type Date struct {
	time.Time
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.Format(dateLayout)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, string(b))
	if err != nil {
		return fmt.Errorf("date %q: want YYYY-MM-DD", string(b))
	}
	d.Time = t
	return nil
}

// MarshalJSON shadows time.Time's RFC 3339 encoding.
func (d Date) MarshalJSON() ([]byte, error) {
	b, _ := d.MarshalText()
	return json.Marshal(string(b))
}

// UnmarshalJSON accepts a YYYY-MM-DD string or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Date) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case time.Time:
		d.Time = time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.UnmarshalText([]byte(x))
	}
	return fmt.Errorf("date: unsupported TOML type %T", v)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("date: line %d: want a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		d.Time = time.Time{}
		return nil
	}
	return d.UnmarshalText([]byte(node.Value))
}

// ProjectFile is the on-disk (TOML or YAML) and wire (JSON) form of a project.
type ProjectFile struct {
	Project   ProjectSection   `toml:"project" yaml:"project" json:"project"`
	Estimated SnapshotSection  `toml:"estimated" yaml:"estimated" json:"estimated"`
	Actual    SnapshotSection  `toml:"actual" yaml:"actual" json:"actual"`
	Extras    ExtrasSection    `toml:"extras" yaml:"extras" json:"extras"`
	Fallback  *FallbackSection `toml:"fallback,omitempty" yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// ProjectSection holds project metadata.
type ProjectSection struct {
	Name      string `toml:"name" yaml:"name" json:"name"`
	StartDate Date   `toml:"start_date" yaml:"start_date" json:"start_date"`
	EndDate   Date   `toml:"end_date" yaml:"end_date" json:"end_date"`
}

// SnapshotSection holds the quantities of one scenario.
type SnapshotSection struct {
	LaborWorkerHours Amount            `toml:"labor_worker_hours" yaml:"labor_worker_hours" json:"labor_worker_hours"`
	LaborOfficeHours Amount            `toml:"labor_office_hours" yaml:"labor_office_hours" json:"labor_office_hours"`
	MachineHours     map[string]Amount `toml:"machine_hours,omitempty" yaml:"machine_hours,omitempty" json:"machine_hours,omitempty"`
	MaterialCost     Amount            `toml:"material_cost" yaml:"material_cost" json:"material_cost"`
}

// ExtrasSection holds actual-only costs.
type ExtrasSection struct {
	WarrantyCost  Amount `toml:"warranty_cost" yaml:"warranty_cost" json:"warranty_cost"`
	AfterworkCost Amount `toml:"afterwork_cost" yaml:"afterwork_cost" json:"afterwork_cost"`
}

// FallbackSection holds the lump sums used when no categorized data exists.
type FallbackSection struct {
	SoldPrice  Amount `toml:"sold_price" yaml:"sold_price" json:"sold_price"`
	ActualCost Amount `toml:"actual_cost" yaml:"actual_cost" json:"actual_cost"`
}

// ToProject converts the file into a model project, rejecting machine names
// the rate table does not know.
func (pf ProjectFile) ToProject(rt *config.RateTable) (model.Project, error) {
	est, err := pf.Estimated.snapshot(rt)
	if err != nil {
		return model.Project{}, fmt.Errorf("estimated: %w", err)
	}
	act, err := pf.Actual.snapshot(rt)
	if err != nil {
		return model.Project{}, fmt.Errorf("actual: %w", err)
	}

	p := model.Project{
		Info: model.ProjectInfo{
			Name:      pf.Project.Name,
			StartDate: pf.Project.StartDate.Time,
			EndDate:   pf.Project.EndDate.Time,
		},
		Input: model.EvaluationInput{
			Estimated: est,
			Actual:    act,
			Extras: model.Extras{
				WarrantyCost:  pf.Extras.WarrantyCost.Float(),
				AfterworkCost: pf.Extras.AfterworkCost.Float(),
			},
		},
	}
	if pf.Fallback != nil {
		p.Input.Fallback = &model.LumpSum{
			SoldPrice:  pf.Fallback.SoldPrice.Float(),
			ActualCost: pf.Fallback.ActualCost.Float(),
		}
	}
	return p, nil
}

func (s SnapshotSection) snapshot(rt *config.RateTable) (model.Snapshot, error) {
	snap := model.Snapshot{
		LaborWorkerHours: s.LaborWorkerHours.Float(),
		LaborOfficeHours: s.LaborOfficeHours.Float(),
		MaterialCost:     s.MaterialCost.Float(),
	}
	if len(s.MachineHours) == 0 {
		return snap, nil
	}

	// Sorted so the reported unknown name is deterministic.
	names := make([]string, 0, len(s.MachineHours))
	for name := range s.MachineHours {
		names = append(names, name)
	}
	sort.Strings(names)

	snap.MachineHours = make(map[string]float64, len(names))
	for _, name := range names {
		if !rt.HasMachine(name) {
			return model.Snapshot{}, fmt.Errorf("%w: machine %q", ErrUnknownCategory, name)
		}
		snap.MachineHours[name] = s.MachineHours[name].Float()
	}
	return snap, nil
}

// FromProject builds the file form of a project.
func FromProject(p model.Project) ProjectFile {
	pf := ProjectFile{
		Project: ProjectSection{
			Name:      p.Info.Name,
			StartDate: Date{p.Info.StartDate},
			EndDate:   Date{p.Info.EndDate},
		},
		Estimated: fromSnapshot(p.Input.Estimated),
		Actual:    fromSnapshot(p.Input.Actual),
		Extras: ExtrasSection{
			WarrantyCost:  Amount(p.Input.Extras.WarrantyCost),
			AfterworkCost: Amount(p.Input.Extras.AfterworkCost),
		},
	}
	if ls := p.Input.Fallback; ls != nil {
		pf.Fallback = &FallbackSection{SoldPrice: Amount(ls.SoldPrice), ActualCost: Amount(ls.ActualCost)}
	}
	return pf
}

func fromSnapshot(s model.Snapshot) SnapshotSection {
	out := SnapshotSection{
		LaborWorkerHours: Amount(s.LaborWorkerHours),
		LaborOfficeHours: Amount(s.LaborOfficeHours),
		MaterialCost:     Amount(s.MaterialCost),
	}
	if len(s.MachineHours) > 0 {
		out.MachineHours = make(map[string]Amount, len(s.MachineHours))
		for name, h := range s.MachineHours {
			out.MachineHours[name] = Amount(h)
		}
	}
	return out
}

// isYAML reports whether path names a YAML project file. Everything else
// is read as TOML.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadProjectFile decodes a TOML or YAML project file, chosen by extension.
func LoadProjectFile(path string) (ProjectFile, error) {
	var pf ProjectFile
	data, err := os.ReadFile(path) //nolint:gosec // user-chosen project path
	if err != nil {
		return pf, fmt.Errorf("reading project: %w", err)
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &pf)
	} else {
		err = toml.Unmarshal(data, &pf)
	}
	if err != nil {
		return pf, fmt.Errorf("parsing project %s: %w", filepath.Base(path), err)
	}
	return pf, nil
}

// LoadProject reads a project file and validates it against the rate table.
func LoadProject(path string, rt *config.RateTable) (model.Project, error) {
	pf, err := LoadProjectFile(path)
	if err != nil {
		return model.Project{}, err
	}
	p, err := pf.ToProject(rt)
	if err != nil {
		return model.Project{}, fmt.Errorf("project %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// SaveProject writes a project file, creating parent directories.
func SaveProject(path string, p model.Project) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating project dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) //nolint:gosec // user-chosen project path
	if err != nil {
		return fmt.Errorf("creating project file: %w", err)
	}
	defer f.Close()

	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(FromProject(p)); err != nil {
			return fmt.Errorf("writing project: %w", err)
		}
		return enc.Close()
	}
	if err := toml.NewEncoder(f).Encode(FromProject(p)); err != nil {
		return fmt.Errorf("writing project: %w", err)
	}
	return nil
}
