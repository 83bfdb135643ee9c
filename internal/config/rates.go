package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/budgetmon/internal/model"
)

// ErrInvalidRate is returned when a rate table fails validation.
var ErrInvalidRate = errors.New("invalid rate table")

// MachineRate is the hourly rate of one named machine.
type MachineRate struct {
	Name string  `toml:"name" json:"name"`
	Rate float64 `toml:"rate" json:"rate"`
}

// DefaultMachineRates are the machines shipped with the default config.
var DefaultMachineRates = []MachineRate{
	{Name: "CNC", Rate: 10},
	{Name: "Robot", Rate: 10},
	{Name: "Autoclave", Rate: 10},
}

// Default labor rates in USD per hour.
const (
	DefaultLaborWorkerRate = 10.0
	DefaultLaborOfficeRate = 10.0
)

// RateTable holds the currency-per-hour rate of every hourly category.
// It is immutable once built.
type RateTable struct {
	laborWorker float64
	laborOffice float64
	machines    []MachineRate
	byName      map[string]float64
}

// NewRateTable validates the rates and returns the table.
// Rates must be finite and non-negative; machine names must be non-empty,
// unique and must not shadow a fixed category label.
func NewRateTable(laborWorker, laborOffice float64, machines []MachineRate) (*RateTable, error) {
	if err := checkRate(string(model.LaborWorker), laborWorker); err != nil {
		return nil, err
	}
	if err := checkRate(string(model.LaborOffice), laborOffice); err != nil {
		return nil, err
	}

	rt := &RateTable{
		laborWorker: laborWorker,
		laborOffice: laborOffice,
		machines:    make([]MachineRate, 0, len(machines)),
		byName:      make(map[string]float64, len(machines)),
	}
	for _, m := range machines {
		name := strings.TrimSpace(m.Name)
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: machine with empty name", ErrInvalidRate)
		case model.Category(name).IsFixed():
			return nil, fmt.Errorf("%w: machine %q shadows a fixed category", ErrInvalidRate, name)
		}
		if err := checkRate(fmt.Sprintf("machine %q", name), m.Rate); err != nil {
			return nil, err
		}
		if _, dup := rt.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate machine %q", ErrInvalidRate, name)
		}
		rt.byName[name] = m.Rate
		rt.machines = append(rt.machines, MachineRate{Name: name, Rate: m.Rate})
	}
	return rt, nil
}

func checkRate(what string, r float64) error {
	switch {
	case math.IsNaN(r) || math.IsInf(r, 0):
		return fmt.Errorf("%w: %s rate %v is not a finite number", ErrInvalidRate, what, r)
	case r < 0:
		return fmt.Errorf("%w: %s rate %.2f is negative", ErrInvalidRate, what, r)
	}
	return nil
}

// DefaultRateTable returns the built-in rates. It cannot fail.
func DefaultRateTable() *RateTable {
	rt, err := NewRateTable(DefaultLaborWorkerRate, DefaultLaborOfficeRate, DefaultMachineRates)
	if err != nil {
		panic(err)
	}
	return rt
}

// LaborWorker returns the worker labor rate.
func (rt *RateTable) LaborWorker() float64 { return rt.laborWorker }

// LaborOffice returns the office labor rate.
func (rt *RateTable) LaborOffice() float64 { return rt.laborOffice }

// Machines returns the machine rates in configured order.
func (rt *RateTable) Machines() []MachineRate {
	out := make([]MachineRate, len(rt.machines))
	copy(out, rt.machines)
	return out
}

// MachineNames returns the configured machine names in order.
func (rt *RateTable) MachineNames() []string {
	names := make([]string, len(rt.machines))
	for i, m := range rt.machines {
		names[i] = m.Name
	}
	return names
}

// HasMachine reports whether name is a configured machine.
func (rt *RateTable) HasMachine(name string) bool {
	_, ok := rt.byName[name]
	return ok
}

// RateFor returns the hourly rate of c. Material has no rate and reports
// false, as does any category the table does not know.
func (rt *RateTable) RateFor(c model.Category) (float64, bool) {
	switch c {
	case model.LaborWorker:
		return rt.laborWorker, true
	case model.LaborOffice:
		return rt.laborOffice, true
	case model.Material:
		return 0, false
	}
	r, ok := rt.byName[string(c)]
	return r, ok
}

// Categories returns the canonical category order: worker, office,
// material, then machines as configured.
func (rt *RateTable) Categories() []model.Category {
	cats := make([]model.Category, 0, len(model.FixedCategories)+len(rt.machines))
	cats = append(cats, model.FixedCategories...)
	for _, m := range rt.machines {
		cats = append(cats, model.Category(m.Name))
	}
	return cats
}
