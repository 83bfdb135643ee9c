package config

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/theirongolddev/budgetmon/internal/model"
)

func TestNewRateTable_CategoriesInCanonicalOrder(t *testing.T) {
	rt, err := NewRateTable(13.41, 31.25, []MachineRate{
		{Name: "CNC", Rate: 18.33},
		{Name: " Robot ", Rate: 12},
	})
	if err != nil {
		t.Fatalf("NewRateTable: %v", err)
	}

	want := []model.Category{model.LaborWorker, model.LaborOffice, model.Material, "CNC", "Robot"}
	if diff := cmp.Diff(want, rt.Categories()); diff != "" {
		t.Fatalf("Categories() mismatch (-want +got):\n%s", diff)
	}
	if !rt.HasMachine("Robot") {
		t.Fatal("HasMachine(Robot) = false, want trimmed name registered")
	}
}

func TestRateFor(t *testing.T) {
	rt, err := NewRateTable(13.41, 31.25, []MachineRate{{Name: "CNC", Rate: 18.33}})
	if err != nil {
		t.Fatalf("NewRateTable: %v", err)
	}

	tests := []struct {
		cat    model.Category
		want   float64
		wantOK bool
	}{
		{model.LaborWorker, 13.41, true},
		{model.LaborOffice, 31.25, true},
		{"CNC", 18.33, true},
		{model.Material, 0, false},
		{"Laser", 0, false},
	}
	for _, tt := range tests {
		got, ok := rt.RateFor(tt.cat)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("RateFor(%q) = %.2f, %v; want %.2f, %v", tt.cat, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNewRateTable_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		worker   float64
		office   float64
		machines []MachineRate
	}{
		{"negative worker", -1, 10, nil},
		{"negative office", 10, -0.01, nil},
		{"negative machine", 10, 10, []MachineRate{{Name: "CNC", Rate: -5}}},
		{"empty name", 10, 10, []MachineRate{{Name: "  ", Rate: 5}}},
		{"duplicate", 10, 10, []MachineRate{{Name: "CNC", Rate: 5}, {Name: "CNC", Rate: 6}}},
		{"reserved", 10, 10, []MachineRate{{Name: "Material", Rate: 5}}},
		{"nan worker", math.NaN(), 10, nil},
		{"inf office", 10, math.Inf(1), nil},
		{"inf machine", 10, 10, []MachineRate{{Name: "CNC", Rate: math.Inf(1)}}},
		{"nan machine", 10, 10, []MachineRate{{Name: "CNC", Rate: math.NaN()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRateTable(tt.worker, tt.office, tt.machines)
			if !errors.Is(err, ErrInvalidRate) {
				t.Fatalf("err = %v, want ErrInvalidRate", err)
			}
		})
	}
}

func TestMachinesReturnsCopy(t *testing.T) {
	rt := DefaultRateTable()
	ms := rt.Machines()
	ms[0].Rate = 999

	if r, _ := rt.RateFor(model.Category(ms[0].Name)); r == 999 {
		t.Fatal("mutating Machines() result changed the table")
	}
	if got := rt.Machines()[0].Rate; got != 10 {
		t.Fatalf("Machines()[0].Rate = %.2f, want 10", got)
	}
}
