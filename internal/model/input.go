package model

import "time"

// Snapshot holds the raw quantities for one scenario (estimated or actual).
type Snapshot struct {
	LaborWorkerHours float64
	LaborOfficeHours float64
	MachineHours     map[string]float64 // machine name -> hours
	MaterialCost     float64            // currency, not hours
}

// Hours returns the hours entered for a machine, 0 if none were entered.
func (s Snapshot) Hours(machine string) float64 {
	return s.MachineHours[machine]
}

// Extras are actual-only costs added to the actual total but kept out of
// the per-category breakdown.
type Extras struct {
	WarrantyCost  float64
	AfterworkCost float64
}

// LumpSum carries the two totals used when no categorized data was entered.
type LumpSum struct {
	SoldPrice  float64
	ActualCost float64
}

// EvaluationInput is one immutable snapshot of everything the user entered.
type EvaluationInput struct {
	Estimated Snapshot
	Actual    Snapshot
	Extras    Extras
	Fallback  *LumpSum // nil when no lump sums were supplied
}

// ProjectInfo describes the project a budget belongs to.
type ProjectInfo struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// Project bundles project metadata with its evaluation input.
type Project struct {
	Info  ProjectInfo
	Input EvaluationInput
}
