package model

// CategoryCost is one computed entry of a breakdown.
type CategoryCost struct {
	Category Category `json:"category"`
	Cost     float64  `json:"cost"`
}

// CostBreakdown maps categories to computed cost, in canonical order.
type CostBreakdown struct {
	Items []CategoryCost `json:"items"`
}

// Cost returns the cost recorded for c and whether c is present.
func (b CostBreakdown) Cost(c Category) (float64, bool) {
	for _, it := range b.Items {
		if it.Category == c {
			return it.Cost, true
		}
	}
	return 0, false
}

// Categories returns the categories of the breakdown in order.
func (b CostBreakdown) Categories() []Category {
	out := make([]Category, len(b.Items))
	for i, it := range b.Items {
		out[i] = it.Category
	}
	return out
}

// Total sums every category cost.
func (b CostBreakdown) Total() float64 {
	var total float64
	for _, it := range b.Items {
		total += it.Cost
	}
	return total
}

// Len returns the number of categories.
func (b CostBreakdown) Len() int { return len(b.Items) }

// VarianceRow compares estimated and actual cost for one category.
//
// DifferencePct is 0 when Estimated is 0; PctDefined is false in that case so
// callers can tell a real zero variance from a missing denominator.
type VarianceRow struct {
	Category      Category `json:"category"`
	Estimated     float64  `json:"estimated"`
	Actual        float64  `json:"actual"`
	DifferenceAbs float64  `json:"difference_abs"`
	DifferencePct float64  `json:"difference_pct"`
	PctDefined    bool     `json:"pct_defined"`
}

// FinalSummary holds scenario-level totals and the final gap.
type FinalSummary struct {
	EstimatedTotal  float64 `json:"estimated_total"`
	ActualTotalCore float64 `json:"actual_total_core"`
	WarrantyCost    float64 `json:"warranty_cost"`
	AfterworkCost   float64 `json:"afterwork_cost"`
	ActualTotalFull float64 `json:"actual_total_full"`
	GapAbs          float64 `json:"gap_abs"`
	GapPct          float64 `json:"gap_pct"`
	GapPctDefined   bool    `json:"gap_pct_defined"`
}

// OverBudget reports whether the actual total exceeds the estimate.
func (s FinalSummary) OverBudget() bool {
	return s.GapAbs > 0
}

// Result is the full output of one evaluation pass.
type Result struct {
	Estimated CostBreakdown `json:"estimated"`
	Actual    CostBreakdown `json:"actual"`
	Variance  []VarianceRow `json:"variance"`
	Summary   FinalSummary  `json:"summary"`
	Fallback  bool          `json:"fallback"`
}
