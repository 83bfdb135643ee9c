package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetmon/internal/model"
)

// ComputeVariance compares two breakdowns category by category. Rows follow
// the estimated order, then any categories only the actual side has. A side
// missing a category counts as zero.
func ComputeVariance(est, act model.CostBreakdown) []model.VarianceRow {
	order := make([]model.Category, 0, est.Len()+act.Len())
	seen := make(map[model.Category]struct{}, est.Len()+act.Len())
	for _, b := range []model.CostBreakdown{est, act} {
		for _, it := range b.Items {
			if _, ok := seen[it.Category]; ok {
				continue
			}
			seen[it.Category] = struct{}{}
			order = append(order, it.Category)
		}
	}

	rows := make([]model.VarianceRow, 0, len(order))
	for _, c := range order {
		e, _ := est.Cost(c)
		a, _ := act.Cost(c)
		ed := decimal.NewFromFloat(e)
		diff := ed.Sub(decimal.NewFromFloat(a))
		pct, ok := percentOf(diff, ed)

		rows = append(rows, model.VarianceRow{
			Category:      c,
			Estimated:     e,
			Actual:        a,
			DifferenceAbs: diff.InexactFloat64(),
			DifferencePct: pct,
			PctDefined:    ok,
		})
	}
	return rows
}

// ComputeFinalSummary totals both scenarios, adds the actual-only extras and
// derives the final gap (actual minus estimate).
func ComputeFinalSummary(est, act model.CostBreakdown, extras model.Extras) model.FinalSummary {
	estTotal := sum(est)
	core := sum(act)
	warranty := decimal.NewFromFloat(extras.WarrantyCost)
	afterwork := decimal.NewFromFloat(extras.AfterworkCost)
	full := core.Add(warranty).Add(afterwork)
	gap := full.Sub(estTotal)
	pct, ok := percentOf(gap, estTotal)

	return model.FinalSummary{
		EstimatedTotal:  estTotal.InexactFloat64(),
		ActualTotalCore: core.InexactFloat64(),
		WarrantyCost:    warranty.InexactFloat64(),
		AfterworkCost:   afterwork.InexactFloat64(),
		ActualTotalFull: full.InexactFloat64(),
		GapAbs:          gap.InexactFloat64(),
		GapPct:          pct,
		GapPctDefined:   ok,
	}
}

// Share is one category's portion of a scenario total.
type Share struct {
	Category model.Category
	Cost     float64
	Percent  float64 // 0-100, rounded to 2 decimals
}

// ComputeShares returns each non-zero category's share of the breakdown
// total. It returns nil when the total is not positive, so callers can skip
// composition charts for empty scenarios.
func ComputeShares(b model.CostBreakdown) []Share {
	total := sum(b)
	if !total.IsPositive() {
		return nil
	}

	shares := make([]Share, 0, b.Len())
	for _, it := range b.Items {
		if it.Cost == 0 {
			continue
		}
		pct, _ := percentOf(decimal.NewFromFloat(it.Cost), total)
		shares = append(shares, Share{Category: it.Category, Cost: it.Cost, Percent: pct})
	}
	return shares
}
