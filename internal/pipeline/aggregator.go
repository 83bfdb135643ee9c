// Package pipeline turns an evaluation input into cost breakdowns, variance
// rows and a final summary.
package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/model"
)

// ComputeBreakdown prices one scenario against the rate table. The result
// always holds exactly rt.Categories(), in that order, zero costs included.
// Machine hours for names the table does not know are ignored; callers are
// expected to have rejected them at the input boundary.
func ComputeBreakdown(s model.Snapshot, rt *config.RateTable) model.CostBreakdown {
	cats := rt.Categories()
	items := make([]model.CategoryCost, 0, len(cats))

	for _, c := range cats {
		var cost decimal.Decimal
		switch c {
		case model.LaborWorker:
			cost = hourly(s.LaborWorkerHours, rt.LaborWorker())
		case model.LaborOffice:
			cost = hourly(s.LaborOfficeHours, rt.LaborOffice())
		case model.Material:
			cost = decimal.NewFromFloat(s.MaterialCost)
		default:
			rate, _ := rt.RateFor(c)
			cost = hourly(s.Hours(string(c)), rate)
		}
		items = append(items, model.CategoryCost{Category: c, Cost: cost.InexactFloat64()})
	}

	return model.CostBreakdown{Items: items}
}

// Evaluate runs the full computation for one input snapshot.
//
// When both the estimated total and the all-included actual total are zero,
// the result switches to fallback mode: breakdowns and variance are left
// empty and the summary is built from the lump sums instead.
func Evaluate(in model.EvaluationInput, rt *config.RateTable) model.Result {
	est := ComputeBreakdown(in.Estimated, rt)
	act := ComputeBreakdown(in.Actual, rt)
	summary := ComputeFinalSummary(est, act, in.Extras)

	if summary.EstimatedTotal == 0 && summary.ActualTotalFull == 0 {
		return model.Result{
			Summary:  fallbackSummary(in.Fallback),
			Fallback: true,
		}
	}

	return model.Result{
		Estimated: est,
		Actual:    act,
		Variance:  ComputeVariance(est, act),
		Summary:   summary,
	}
}

func fallbackSummary(ls *model.LumpSum) model.FinalSummary {
	if ls == nil {
		return model.FinalSummary{}
	}
	sold := decimal.NewFromFloat(ls.SoldPrice)
	actual := decimal.NewFromFloat(ls.ActualCost)
	gap := actual.Sub(sold)
	pct, ok := percentOf(gap, sold)

	return model.FinalSummary{
		EstimatedTotal:  sold.InexactFloat64(),
		ActualTotalCore: actual.InexactFloat64(),
		ActualTotalFull: actual.InexactFloat64(),
		GapAbs:          gap.InexactFloat64(),
		GapPct:          pct,
		GapPctDefined:   ok,
	}
}

func hourly(hours, rate float64) decimal.Decimal {
	return decimal.NewFromFloat(hours).Mul(decimal.NewFromFloat(rate))
}

var hundred = decimal.NewFromInt(100)

// percentOf returns part/whole*100 rounded to 2 decimals. A zero whole
// yields 0 and false.
func percentOf(part, whole decimal.Decimal) (float64, bool) {
	if whole.IsZero() {
		return 0, false
	}
	return part.Div(whole).Mul(hundred).Round(2).InexactFloat64(), true
}

func sum(b model.CostBreakdown) decimal.Decimal {
	total := decimal.Zero
	for _, it := range b.Items {
		total = total.Add(decimal.NewFromFloat(it.Cost))
	}
	return total
}
