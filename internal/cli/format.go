// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a USD amount as $#,##0.00. Negative amounts carry
// a leading minus: -$1,234.00.
func FormatCurrency(v float64) string {
	v = decimal.NewFromFloat(v).Round(2).InexactFloat64()
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// ParseCurrency reverses FormatCurrency. It also accepts plain numbers.
func ParseCurrency(s string) (float64, error) {
	t := strings.TrimSpace(s)
	neg := strings.HasPrefix(t, "-")
	t = strings.TrimPrefix(t, "-")
	t = strings.TrimPrefix(t, "$")
	t = strings.ReplaceAll(t, ",", "")

	d, err := decimal.NewFromString(t)
	if err != nil {
		return 0, fmt.Errorf("parsing currency %q: %w", s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d.Round(2).InexactFloat64(), nil
}

// FormatSignedCurrency formats a delta with an explicit sign.
// e.g., 12.5 -> "+$12.50", -3 -> "-$3.00"
func FormatSignedCurrency(v float64) string {
	if v > 0 {
		return "+" + FormatCurrency(v)
	}
	return FormatCurrency(v)
}

// FormatPercent formats a value already expressed in percent.
// e.g., 12.3456 -> "12.35%"
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatHours formats an hour quantity, dropping a trailing ".00".
func FormatHours(h float64) string {
	if h == math.Trunc(h) {
		return FormatNumber(int64(h)) + " h"
	}
	return strconv.FormatFloat(h, 'f', 2, 64) + " h"
}

// FormatRate formats an hourly rate.
func FormatRate(r float64) string {
	return FormatCurrency(r) + "/h"
}

// FormatDate formats a calendar date, "-" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}
