// Package input parses user-entered amounts and project files into
// evaluation inputs.
package input

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ParseAmount reads a free-text amount. Whitespace, "$" and thousands
// separators are stripped and the value is rounded to 2 decimals. Anything
// that still fails to parse, or overflows a float64, is 0.
func ParseAmount(s string) float64 {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', '$', ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, ok := finite(d.Round(2).InexactFloat64())
	if !ok {
		return 0
	}
	return f
}

// ParseNonNegative parses a constrained numeric field. Unlike ParseAmount
// it reports malformed or negative values instead of recovering to 0.
func ParseNonNegative(s string) (float64, error) {
	t := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if t == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%q must not be negative", s)
	}
	f, ok := finite(d.Round(2).InexactFloat64())
	if !ok {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return f, nil
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Amount is a number that may be written in a file either as a number or
// as a free-text string. Decoding never fails on malformed text; it
// follows ParseAmount.
type Amount float64

// Float returns the amount as a float64.
func (a Amount) Float() float64 { return float64(a) }

// UnmarshalTOML implements toml.Unmarshaler.
func (a *Amount) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		*a = Amount(decimal.NewFromInt(x).InexactFloat64())
	case float64:
		// inf and nan are valid TOML floats; treat them like unparseable text.
		if _, ok := finite(x); !ok {
			*a = 0
			return nil
		}
		*a = Amount(decimal.NewFromFloat(x).Round(2).InexactFloat64())
	case string:
		*a = Amount(ParseAmount(x))
	default:
		return fmt.Errorf("amount: unsupported TOML type %T", v)
	}
	return nil
}

// UnmarshalJSON accepts a JSON number, a JSON string, or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		*a = Amount(ParseAmount(s))
		return nil
	}
	*a = Amount(ParseAmount(string(data)))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("amount: line %d: want a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*a = 0
		return nil
	}
	*a = Amount(ParseAmount(node.Value))
	return nil
}
