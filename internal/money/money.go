package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotNumeric reports input that cannot be coerced to an amount.
var ErrNotNumeric = errors.New("amount is not numeric")

var epsilon = decimal.New(1, -9)

// Parse coerces the loosely-typed amount values that arrive in JSON
// payloads (string, json.Number, float64) into a decimal. Anything
// non-numeric is an error, never a silent zero.
func Parse(v any) (decimal.Decimal, error) {
	switch value := v.(type) {
	case decimal.Decimal:
		return value, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, value)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(value.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, value.String())
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(value), nil
	case float32:
		return decimal.NewFromFloat32(value), nil
	case int:
		return decimal.NewFromInt(int64(value)), nil
	case int64:
		return decimal.NewFromInt(value), nil
	case nil:
		return decimal.Zero, ErrNotNumeric
	default:
		return decimal.Zero, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}

// TolerantEqual compares two amounts with a relative tolerance:
// |a-b| <= eps * max(1, |a|, |b|). Absorbs representation noise from
// gateways that round or serialize through floats, while a mismatch of
// a whole cent on any realistic price stays unequal.
func TolerantEqual(a, b decimal.Decimal) bool {
	diff := a.Sub(b).Abs()
	scale := decimal.NewFromInt(1)
	if abs := a.Abs(); abs.GreaterThan(scale) {
		scale = abs
	}
	if abs := b.Abs(); abs.GreaterThan(scale) {
		scale = abs
	}
	return diff.LessThanOrEqual(epsilon.Mul(scale))
}

// NormalizeCurrency upper-cases and trims an ISO currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
