// Package glucose parses and classifies the blood glucose readings players
// log at each checkpoint. Values are decimal mg/dL.
package glucose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidReading is returned for input that is not a plausible reading.
var ErrInvalidReading = errors.New("glucose: invalid reading")

// Category is the band a reading falls into.
type Category string

const (
	Low    Category = "low"
	Normal Category = "normal"
	High   Category = "high"
)

// Unit is the unit a reading was entered in.
type Unit string

const (
	MgDL  Unit = "mg/dL"
	MmolL Unit = "mmol/L"
)

const mgPerMmol = 18

// Band limits in mg/dL. Low is below LowLimit, High is at or above HighLimit.
var (
	LowLimit  = decimal.NewFromInt(80)
	HighLimit = decimal.NewFromInt(120)
	maxMgDL   = decimal.NewFromInt(1000)
)

var messages = map[Category]string{
	Low:    "Low blood sugar – please eat something and retest.",
	Normal: "Well done! Your test result is normal!",
	High:   "You need to take care of yourself immediately and retest afterward.",
}

// Result is a parsed and classified reading.
type Result struct {
	Value    decimal.Decimal // mg/dL
	Category Category
	Message  string
}

// Parse reads a value such as "95", "101.5", "6.2 mmol/L" or "110mg/dL".
// Bare numbers are mg/dL. The returned value is always mg/dL.
func Parse(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	unit := MgDL
	lower := strings.ToLower(raw)
	switch {
	case strings.HasSuffix(lower, strings.ToLower(string(MmolL))):
		unit = MmolL
		raw = strings.TrimSpace(raw[:len(raw)-len(MmolL)])
	case strings.HasSuffix(lower, strings.ToLower(string(MgDL))):
		raw = strings.TrimSpace(raw[:len(raw)-len(MgDL)])
	}
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidReading)
	}

	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidReading, s)
	}
	if unit == MmolL {
		v = FromMmol(v)
	}
	if err := Check(v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}

// Check rejects mg/dL values no meter could report.
func Check(v decimal.Decimal) error {
	if !v.IsPositive() || v.GreaterThan(maxMgDL) {
		return fmt.Errorf("%w: %s %s is out of range", ErrInvalidReading, v.String(), MgDL)
	}
	return nil
}

// Classify places a mg/dL value in its band.
func Classify(v decimal.Decimal) Category {
	switch {
	case v.LessThan(LowLimit):
		return Low
	case v.LessThan(HighLimit):
		return Normal
	default:
		return High
	}
}

// Message returns the advice shown for a category.
func Message(c Category) string {
	return messages[c]
}

// Evaluate parses and classifies s in one step.
func Evaluate(s string) (Result, error) {
	v, err := Parse(s)
	if err != nil {
		return Result{}, err
	}
	c := Classify(v)
	return Result{Value: v, Category: c, Message: Message(c)}, nil
}

// ToMmol converts mg/dL to mmol/L, rounded to one decimal place.
func ToMmol(mgdl decimal.Decimal) decimal.Decimal {
	return mgdl.Div(decimal.NewFromInt(mgPerMmol)).Round(1)
}

// FromMmol converts mmol/L to mg/dL, rounded to the nearest whole unit.
func FromMmol(mmol decimal.Decimal) decimal.Decimal {
	return mmol.Mul(decimal.NewFromInt(mgPerMmol)).Round(0)
}
