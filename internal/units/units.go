// Package units defines the fixed catalogue of measurement units and
// conversion between them. Units are plain data: a symbol, the dimension
// they measure, and a factor to that dimension's base unit. Conversion
// always normalizes through the base unit, so adding a unit means adding
// one factor, not a row of pairwise rules.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// Dimension classifies what a unit measures. Units convert only within
// their own dimension.
type Dimension int

const (
	Volume Dimension = iota
	Mass
	Count
)

// String returns a human-readable dimension name.
func (d Dimension) String() string {
	switch d {
	case Volume:
		return "volume"
	case Mass:
		return "mass"
	case Count:
		return "count"
	default:
		return "unknown"
	}
}

// Unit is an immutable measurement unit. Factor is the multiplier to the
// dimension's base unit: millilitre for volume, gram for mass, piece for
// count. Factor is always > 0 for catalogue units; the zero Unit is "no
// unit".
type Unit struct {
	Symbol    string
	Dimension Dimension
	Factor    float64
}

// IsZero reports whether u is the zero "no unit" value.
func (u Unit) IsZero() bool { return u == Unit{} }

// Sentinel errors.
var (
	ErrUnknown      = errors.New("unknown unit")
	ErrIncompatible = errors.New("incompatible unit dimensions")
)

// catalogue is the closed set of supported units, grouped by dimension.
var catalogue = []Unit{
	// Volume, base = millilitre.
	{Symbol: "ml", Dimension: Volume, Factor: 1},
	{Symbol: "cl", Dimension: Volume, Factor: 10},
	{Symbol: "dl", Dimension: Volume, Factor: 100},
	{Symbol: "l", Dimension: Volume, Factor: 1000},
	{Symbol: "tsp", Dimension: Volume, Factor: 4.92892159375},
	{Symbol: "tbsp", Dimension: Volume, Factor: 14.78676478125},
	{Symbol: "cup", Dimension: Volume, Factor: 236.5882365},

	// Mass, base = gram.
	{Symbol: "mg", Dimension: Mass, Factor: 0.001},
	{Symbol: "g", Dimension: Mass, Factor: 1},
	{Symbol: "kg", Dimension: Mass, Factor: 1000},
	{Symbol: "oz", Dimension: Mass, Factor: 28.349523125},
	{Symbol: "lb", Dimension: Mass, Factor: 453.59237},

	// Count, base = piece.
	{Symbol: "piece", Dimension: Count, Factor: 1},
	{Symbol: "dozen", Dimension: Count, Factor: 12},
}

// bySymbol is built once from the catalogue. Symbols are stored lowercase.
var bySymbol = func() map[string]Unit {
	m := make(map[string]Unit, len(catalogue))
	for _, u := range catalogue {
		m[u.Symbol] = u
	}
	return m
}()

// aliases maps common spellings onto catalogue symbols.
var aliases = map[string]string{
	"litre":      "l",
	"liter":      "l",
	"millilitre": "ml",
	"gram":       "g",
	"kilogram":   "kg",
	"pc":         "piece",
	"pcs":        "piece",
	"pieces":     "piece",
	"pound":      "lb",
	"lbs":        "lb",
}

// BySymbol looks up a unit by its symbol, case-insensitively. Common long
// spellings ("litre", "pieces") are accepted as aliases.
func BySymbol(symbol string) (Unit, error) {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if alias, ok := aliases[s]; ok {
		s = alias
	}
	u, ok := bySymbol[s]
	if !ok {
		return Unit{}, fmt.Errorf("%w: %q", ErrUnknown, symbol)
	}
	return u, nil
}

// OfDimension returns the catalogue units of the given dimension, in
// catalogue order. The returned slice is a copy.
func OfDimension(d Dimension) []Unit {
	var out []Unit
	for _, u := range catalogue {
		if u.Dimension == d {
			out = append(out, u)
		}
	}
	return out
}

// Compatible reports whether two units measure the same dimension.
func Compatible(a, b Unit) bool { return a.Dimension == b.Dimension }

// Convert expresses value, given in from, in to. Both units must share a
// dimension. The value is normalized through the dimension's base unit:
// base = value * from.Factor, result = base / to.Factor.
func Convert(value float64, from, to Unit) (float64, error) {
	if !Compatible(from, to) {
		return 0, fmt.Errorf("cannot convert %s (%s) to %s (%s): %w",
			from.Symbol, from.Dimension, to.Symbol, to.Dimension, ErrIncompatible)
	}
	return value * from.Factor / to.Factor, nil
}
