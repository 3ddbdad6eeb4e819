package units

import (
	"errors"
	"math"
	"testing"
)

func TestBySymbol(t *testing.T) {
	tests := []struct {
		symbol  string
		want    string
		wantErr bool
	}{
		{"l", "l", false},
		{"L", "l", false},
		{"  kg ", "kg", false},
		{"litre", "l", false},
		{"pieces", "piece", false},
		{"furlong", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			u, err := BySymbol(tt.symbol)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknown) {
					t.Fatalf("expected ErrUnknown, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.Symbol != tt.want {
				t.Fatalf("expected symbol %s, got %s", tt.want, u.Symbol)
			}
			if u.Factor <= 0 {
				t.Fatalf("catalogue unit %s has non-positive factor %v", u.Symbol, u.Factor)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	litre := mustUnit(t, "l")
	decilitre := mustUnit(t, "dl")
	millilitre := mustUnit(t, "ml")
	kilogram := mustUnit(t, "kg")
	gram := mustUnit(t, "g")
	piece := mustUnit(t, "piece")
	dozen := mustUnit(t, "dozen")

	tests := []struct {
		name     string
		value    float64
		from, to Unit
		want     float64
	}{
		{"litre to decilitre", 1, litre, decilitre, 10},
		{"decilitre to litre", 10, decilitre, litre, 1},
		{"litre to millilitre", 0.5, litre, millilitre, 500},
		{"kilogram to gram", 2, kilogram, gram, 2000},
		{"dozen to piece", 1.5, dozen, piece, 18},
		{"same unit", 7, gram, gram, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.value, tt.from, tt.to)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestConvertIncompatible(t *testing.T) {
	litre := mustUnit(t, "l")
	kilogram := mustUnit(t, "kg")

	if _, err := Convert(5, litre, kilogram); !errors.Is(err, ErrIncompatible) {
		t.Fatalf("expected ErrIncompatible, got %v", err)
	}
	if _, err := Convert(5, kilogram, litre); !errors.Is(err, ErrIncompatible) {
		t.Fatalf("expected ErrIncompatible, got %v", err)
	}
}

// Round-tripping a value through any compatible pair must land back on
// itself within floating tolerance.
func TestConvertRoundTrip(t *testing.T) {
	values := []float64{0.001, 0.5, 1, 3.25, 1000}
	for _, d := range []Dimension{Volume, Mass, Count} {
		all := OfDimension(d)
		for _, a := range all {
			for _, b := range all {
				for _, v := range values {
					there, err := Convert(v, a, b)
					if err != nil {
						t.Fatalf("%s->%s: %v", a.Symbol, b.Symbol, err)
					}
					back, err := Convert(there, b, a)
					if err != nil {
						t.Fatalf("%s->%s: %v", b.Symbol, a.Symbol, err)
					}
					if math.Abs(back-v) > 1e-9*math.Max(1, v) {
						t.Fatalf("%s<->%s: round trip of %v came back as %v", a.Symbol, b.Symbol, v, back)
					}
				}
			}
		}
	}
}

func TestOfDimension(t *testing.T) {
	for _, d := range []Dimension{Volume, Mass, Count} {
		us := OfDimension(d)
		if len(us) == 0 {
			t.Fatalf("no units for dimension %s", d)
		}
		for _, u := range us {
			if u.Dimension != d {
				t.Fatalf("unit %s has dimension %s, expected %s", u.Symbol, u.Dimension, d)
			}
		}
	}
}

func mustUnit(t *testing.T, symbol string) Unit {
	t.Helper()
	u, err := BySymbol(symbol)
	if err != nil {
		t.Fatalf("unit %s: %v", symbol, err)
	}
	return u
}
