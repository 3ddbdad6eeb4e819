// Package domain defines the core types and interfaces for the fridge
// planner. All other packages depend on domain; domain depends only on
// the unit catalogue.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/fridgeplan/internal/units"
)

// Batch is one lot of an ingredient: a quantity of a named substance in
// a unit, bought at a per-unit price, expiring on a date. Quantity is
// never negative; operations that would drive it negative fail and leave
// the batch unchanged.
type Batch struct {
	ID           string
	Name         string
	Quantity     float64
	Unit         units.Unit
	PricePerUnit float64
	Expiry       time.Time
}

// NormalizeName is the canonical form used for ingredient identity:
// trimmed and lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewBatch validates and builds a batch. The expiry may already be in
// the past — spoiled stock is representable, it just never counts toward
// a recipe.
func NewBatch(name string, quantity, pricePerUnit float64, unit units.Unit, expiry time.Time) (Batch, error) {
	switch {
	case strings.TrimSpace(name) == "":
		return Batch{}, fmt.Errorf("%w: ingredient name is blank", ErrInvalid)
	case quantity < 0:
		return Batch{}, fmt.Errorf("%w: quantity %v is negative", ErrInvalid, quantity)
	case pricePerUnit <= 0:
		return Batch{}, fmt.Errorf("%w: price per unit must be positive, got %v", ErrInvalid, pricePerUnit)
	case unit.IsZero():
		return Batch{}, fmt.Errorf("%w: unit is missing", ErrInvalid)
	case expiry.IsZero():
		return Batch{}, fmt.Errorf("%w: expiry date is missing", ErrInvalid)
	}

	return Batch{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Quantity:     quantity,
		Unit:         unit,
		PricePerUnit: pricePerUnit,
		Expiry:       expiry,
	}, nil
}

// IncreaseQuantity adds delta, given in u, to the batch. The delta is
// converted into the batch's own unit first.
func (b *Batch) IncreaseQuantity(delta float64, u units.Unit) error {
	if delta < 0 {
		return fmt.Errorf("%w: increase by %v is negative", ErrInvalid, delta)
	}
	converted, err := units.Convert(delta, u, b.Unit)
	if err != nil {
		return err
	}
	b.Quantity += converted
	return nil
}

// DecreaseQuantity removes delta, given in u, from the batch. Both sides
// are mapped to the dimension's base unit and subtracted there, so the
// zero-crossing check happens in one consistent unit space and repeated
// unit switches don't compound rounding error.
func (b *Batch) DecreaseQuantity(delta float64, u units.Unit) error {
	if delta < 0 {
		return fmt.Errorf("%w: decrease by %v is negative", ErrInvalid, delta)
	}
	if !units.Compatible(u, b.Unit) {
		return fmt.Errorf("cannot take %s from stock held in %s: %w",
			u.Symbol, b.Unit.Symbol, units.ErrIncompatible)
	}

	haveBase := b.Quantity * b.Unit.Factor
	wantBase := delta * u.Factor
	if wantBase > haveBase {
		return fmt.Errorf("%w: want %g %s, have %g %s",
			ErrInsufficientQuantity, delta, u.Symbol, b.Quantity, b.Unit.Symbol)
	}

	b.Quantity = (haveBase - wantBase) / b.Unit.Factor
	return nil
}

// IsExpired reports whether the batch's expiry date is strictly before
// asOf. A batch expiring today is still usable today.
func (b Batch) IsExpired(asOf time.Time) bool {
	return b.Expiry.Before(asOf)
}

// Price is the batch's current value.
func (b Batch) Price() float64 {
	return b.Quantity * b.PricePerUnit
}

// SameKind reports whether two batches may be merged into one bin:
// identical normalized name, per-unit price, and expiry date, with
// compatible units.
func (b Batch) SameKind(other Batch) bool {
	return NormalizeName(b.Name) == NormalizeName(other.Name) &&
		b.PricePerUnit == other.PricePerUnit &&
		b.Expiry.Equal(other.Expiry) &&
		units.Compatible(b.Unit, other.Unit)
}
