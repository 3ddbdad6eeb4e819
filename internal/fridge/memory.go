// Package fridge provides inventory implementations.
package fridge

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hammamikhairi/fridgeplan/internal/domain"
	"github.com/hammamikhairi/fridgeplan/internal/logger"
	"github.com/hammamikhairi/fridgeplan/internal/units"
)

// Compile-time interface check.
var _ domain.Inventory = (*Memory)(nil)

// Memory is an in-memory fridge. Batches are grouped by normalized name;
// within a name, bins are kept in insertion order. Safe for concurrent
// access — every find-then-mutate sequence runs under one critical
// section, and no batch with quantity <= 0 ever persists.
type Memory struct {
	mu   sync.RWMutex
	bins map[string][]*domain.Batch
	log  *logger.Logger
}

// NewMemory creates an empty in-memory fridge.
func NewMemory(log *logger.Logger) *Memory {
	return &Memory{
		bins: make(map[string][]*domain.Batch),
		log:  log,
	}
}

// Add stores a batch. When a bin of the same kind already exists (same
// normalized name, per-unit price and expiry, compatible unit), the new
// quantity is merged into it; otherwise the batch becomes a new bin
// under its name. A batch that would arrive empty is dropped, since an
// empty bin may never persist.
func (f *Memory) Add(ctx context.Context, b domain.Batch) error {
	key := domain.NormalizeName(b.Name)
	if key == "" {
		return fmt.Errorf("%w: ingredient name is blank", domain.ErrInvalid)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, bin := range f.bins[key] {
		if bin.SameKind(b) {
			if err := bin.IncreaseQuantity(b.Quantity, b.Unit); err != nil {
				return err
			}
			f.log.Debug("merged %g %s of %s into bin %s (now %g %s)",
				b.Quantity, b.Unit.Symbol, key, bin.ID, bin.Quantity, bin.Unit.Symbol)
			return nil
		}
	}

	if b.Quantity == 0 {
		f.log.Debug("dropping empty batch of %s", key)
		return nil
	}

	stored := b
	f.bins[key] = append(f.bins[key], &stored)
	f.log.Debug("new bin for %s: %g %s @ %g, expires %s",
		key, b.Quantity, b.Unit.Symbol, b.PricePerUnit, b.Expiry.Format("2006-01-02"))
	return nil
}

// RemoveQuantity takes quantity (in u) out of the bin identified by
// name, expiry date and unit dimension. The bin is deleted when the
// decrease lands on exactly zero.
func (f *Memory) RemoveQuantity(ctx context.Context, name string, quantity float64, u units.Unit, expiry time.Time) error {
	key := domain.NormalizeName(name)

	f.mu.Lock()
	defer f.mu.Unlock()

	bins := f.bins[key]
	for i, bin := range bins {
		if !bin.Expiry.Equal(expiry) || !units.Compatible(bin.Unit, u) {
			continue
		}
		if err := bin.DecreaseQuantity(quantity, u); err != nil {
			return err
		}
		if bin.Quantity == 0 {
			f.bins[key] = append(bins[:i], bins[i+1:]...)
			if len(f.bins[key]) == 0 {
				delete(f.bins, key)
			}
			f.log.Debug("bin %s of %s emptied and removed", bin.ID, key)
		} else {
			f.log.Debug("took %g %s of %s, %g %s left", quantity, u.Symbol, key, bin.Quantity, bin.Unit.Symbol)
		}
		return nil
	}

	return fmt.Errorf("%w: no %s %q stock expiring %s",
		domain.ErrNotFound, u.Dimension, name, expiry.Format("2006-01-02"))
}

// FindByName returns snapshots of every bin stored under the name.
func (f *Memory) FindByName(ctx context.Context, name string) ([]domain.Batch, error) {
	key := domain.NormalizeName(name)

	f.mu.RLock()
	defer f.mu.RUnlock()

	bins := f.bins[key]
	out := make([]domain.Batch, 0, len(bins))
	for _, bin := range bins {
		out = append(out, *bin)
	}
	return out, nil
}

// FindExpiringBefore returns snapshots of every bin whose expiry is
// strictly before cutoff, soonest first.
func (f *Memory) FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]domain.Batch, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []domain.Batch
	for _, bins := range f.bins {
		for _, bin := range bins {
			if bin.Expiry.Before(cutoff) {
				out = append(out, *bin)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Expiry.Equal(out[j].Expiry) {
			return out[i].Expiry.Before(out[j].Expiry)
		}
		return domain.NormalizeName(out[i].Name) < domain.NormalizeName(out[j].Name)
	})
	f.log.Debug("expiring before %s: %d bin(s)", cutoff.Format("2006-01-02"), len(out))
	return out, nil
}

// AllSortedByName returns snapshots of every bin, ordered by normalized
// name (case-insensitive); bins sharing a name keep insertion order.
func (f *Memory) AllSortedByName(ctx context.Context) ([]domain.Batch, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	keys := make([]string, 0, len(f.bins))
	for key := range f.bins {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []domain.Batch
	for _, key := range keys {
		for _, bin := range f.bins[key] {
			out = append(out, *bin)
		}
	}
	return out, nil
}

// TotalValue sums quantity * pricePerUnit over every bin. The sum is
// accumulated in decimal so long add/remove sequences don't drift the
// reported total.
func (f *Memory) TotalValue(ctx context.Context) (float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	total := decimal.Zero
	for _, bins := range f.bins {
		for _, bin := range bins {
			total = total.Add(binValue(bin))
		}
	}
	return total.InexactFloat64(), nil
}

// ValueExpiringBefore sums the value of every bin expiring strictly
// before cutoff.
func (f *Memory) ValueExpiringBefore(ctx context.Context, cutoff time.Time) (float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	total := decimal.Zero
	for _, bins := range f.bins {
		for _, bin := range bins {
			if bin.Expiry.Before(cutoff) {
				total = total.Add(binValue(bin))
			}
		}
	}
	return total.InexactFloat64(), nil
}

func binValue(b *domain.Batch) decimal.Decimal {
	return decimal.NewFromFloat(b.Quantity).Mul(decimal.NewFromFloat(b.PricePerUnit))
}
