package fridge

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hammamikhairi/fridgeplan/internal/domain"
	"github.com/hammamikhairi/fridgeplan/internal/logger"
	"github.com/hammamikhairi/fridgeplan/internal/units"
)

func setup(t *testing.T) (*Memory, context.Context) {
	t.Helper()
	return NewMemory(logger.New(logger.LevelOff, nil)), context.Background()
}

func unit(t *testing.T, symbol string) units.Unit {
	t.Helper()
	u, err := units.BySymbol(symbol)
	if err != nil {
		t.Fatalf("unit %s: %v", symbol, err)
	}
	return u
}

func batch(t *testing.T, name string, qty, price float64, symbol string, expiry time.Time) domain.Batch {
	t.Helper()
	b, err := domain.NewBatch(name, qty, price, unit(t, symbol), expiry)
	if err != nil {
		t.Fatalf("batch %s: %v", name, err)
	}
	return b
}

var day = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

func TestAddMergesSameKind(t *testing.T) {
	f, ctx := setup(t)
	expiry := day.AddDate(0, 0, 5)

	if err := f.Add(ctx, batch(t, "Milk", 1, 30, "l", expiry)); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Same kind, different compatible unit: 5 dl merges into the litre bin.
	if err := f.Add(ctx, batch(t, "milk", 5, 30, "dl", expiry)); err != nil {
		t.Fatalf("add merge: %v", err)
	}

	got, err := f.FindByName(ctx, "MILK")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one merged bin, got %d", len(got))
	}
	if math.Abs(got[0].Quantity-1.5) > 1e-9 || got[0].Unit.Symbol != "l" {
		t.Fatalf("expected 1.5 l, got %v %s", got[0].Quantity, got[0].Unit.Symbol)
	}

	// Merged totals value the same as one batch of the summed quantity.
	total, err := f.TotalValue(ctx)
	if err != nil {
		t.Fatalf("total value: %v", err)
	}
	if math.Abs(total-45) > 1e-9 {
		t.Fatalf("expected total value 45, got %v", total)
	}
}

func TestAddDifferentKindKeepsSeparateBins(t *testing.T) {
	f, ctx := setup(t)
	expiry := day.AddDate(0, 0, 5)

	f.Add(ctx, batch(t, "Milk", 1, 30, "l", expiry))

	tests := []struct {
		name string
		b    domain.Batch
	}{
		{"different price", batch(t, "Milk", 1, 35, "l", expiry)},
		{"different expiry", batch(t, "Milk", 1, 30, "l", expiry.AddDate(0, 0, 2))},
		{"different dimension", batch(t, "Milk", 200, 30, "g", expiry)},
	}

	want := 1
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.Add(ctx, tt.b); err != nil {
				t.Fatalf("add: %v", err)
			}
			want++
			got, _ := f.FindByName(ctx, "milk")
			if len(got) != want {
				t.Fatalf("expected %d bins, got %d", want, len(got))
			}
		})
	}
}

func TestAddEmptyBatchDoesNotPersist(t *testing.T) {
	f, ctx := setup(t)
	if err := f.Add(ctx, batch(t, "Milk", 0, 30, "l", day.AddDate(0, 0, 5))); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, _ := f.FindByName(ctx, "milk")
	if len(got) != 0 {
		t.Fatalf("empty batch must not persist, got %d bins", len(got))
	}
}

func TestRemoveQuantity(t *testing.T) {
	expiry := day.AddDate(0, 0, 5)

	t.Run("exact zero removes the bin", func(t *testing.T) {
		f, ctx := setup(t)
		f.Add(ctx, batch(t, "Milk", 1, 30, "l", expiry))

		// 10 dl == 1 l exactly.
		if err := f.RemoveQuantity(ctx, "Milk", 10, unit(t, "dl"), expiry); err != nil {
			t.Fatalf("remove: %v", err)
		}
		got, _ := f.FindByName(ctx, "milk")
		if len(got) != 0 {
			t.Fatalf("expected bin removed, got %d bins", len(got))
		}
	})

	t.Run("partial removal keeps the bin", func(t *testing.T) {
		f, ctx := setup(t)
		f.Add(ctx, batch(t, "Egg", 6, 3, "piece", expiry))

		if err := f.RemoveQuantity(ctx, "Egg", 5, unit(t, "piece"), expiry); err != nil {
			t.Fatalf("remove: %v", err)
		}
		got, _ := f.FindByName(ctx, "egg")
		if len(got) != 1 || got[0].Quantity != 1 {
			t.Fatalf("expected 1 piece left, got %+v", got)
		}
	})

	t.Run("overdraw fails and changes nothing", func(t *testing.T) {
		f, ctx := setup(t)
		f.Add(ctx, batch(t, "Milk", 1, 30, "l", expiry))

		err := f.RemoveQuantity(ctx, "Milk", 2, unit(t, "l"), expiry)
		if !errors.Is(err, domain.ErrInsufficientQuantity) {
			t.Fatalf("expected ErrInsufficientQuantity, got %v", err)
		}
		got, _ := f.FindByName(ctx, "milk")
		if len(got) != 1 || got[0].Quantity != 1 {
			t.Fatalf("failed remove must not change state, got %+v", got)
		}
	})

	t.Run("no matching bin", func(t *testing.T) {
		f, ctx := setup(t)
		f.Add(ctx, batch(t, "Milk", 1, 30, "l", expiry))

		tests := []struct {
			name   string
			item   string
			u      units.Unit
			expiry time.Time
		}{
			{"unknown name", "Cream", unit(t, "l"), expiry},
			{"wrong expiry", "Milk", unit(t, "l"), expiry.AddDate(0, 0, 1)},
			{"wrong dimension", "Milk", unit(t, "kg"), expiry},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := f.RemoveQuantity(ctx, tt.item, 1, tt.u, tt.expiry)
				if !errors.Is(err, domain.ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
			})
		}
	})
}

func TestFindExpiringBefore(t *testing.T) {
	f, ctx := setup(t)
	f.Add(ctx, batch(t, "Milk", 1, 30, "l", day.AddDate(0, 0, 2)))
	f.Add(ctx, batch(t, "Egg", 6, 3, "piece", day.AddDate(0, 0, 10)))
	f.Add(ctx, batch(t, "Cream", 2, 12, "dl", day.AddDate(0, 0, 5)))

	got, err := f.FindExpiringBefore(ctx, day.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	// Strict <: the cream expiring exactly on the cutoff is excluded.
	if len(got) != 1 || got[0].Name != "Milk" {
		t.Fatalf("expected only Milk, got %+v", got)
	}

	got, _ = f.FindExpiringBefore(ctx, day.AddDate(0, 0, 6))
	if len(got) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(got))
	}
	if !got[0].Expiry.Before(got[1].Expiry) {
		t.Fatal("expected soonest-first ordering")
	}
}

func TestAllSortedByName(t *testing.T) {
	f, ctx := setup(t)
	expiry := day.AddDate(0, 0, 5)
	f.Add(ctx, batch(t, "milk", 1, 30, "l", expiry))
	f.Add(ctx, batch(t, "Butter", 250, 0.08, "g", expiry))
	f.Add(ctx, batch(t, "EGG", 6, 3, "piece", expiry))
	// Second milk bin at another price, to check stability on name ties.
	f.Add(ctx, batch(t, "Milk", 1, 35, "l", expiry))

	got, err := f.AllSortedByName(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(got))
	}
	order := []string{"butter", "egg", "milk", "milk"}
	for i, want := range order {
		if domain.NormalizeName(got[i].Name) != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i].Name)
		}
	}
	// Ties keep insertion order: the 30/l bin was added first.
	if got[2].PricePerUnit != 30 || got[3].PricePerUnit != 35 {
		t.Fatalf("expected stable tie order, got prices %v then %v", got[2].PricePerUnit, got[3].PricePerUnit)
	}
}

func TestValuation(t *testing.T) {
	f, ctx := setup(t)
	f.Add(ctx, batch(t, "Milk", 1, 30, "l", day.AddDate(0, 0, 2)))
	f.Add(ctx, batch(t, "Egg", 6, 3, "piece", day.AddDate(0, 0, 10)))

	total, err := f.TotalValue(ctx)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if math.Abs(total-48) > 1e-9 {
		t.Fatalf("expected 48, got %v", total)
	}

	expiring, err := f.ValueExpiringBefore(ctx, day.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("value expiring: %v", err)
	}
	if math.Abs(expiring-30) > 1e-9 {
		t.Fatalf("expected 30, got %v", expiring)
	}
}

// Query results are snapshots: mutating them must not reach the fridge.
func TestQueriesReturnCopies(t *testing.T) {
	f, ctx := setup(t)
	expiry := day.AddDate(0, 0, 5)
	f.Add(ctx, batch(t, "Milk", 1, 30, "l", expiry))

	got, _ := f.FindByName(ctx, "milk")
	got[0].Quantity = 999

	again, _ := f.FindByName(ctx, "milk")
	if again[0].Quantity != 1 {
		t.Fatalf("caller mutation leaked into the fridge: %v", again[0].Quantity)
	}

	all, _ := f.AllSortedByName(ctx)
	all[0].Quantity = 999
	again, _ = f.FindByName(ctx, "milk")
	if again[0].Quantity != 1 {
		t.Fatalf("caller mutation via AllSortedByName leaked: %v", again[0].Quantity)
	}
}
