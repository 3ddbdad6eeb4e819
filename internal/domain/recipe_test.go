package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/hammamikhairi/fridgeplan/internal/units"
)

func TestNewRecipe(t *testing.T) {
	if _, err := NewRecipe("  ", "desc", "instr"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for blank name, got %v", err)
	}
	r, err := NewRecipe(" Omelette ", "Fluffy eggs", "Whisk, then fry.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name != "Omelette" {
		t.Fatalf("expected trimmed name, got %q", r.Name)
	}
}

func TestAddIngredient(t *testing.T) {
	piece := unit(t, "piece")
	litre := unit(t, "l")
	decilitre := unit(t, "dl")
	gram := unit(t, "g")

	r, _ := NewRecipe("Omelette", "", "")

	if err := r.AddIngredient("Egg", 2, piece); err != nil {
		t.Fatalf("add egg: %v", err)
	}
	if err := r.AddIngredient("Milk", 0.5, litre); err != nil {
		t.Fatalf("add milk: %v", err)
	}

	// Same name + compatible unit merges into the existing line,
	// converted into that line's unit: 2 dl on top of 0.5 l = 0.7 l.
	if err := r.AddIngredient("milk", 2, decilitre); err != nil {
		t.Fatalf("merge milk: %v", err)
	}
	if len(r.Ingredients) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(r.Ingredients))
	}
	milk := r.Ingredients[1]
	if milk.Unit.Symbol != "l" || math.Abs(milk.Quantity-0.7) > 1e-9 {
		t.Fatalf("expected 0.7 l of milk, got %v %s", milk.Quantity, milk.Unit.Symbol)
	}

	// Same name but a different dimension stays a separate line.
	if err := r.AddIngredient("Milk", 20, gram); err != nil {
		t.Fatalf("add milk powder: %v", err)
	}
	if len(r.Ingredients) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(r.Ingredients))
	}
}

func TestAddIngredientValidation(t *testing.T) {
	piece := unit(t, "piece")
	r, _ := NewRecipe("Omelette", "", "")

	tests := []struct {
		name     string
		ing      string
		quantity float64
		unit     units.Unit
	}{
		{"blank name", "  ", 1, piece},
		{"zero quantity", "Egg", 0, piece},
		{"negative quantity", "Egg", -2, piece},
		{"missing unit", "Egg", 1, units.Unit{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.AddIngredient(tt.ing, tt.quantity, tt.unit); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
	if len(r.Ingredients) != 0 {
		t.Fatalf("failed adds must not leave lines behind, got %d", len(r.Ingredients))
	}
}

func TestRecipeClone(t *testing.T) {
	piece := unit(t, "piece")
	r, _ := NewRecipe("Omelette", "", "")
	r.AddIngredient("Egg", 2, piece)

	clone := r.Clone()
	clone.Ingredients[0].Quantity = 99
	clone.AddIngredient("Salt", 1, unit(t, "g"))

	if r.Ingredients[0].Quantity != 2 {
		t.Fatalf("mutating the clone changed the original: %v", r.Ingredients[0].Quantity)
	}
	if len(r.Ingredients) != 1 {
		t.Fatalf("clone append leaked into the original: %d lines", len(r.Ingredients))
	}
}
