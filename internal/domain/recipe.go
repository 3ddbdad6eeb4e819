package domain

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/fridgeplan/internal/units"
)

// Recipe is a named dish: what it is, how to make it, and what it needs.
// Required ingredients carry no price or expiry — they name a demand,
// not a lot of stock.
type Recipe struct {
	Name        string
	Description string
	Instruction string
	Ingredients []RecipeIngredient
}

// RecipeIngredient is one required-ingredient line of a recipe.
type RecipeIngredient struct {
	Name     string
	Quantity float64
	Unit     units.Unit
}

// NewRecipe validates and builds an empty recipe.
func NewRecipe(name, description, instruction string) (*Recipe, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: recipe name is blank", ErrInvalid)
	}
	return &Recipe{
		Name:        strings.TrimSpace(name),
		Description: description,
		Instruction: instruction,
	}, nil
}

// AddIngredient adds a required-ingredient line. When a line with the
// same normalized name and a compatible unit already exists, the new
// quantity is converted into that line's unit and summed — the same
// merge rule the fridge applies, minus price and expiry.
func (r *Recipe) AddIngredient(name string, quantity float64, u units.Unit) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: ingredient name is blank", ErrInvalid)
	case quantity <= 0:
		return fmt.Errorf("%w: required quantity must be positive, got %v", ErrInvalid, quantity)
	case u.IsZero():
		return fmt.Errorf("%w: unit is missing", ErrInvalid)
	}

	norm := NormalizeName(name)
	for i := range r.Ingredients {
		line := &r.Ingredients[i]
		if NormalizeName(line.Name) != norm || !units.Compatible(line.Unit, u) {
			continue
		}
		converted, err := units.Convert(quantity, u, line.Unit)
		if err != nil {
			return err
		}
		line.Quantity += converted
		return nil
	}

	r.Ingredients = append(r.Ingredients, RecipeIngredient{
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
		Unit:     u,
	})
	return nil
}

// Clone returns a deep copy of the recipe.
func (r *Recipe) Clone() *Recipe {
	out := *r
	out.Ingredients = append([]RecipeIngredient(nil), r.Ingredients...)
	return &out
}
