// Package planner implements the meal planning checks: which recipes the
// current fridge contents can cover.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/fridgeplan/internal/domain"
	"github.com/hammamikhairi/fridgeplan/internal/logger"
)

// Option configures the planner.
type Option func(*Planner)

// WithNow overrides the planner's clock. Used by tests to pin "today".
func WithNow(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

// Planner answers availability questions over an Inventory and a
// Cookbook. It holds no state of its own beyond those two references and
// only reads through their ports.
type Planner struct {
	inventory domain.Inventory
	book      domain.Cookbook
	log       *logger.Logger
	now       func() time.Time
}

// New creates a planner over the given inventory and cookbook.
func New(inventory domain.Inventory, book domain.Cookbook, log *logger.Logger, opts ...Option) *Planner {
	p := &Planner{
		inventory: inventory,
		book:      book,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CanMake reports whether every required-ingredient line of the recipe
// is covered by non-expired stock. An unknown recipe name is an error;
// missing or short stock is not — it just makes the answer false.
func (p *Planner) CanMake(ctx context.Context, recipeName string) (bool, error) {
	recipe, err := p.book.Get(ctx, recipeName)
	if err != nil {
		return false, fmt.Errorf("getting recipe: %w", err)
	}

	asOf := p.now()
	for _, line := range recipe.Ingredients {
		covered, err := p.lineCovered(ctx, line, asOf)
		if err != nil {
			return false, err
		}
		if !covered {
			p.log.Debug("recipe %q blocked on %s (%g %s needed)",
				recipe.Name, line.Name, line.Quantity, line.Unit.Symbol)
			return false, nil
		}
	}
	return true, nil
}

// lineCovered compares required and available amounts in the dimension's
// base unit. Availability sums every non-expired, dimension-compatible
// bin under the ingredient's name — a restock at a new price still
// counts.
func (p *Planner) lineCovered(ctx context.Context, line domain.RecipeIngredient, asOf time.Time) (bool, error) {
	batches, err := p.inventory.FindByName(ctx, line.Name)
	if err != nil {
		return false, fmt.Errorf("reading stock for %s: %w", line.Name, err)
	}

	var haveBase float64
	for _, b := range batches {
		if b.IsExpired(asOf) || b.Unit.Dimension != line.Unit.Dimension {
			continue
		}
		haveBase += b.Quantity * b.Unit.Factor
	}
	return haveBase >= line.Quantity*line.Unit.Factor, nil
}

// Suggested returns every recipe the fridge currently covers, in
// cookbook order.
func (p *Planner) Suggested(ctx context.Context) ([]domain.Recipe, error) {
	all, err := p.book.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}

	var out []domain.Recipe
	for _, r := range all {
		ok, err := p.CanMake(ctx, r.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	p.log.Debug("%d of %d recipes currently makeable", len(out), len(all))
	return out, nil
}
