package domain

import (
	"context"
	"time"

	"github.com/hammamikhairi/fridgeplan/internal/units"
)

// Inventory holds ingredient batches. Implementations are in-memory
// today; the port keeps the planner and the UI from reaching into the
// store's internals. All query methods return snapshots — mutating a
// returned batch never touches the fridge.
type Inventory interface {
	Add(ctx context.Context, b Batch) error
	RemoveQuantity(ctx context.Context, name string, quantity float64, u units.Unit, expiry time.Time) error
	FindByName(ctx context.Context, name string) ([]Batch, error)
	FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]Batch, error)
	AllSortedByName(ctx context.Context) ([]Batch, error)
	TotalValue(ctx context.Context) (float64, error)
	ValueExpiringBefore(ctx context.Context, cutoff time.Time) (float64, error)
}

// Cookbook stores recipes uniquely by normalized name. Reads return
// copies; recipes are mutated only through AddIngredientToRecipe.
type Cookbook interface {
	AddRecipe(ctx context.Context, r *Recipe) error
	AddIngredientToRecipe(ctx context.Context, recipeName, ingredientName string, quantity float64, u units.Unit) error
	Get(ctx context.Context, name string) (*Recipe, error)
	All(ctx context.Context) ([]Recipe, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout or route through the terminal UI.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// CommandParser converts raw user input into structured commands.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}
