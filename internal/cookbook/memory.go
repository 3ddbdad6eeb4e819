// Package cookbook provides recipe book implementations.
package cookbook

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/fridgeplan/internal/domain"
	"github.com/hammamikhairi/fridgeplan/internal/logger"
	"github.com/hammamikhairi/fridgeplan/internal/units"
)

// Compile-time interface check.
var _ domain.Cookbook = (*Memory)(nil)

// Memory holds recipes in memory, uniquely keyed by normalized name and
// listed in insertion order. Safe for concurrent access. Reads hand out
// deep copies; stored recipes change only through AddIngredientToRecipe.
type Memory struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	order   []string
	log     *logger.Logger
}

// NewMemory creates a cookbook preloaded with built-in recipes.
func NewMemory(log *logger.Logger) *Memory {
	b := &Memory{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
	b.seed()
	return b
}

// AddRecipe inserts a recipe. A recipe whose normalized name is already
// taken is rejected.
func (b *Memory) AddRecipe(ctx context.Context, r *domain.Recipe) error {
	if r == nil {
		return fmt.Errorf("%w: recipe is nil", domain.ErrInvalid)
	}
	key := domain.NormalizeName(r.Name)
	if key == "" {
		return fmt.Errorf("%w: recipe name is blank", domain.ErrInvalid)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.recipes[key]; ok {
		return fmt.Errorf("recipe %q: %w", r.Name, domain.ErrAlreadyExists)
	}
	b.recipes[key] = r.Clone()
	b.order = append(b.order, key)
	b.log.Info("recipe added: %s (%d ingredient lines)", r.Name, len(r.Ingredients))
	return nil
}

// AddIngredientToRecipe adds a required-ingredient line to a stored
// recipe, merging into an existing line when name and unit dimension
// match.
func (b *Memory) AddIngredientToRecipe(ctx context.Context, recipeName, ingredientName string, quantity float64, u units.Unit) error {
	key := domain.NormalizeName(recipeName)

	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.recipes[key]
	if !ok {
		return fmt.Errorf("recipe %q: %w", recipeName, domain.ErrNotFound)
	}
	if err := r.AddIngredient(ingredientName, quantity, u); err != nil {
		return err
	}
	b.log.Debug("recipe %s now needs %s", r.Name, ingredientName)
	return nil
}

// Get returns a copy of the recipe stored under the name.
func (b *Memory) Get(ctx context.Context, name string) (*domain.Recipe, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r, ok := b.recipes[domain.NormalizeName(name)]
	if !ok {
		b.log.Debug("recipe not found: %s", name)
		return nil, fmt.Errorf("recipe %q: %w", name, domain.ErrNotFound)
	}
	return r.Clone(), nil
}

// All returns copies of every recipe, in insertion order.
func (b *Memory) All(ctx context.Context) ([]domain.Recipe, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Recipe, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, *b.recipes[key].Clone())
	}
	return out, nil
}

// seed populates the book with built-in recipes.
func (b *Memory) seed() {
	for _, r := range []*domain.Recipe{
		b.omelette(),
		b.pancakes(),
		b.tomatoSalad(),
	} {
		b.recipes[domain.NormalizeName(r.Name)] = r
		b.order = append(b.order, domain.NormalizeName(r.Name))
	}
	b.log.Debug("seeded %d recipes", len(b.order))
}

func (b *Memory) omelette() *domain.Recipe {
	r, _ := domain.NewRecipe("Omelette",
		"Two eggs, a splash of milk, no fuss.",
		"Whisk the eggs with the milk and a pinch of salt. Melt the butter in a small pan over medium heat, pour in the eggs, and fold once the edges set. Serve immediately.")
	r.AddIngredient("Egg", 2, mustUnit("piece"))
	r.AddIngredient("Milk", 0.5, mustUnit("l"))
	r.AddIngredient("Butter", 10, mustUnit("g"))
	return r
}

func (b *Memory) pancakes() *domain.Recipe {
	r, _ := domain.NewRecipe("Pancakes",
		"Thin weekend pancakes. The first one is always a loss.",
		"Whisk flour, milk, eggs and sugar into a smooth batter. Rest 10 minutes. Fry thin in a buttered pan, flipping once the surface bubbles.")
	r.AddIngredient("Flour", 300, mustUnit("g"))
	r.AddIngredient("Milk", 3, mustUnit("dl"))
	r.AddIngredient("Egg", 2, mustUnit("piece"))
	r.AddIngredient("Sugar", 50, mustUnit("g"))
	r.AddIngredient("Butter", 20, mustUnit("g"))
	return r
}

func (b *Memory) tomatoSalad() *domain.Recipe {
	r, _ := domain.NewRecipe("Tomato Salad",
		"Ripe tomatoes, oil, salt. That's the recipe.",
		"Slice the tomatoes, salt them, and let them sit five minutes. Dress with olive oil and black pepper.")
	r.AddIngredient("Tomato", 3, mustUnit("piece"))
	r.AddIngredient("Olive Oil", 2, mustUnit("tbsp"))
	return r
}

// mustUnit resolves a catalogue symbol for seed data. Seed symbols are
// fixed at compile time, so a failed lookup is a programming error.
func mustUnit(symbol string) units.Unit {
	u, err := units.BySymbol(symbol)
	if err != nil {
		panic(err)
	}
	return u
}
