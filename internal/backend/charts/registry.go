package charts

import (
	"context"
	"fmt"
	"slices"
)

// Recipe builds a chart from current data. Recipes are re-run on every
// request; nothing is cached between calls.
type Recipe func(ctx context.Context) (*BarChart, error)

// Registry manages named chart recipes
type Registry struct {
	recipes map[string]Recipe
}

// NewRegistry creates a new chart registry
func NewRegistry() *Registry {
	return &Registry{
		recipes: make(map[string]Recipe),
	}
}

// Register adds a recipe to the registry
func (r *Registry) Register(name string, recipe Recipe) error {
	if name == "" {
		return fmt.Errorf("chart name cannot be empty")
	}
	if recipe == nil {
		return fmt.Errorf("chart recipe cannot be nil")
	}
	if _, exists := r.recipes[name]; exists {
		return fmt.Errorf("chart %s is already registered", name)
	}
	r.recipes[name] = recipe
	return nil
}

// Build runs the named recipe
func (r *Registry) Build(ctx context.Context, name string) (*BarChart, error) {
	recipe, exists := r.recipes[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChart, name)
	}

	chart, err := recipe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart %s: %w", name, err)
	}
	return chart, nil
}

// IsRegistered checks if a chart with the given name is registered
func (r *Registry) IsRegistered(name string) bool {
	_, exists := r.recipes[name]
	return exists
}

// Names returns all registered chart names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.recipes))
	for name := range r.recipes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
