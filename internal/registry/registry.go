// Package registry provides a global registry for battle scenario factories.
// Scenario packages register themselves in init() functions, allowing the
// platform to discover and instantiate battles without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/battlesim/internal/core"
)

// Game is the interface every viewable battle implements.
// Implementations contain pure logic with no Bubble Tea dependency.
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns the scenario identifier (e.g., "duel").
	// Used for CLI commands and battle history.
	ID() string

	// Title returns a human-readable name for display (e.g., "Fighter vs Rogue").
	Title() string

	// Reset starts a fresh battle.
	// Called once at start and again when restarting after conclusion.
	// The RuntimeConfig provides screen dimensions and the dice seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the battle by one fixed tick.
	// Input only drives the view (pause, single-step); it never alters combat.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current battle into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current battle state.
	State() core.GameState
}

// GameInfo contains metadata about a registered scenario.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a battle.
type Factory func() (Game, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a factory to the registry.
// Typically called from an init() function.
// Panics if a scenario with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered scenarios, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a battle by its scenario ID.
// Returns an error if the ID is not registered or the factory fails.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown scenario %q", id)
	}

	g, err := f()
	if err != nil {
		return nil, fmt.Errorf("registry: create %q: %w", id, err)
	}
	return g, nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
