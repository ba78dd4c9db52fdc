// Package registry provides a global registry for game mode factories.
// Modes register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-brawl/internal/core"
)

// Game is the interface every playable mode implements.
// Modes contain pure logic with no Bubble Tea dependency.
// The platform handles key mapping, timing, and drawing the screen.
type Game interface {
	// ID returns a unique identifier for this mode (e.g., "versus").
	// Used for CLI commands and match history.
	ID() string

	// Title returns a human-readable name for display (e.g., "Versus CPU").
	Title() string

	// Reset initializes or resets the match.
	// Called once at start and again when restarting after game over.
	// The RuntimeConfig provides screen dimensions, RNG seed and file paths.
	Reset(cfg core.RuntimeConfig) error

	// Step advances the simulation by one fixed tick.
	// Input holds the key presses of every local player this tick.
	// Returns the result of this tick including current game state.
	Step(in core.MultiInputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state (HP, game over, paused).
	State() core.GameState

	// Summary describes the match for the results table.
	Summary() core.MatchSummary
}

// GameInfo contains metadata about a registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a mode.
// It must be cheap: Register calls it once to read the title.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a mode factory to the registry.
// Typically called from an init() function.
// Panics if a mode with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	g := f()
	titles[id] = g.Title()
}

// List returns information about all registered modes, sorted by ID.
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

// Create instantiates a new mode by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown mode %q", id)
	}

	return f(), nil
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
