// Package registry provides a global registry for game factories.
// Game variants register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/chocodash/internal/core"
)

// Game is the interface the platform drives. Implementations contain pure
// logic; the platform handles input mapping, timing, persistence and rendering.
type Game interface {
	// ID returns a unique identifier for this variant (e.g., "runner").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes the game. Called once before the first Step and
	// whenever the platform needs a fresh instance (e.g., after a resize).
	Reset(cfg core.RuntimeConfig)

	// Step applies one frame of input and advances the simulation by one tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState

	// CompleteRegistration records who is playing and leaves the registration phase.
	CompleteRegistration(player string)

	// ResolveCheckpoint resumes a run paused at a checkpoint.
	ResolveCheckpoint()

	// EndRun ends the current run.
	EndRun()

	// Teardown drops every live object and stops the run. Called when the
	// player leaves the game screen.
	Teardown()

	// AttachHighScore seeds the persisted best score and the sink that
	// receives every improvement. Must be called before Reset.
	AttachHighScore(best int, sink func(score int))

	// Player returns the registered player name.
	Player() string

	// RunID identifies the current run for score and reading records.
	RunID() string
}

// Describer is implemented by games that can summarize their rules.
type Describer interface {
	Description() string
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID          string
	Title       string
	Description string // empty when the game is not a Describer
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	g := f()
	info := GameInfo{ID: id, Title: g.Title()}
	if d, ok := g.(Describer); ok {
		info.Description = d.Description()
	}
	factories[id] = f
	infos[id] = info
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
