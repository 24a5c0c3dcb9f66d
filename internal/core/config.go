package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickSeconds returns the simulated duration of one tick in seconds.
// A non-positive tick rate falls back to 60 ticks per second.
func (c RuntimeConfig) TickSeconds() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// Phase names the lifecycle stage a game reports to the platform.
type Phase string

const (
	PhaseRegistering Phase = "registering"
	PhaseIdle        Phase = "idle"
	PhaseRunning     Phase = "running"
	PhaseCheckpoint  Phase = "checkpoint"
	PhaseEnded       Phase = "ended"
)

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Phase     Phase
	Score     int  // Current score, may be negative
	HighScore int  // Best score known to this session
	Lives     int  // Remaining lives, -1 when the variant has no lives
	GameOver  bool // Whether the run has ended
	Paused    bool // Whether the simulation is frozen (checkpoint)
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	Hits  int // Obstacles hit this tick
	Picks int // Collectibles picked this tick
}
