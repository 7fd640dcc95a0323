package core

// RuntimeConfig contains configuration passed to a simulation at initialization.
// Views use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 10)
	Seed     int64 // RNG seed for deterministic battles
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 10,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a running battle.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Tick     int    // Simulation ticks advanced so far; one tick is one round
	GameOver bool   // Whether the battle has concluded
	Paused   bool   // Whether the view is paused
	Winner   string // Winning agent, empty while running or on a draw
	Reason   string // victory, draw or round_limit once GameOver
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
