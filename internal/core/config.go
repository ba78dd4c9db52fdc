package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 30)
	Seed     int64 // RNG seed for deterministic gameplay

	ConfigPath string // Match config file, empty for the default search order
	FramesDir  string // Extra frame table directory
	ScriptPath string // CPU Lua script, empty for the built-in one
	Difficulty string // Difficulty preset name
	P1, P2     string // Fighter kind overrides
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int      // Player 1's score (remaining HP at the end of a match)
	GameOver bool     // Whether the match has ended
	Paused   bool     // Whether the game is paused
	Winner   PlayerID // Set when GameOver; zero means a draw
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any events that occurred.
type StepResult struct {
	State GameState
	Hits  int // Hits landed this tick, for feedback such as a bell
}

// Match end reasons.
const (
	EndKO      = "ko"
	EndTimeout = "timeout"
	EndQuit    = "quit"
)

// MatchSummary describes a match for history and the results screen.
type MatchSummary struct {
	Mode      string
	P1Kind    string
	P2Kind    string
	P1HP      int
	P2HP      int
	Winner    PlayerID
	EndReason string // One of the End* values, empty while running
	Ticks     int
	Seed      int64
}
