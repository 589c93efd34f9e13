package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
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

// Outcome describes how a game (or level attempt) ended.
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomeCleared  Outcome = "cleared"      // Level target reached
	OutcomeBlocked  Outcome = "blocked"      // Grid full with no legal merge
	OutcomeTimeout  Outcome = "timeout"      // Level time limit expired
	OutcomeNoMoves  Outcome = "out_of_moves" // Level drop limit used up
	OutcomeStuck    Outcome = "stuck"        // No drop possible, but the grid is not blocked
	OutcomeFinished Outcome = "finished"     // Campaign completed
)

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score (whole run in campaign mode)
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused

	Mode        string  // Game mode, e.g. "campaign" or "endless"
	LevelIndex  int     // 0-based campaign level
	LevelID     string  // Campaign level identifier, empty in endless mode
	Target      int     // Score needed to clear the level
	LevelScore  int     // Score of the current level attempt
	Stars       int     // Stars earned so far (0-3)
	Cleared     bool    // Level target reached this attempt
	Outcome     Outcome // Why the game ended
	Merges      int
	MaxCombo    int
	HighestRank int
	Spawned     int
	Elapsed     float64 // Seconds of unpaused play
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any level transition that occurred.
type StepResult struct {
	State GameState

	// LevelCleared is set on the tick a campaign level is completed.
	LevelCleared bool
}
