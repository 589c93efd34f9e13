package mergcrush

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StatePaused       GameStateType = "paused"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Mode       string
	Level      int    // Current level (1-indexed for display), 0 for endless
	LevelID    string // Empty in endless mode
	Target     int
	Score      int // Whole run
	LevelScore int // Score of the current level attempt
	Ranks      [][]int
	Cursor     int
	Next       int // Rank of the next player drop
	Drops      int
	Combo      int
	Merges     int
	State      GameStateType
	Outcome    string
	Occupied   int
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	case g.paused:
		state = StatePaused
	}

	level := 0
	if g.mode == ModeCampaign {
		level = g.levelIndex + 1
	}

	snap := Snapshot{
		Tick:    g.tick,
		Mode:    string(g.mode),
		Level:   level,
		LevelID: g.level.ID,
		Target:  g.level.Target,
		Score:   g.totalScore(),
		Cursor:  g.cursor,
		Next:    g.next,
		Drops:   g.drops,
		State:   state,
		Outcome: string(g.outcome),
	}
	if g.engine != nil {
		stats := g.engine.Stats()
		snap.LevelScore = stats.Total
		snap.Ranks = g.engine.Ranks()
		snap.Combo = stats.Combo
		snap.Merges = stats.Merges
		snap.Occupied = stats.Occupied
	}
	return snap
}
