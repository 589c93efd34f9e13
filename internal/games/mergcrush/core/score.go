package core

import (
	"maps"
	"math"
)

// ScoreConfig holds the scoring and combo constants.
type ScoreConfig struct {
	BasePoints      int
	PointMultiplier float64
	ComboWindow     float64 // Seconds a combo stays alive after a merge
	ComboIncrement  float64 // Multiplier added per combo step
	ComboCap        float64 // Upper bound of the combo multiplier
}

// ScoreState is the per-attempt scoring state.
type ScoreState struct {
	Total          int
	Combo          int
	ComboRemaining float64
	MergesByRank   map[int]int // Rank after merge -> count
	HighestRank    int
	Merges         int
	MaxCombo       int
	Spawned        int
}

// Bonus is the level-completion bonus: 100 per highest rank plus 10 per merge.
func (s ScoreState) Bonus() int {
	return s.HighestRank*100 + s.Merges*10
}

// ScoreEngine turns merge events into points and tracks the combo window.
//
// Combo states: Idle (Combo == 0) -> Active on the first merge; Active
// refreshes its timer on each merge; Active -> Idle when the timer expires.
type ScoreEngine struct {
	cfg   ScoreConfig
	state ScoreState
	bus   *Bus
}

// NewScoreEngine creates a score engine emitting on bus (may be nil).
func NewScoreEngine(cfg ScoreConfig, bus *Bus) *ScoreEngine {
	s := &ScoreEngine{cfg: cfg, bus: bus}
	s.Reset()
	return s
}

// comboMultiplier returns min(1 + combo*increment, cap).
func (s *ScoreEngine) comboMultiplier(combo int) float64 {
	m := 1 + float64(combo)*s.cfg.ComboIncrement
	if s.cfg.ComboCap > 0 {
		m = math.Min(m, s.cfg.ComboCap)
	}
	return m
}

// ComboMultiplier returns the multiplier the next merge would receive.
func (s *ScoreEngine) ComboMultiplier() float64 {
	return s.comboMultiplier(s.state.Combo)
}

// Points computes the score of a merge producing rank at the given combo count.
func (s *ScoreEngine) Points(rank, combo int) int {
	raw := float64(s.cfg.BasePoints) * float64(RankValue(rank)) * s.cfg.PointMultiplier * s.comboMultiplier(combo)
	return int(math.Round(raw))
}

// OnMerge scores a merge. survivor already carries its incremented rank.
func (s *ScoreEngine) OnMerge(survivor *Item) {
	if survivor == nil {
		return
	}
	s.Score(survivor.rank)
}

// Score applies one merge that produced rank and returns the points awarded.
func (s *ScoreEngine) Score(rank int) int {
	multiplier := s.comboMultiplier(s.state.Combo)
	points := s.Points(rank, s.state.Combo)

	s.state.Combo++
	s.state.ComboRemaining = s.cfg.ComboWindow
	s.state.MaxCombo = max(s.state.MaxCombo, s.state.Combo)

	s.state.Total += points
	s.state.Merges++
	s.state.MergesByRank[rank]++
	s.state.HighestRank = max(s.state.HighestRank, rank)

	s.bus.Emit(Scored{
		Points:     points,
		Total:      s.state.Total,
		Rank:       rank,
		Combo:      s.state.Combo,
		Multiplier: multiplier,
	})
	return points
}

// Tick advances the combo timer by dt seconds. It is the only
// time-driven transition in the simulation.
func (s *ScoreEngine) Tick(dt float64) {
	if s.state.Combo <= 0 {
		return
	}
	s.state.ComboRemaining -= dt
	if s.state.ComboRemaining <= 0 {
		ended := s.state.Combo
		s.state.Combo = 0
		s.state.ComboRemaining = 0
		s.bus.Emit(ComboEnded{Count: ended})
	}
}

// RecordSpawn counts an item entering the grid from the spawner.
func (s *ScoreEngine) RecordSpawn() {
	s.state.Spawned++
}

// Reset zeroes all counters for a new attempt.
func (s *ScoreEngine) Reset() {
	s.state = ScoreState{MergesByRank: make(map[int]int)}
}

// State returns a copy of the current scoring state.
func (s *ScoreEngine) State() ScoreState {
	st := s.state
	st.MergesByRank = maps.Clone(s.state.MergesByRank)
	return st
}

// Total returns the cumulative score.
func (s *ScoreEngine) Total() int {
	return s.state.Total
}
