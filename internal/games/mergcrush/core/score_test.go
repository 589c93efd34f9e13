package core

import (
	"math"
	"testing"
)

func TestScoreSingleMerge(t *testing.T) {
	s := NewScoreEngine(DefaultConfig().Score(), nil)

	// Two rank-1 items produce rank 2: round(10 * 4 * 1.5 * 1).
	if got := s.Score(2); got != 60 {
		t.Errorf("Score(2) = %d, want 60", got)
	}
	if s.Total() != 60 {
		t.Errorf("Total = %d, want 60", s.Total())
	}
}

func TestScoreComboMultiplier(t *testing.T) {
	bus := NewBus()
	rec := &Recorder{}
	bus.Subscribe(rec)
	s := NewScoreEngine(DefaultConfig().Score(), bus)

	wantMultipliers := []float64{1, 1.5, 2, 2.5}
	for range wantMultipliers {
		s.Score(2)
	}

	if len(rec.Events) != len(wantMultipliers) {
		t.Fatalf("got %d Scored events, want %d", len(rec.Events), len(wantMultipliers))
	}
	for i, want := range wantMultipliers {
		ev := rec.Events[i].(Scored)
		if math.Abs(ev.Multiplier-want) > 1e-9 {
			t.Errorf("merge %d multiplier = %v, want %v", i+1, ev.Multiplier, want)
		}
	}

	fourth := rec.Events[3].(Scored)
	if fourth.Points != 150 {
		t.Errorf("fourth merge points = %d, want 150", fourth.Points)
	}
	if fourth.Combo != 4 {
		t.Errorf("combo after fourth merge = %d, want 4", fourth.Combo)
	}
	if s.Total() != 60+90+120+150 {
		t.Errorf("Total = %d, want %d", s.Total(), 60+90+120+150)
	}
}

func TestScoreComboCap(t *testing.T) {
	s := NewScoreEngine(DefaultConfig().Score(), nil)
	for range 40 {
		s.Score(1)
	}
	if got := s.ComboMultiplier(); got != DefaultComboCap {
		t.Errorf("ComboMultiplier = %v, want cap %v", got, DefaultComboCap)
	}
}

func TestScoreTickEndsCombo(t *testing.T) {
	bus := NewBus()
	var ended []ComboEnded
	bus.Subscribe(ListenerFunc(func(e Event) {
		if ev, ok := e.(ComboEnded); ok {
			ended = append(ended, ev)
		}
	}))
	s := NewScoreEngine(DefaultConfig().Score(), bus)

	s.Score(2)
	s.Score(2)
	s.Tick(1.5)
	if st := s.State(); st.Combo != 2 || math.Abs(st.ComboRemaining-0.5) > 1e-9 {
		t.Errorf("after 1.5s: combo %d remaining %v, want 2 and 0.5", st.Combo, st.ComboRemaining)
	}

	s.Tick(0.5)
	if st := s.State(); st.Combo != 0 {
		t.Errorf("Combo = %d after window elapsed, want 0", st.Combo)
	}
	if len(ended) != 1 || ended[0].Count != 2 {
		t.Errorf("ComboEnded events = %v, want one with count 2", ended)
	}

	// Idle ticks never emit.
	s.Tick(10)
	if len(ended) != 1 {
		t.Errorf("idle Tick emitted ComboEnded")
	}
	if got := s.ComboMultiplier(); got != 1 {
		t.Errorf("ComboMultiplier after reset = %v, want 1", got)
	}
}

func TestScoreStateAndReset(t *testing.T) {
	s := NewScoreEngine(DefaultConfig().Score(), nil)
	s.RecordSpawn()
	s.Score(2)
	s.Score(3)
	s.Score(2)

	st := s.State()
	if st.Merges != 3 || st.HighestRank != 3 || st.MaxCombo != 3 || st.Spawned != 1 {
		t.Errorf("State = %+v", st)
	}
	if st.MergesByRank[2] != 2 || st.MergesByRank[3] != 1 {
		t.Errorf("MergesByRank = %v, want map[2:2 3:1]", st.MergesByRank)
	}
	if st.Bonus() != 3*100+3*10 {
		t.Errorf("Bonus = %d, want %d", st.Bonus(), 330)
	}

	// State is a copy.
	st.MergesByRank[2] = 99
	if s.State().MergesByRank[2] != 2 {
		t.Error("State exposed the internal histogram")
	}

	s.Reset()
	st = s.State()
	if st.Total != 0 || st.Combo != 0 || st.Merges != 0 || st.HighestRank != 0 || len(st.MergesByRank) != 0 {
		t.Errorf("State after Reset = %+v, want zero", st)
	}
}

func TestPointsTable(t *testing.T) {
	s := NewScoreEngine(DefaultConfig().Score(), nil)

	tests := []struct {
		rank, combo int
		want        int
	}{
		{2, 0, 60},
		{3, 0, 120},
		{6, 0, 960},
		{2, 1, 90},
		{2, 100, 600},
	}
	for _, tt := range tests {
		if got := s.Points(tt.rank, tt.combo); got != tt.want {
			t.Errorf("Points(%d, %d) = %d, want %d", tt.rank, tt.combo, got, tt.want)
		}
	}
}

func TestWeightedRanks(t *testing.T) {
	tests := []struct {
		name       string
		w          WeightedRanks
		difficulty int
		maxTypes   int
	}{
		{"difficulty 1", WeightedRanks{MaxRank: 6}, 1, 3},
		{"difficulty 3", WeightedRanks{MaxRank: 6}, 3, 5},
		{"capped by max rank", WeightedRanks{MaxRank: 6}, 5, 6},
		{"capped by level", WeightedRanks{MaxRank: 6, Cap: 2}, 5, 2},
		{"difficulty below one", WeightedRanks{MaxRank: 6}, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.MaxTypes(tt.difficulty); got != tt.maxTypes {
				t.Errorf("MaxTypes = %d, want %d", got, tt.maxTypes)
			}
			weights := tt.w.Weights(tt.difficulty)
			for i, wt := range weights {
				if wt != tt.maxTypes-i {
					t.Errorf("weight of rank %d = %d, want %d", i+1, wt, tt.maxTypes-i)
				}
			}
		})
	}

	// Weights [3 2 1]: rolls 0-2 -> 1, 3-4 -> 2, 5 -> 3.
	w := WeightedRanks{MaxRank: 6}
	rolls := map[int]int{0: 1, 2: 1, 3: 2, 4: 2, 5: 3}
	for roll, want := range rolls {
		if got := w.PickRank(&stubRand{values: []int{roll}}, 1); got != want {
			t.Errorf("PickRank(roll %d) = %d, want %d", roll, got, want)
		}
	}
}

func TestGoalStars(t *testing.T) {
	g := Goal{Target: 1000}
	tests := []struct {
		score, stars int
	}{
		{0, 0},
		{999, 0},
		{1000, 1},
		{1499, 1},
		{1500, 2},
		{2000, 3},
		{5000, 3},
	}
	for _, tt := range tests {
		if got := g.Stars(tt.score); got != tt.stars {
			t.Errorf("Stars(%d) = %d, want %d", tt.score, got, tt.stars)
		}
	}
	if (Goal{}).Stars(100) != 0 {
		t.Error("endless goal awarded stars")
	}
}

func TestConfigWithDefaults(t *testing.T) {
	got := Config{Width: 5}.WithDefaults()
	want := DefaultConfig()
	want.Width = 5
	if got != want {
		t.Errorf("WithDefaults = %+v, want %+v", got, want)
	}

	combo := Config{ComboIncrement: 0, ComboCap: -2, ComboWindow: 0.75}.WithDefaults()
	if combo.ComboIncrement != DefaultComboIncrement || combo.ComboCap != DefaultComboCap {
		t.Errorf("zero/negative combo fields = %v/%v, want defaults", combo.ComboIncrement, combo.ComboCap)
	}
	if combo.ComboWindow != 0.75 {
		t.Errorf("ComboWindow = %v, want 0.75", combo.ComboWindow)
	}
}

func TestComboCapOneDisablesBonus(t *testing.T) {
	cfg := Config{ComboCap: 1}.WithDefaults()
	s := NewScoreEngine(cfg.Score(), nil)

	base := s.Points(3, 0)
	for _, combo := range []int{1, 4, 50} {
		if got := s.Points(3, combo); got != base {
			t.Errorf("Points(3, combo %d) = %d, want %d", combo, got, base)
		}
	}
}
