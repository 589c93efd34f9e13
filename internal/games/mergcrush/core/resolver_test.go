package core

import (
	"testing"
)

type mergeCounter struct {
	ranks []int
}

func (m *mergeCounter) OnMerge(survivor *Item) {
	m.ranks = append(m.ranks, survivor.Rank())
}

func newResolverFixture(w, h int) (*Grid, *Resolver, *mergeCounter) {
	g := NewGrid(w, h, nil)
	counter := &mergeCounter{}
	return g, NewResolver(g, DefaultMaxRank, counter, nil), counter
}

func TestCanMerge(t *testing.T) {
	_, r, _ := newResolverFixture(3, 3)

	locked := NewItem(99, 2)
	locked.merging = true

	tests := []struct {
		name string
		a, b *Item
		want bool
	}{
		{"equal ranks", NewItem(1, 1), NewItem(2, 1), true},
		{"different ranks", NewItem(1, 1), NewItem(2, 2), false},
		{"below max rank", NewItem(1, 5), NewItem(2, 5), true},
		{"at max rank", NewItem(1, 6), NewItem(2, 6), false},
		{"nil first", nil, NewItem(2, 1), false},
		{"nil second", NewItem(1, 1), nil, false},
		{"merging item", locked, NewItem(2, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.CanMerge(tt.a, tt.b); got != tt.want {
				t.Errorf("CanMerge(a, b) = %v, want %v", got, tt.want)
			}
			if got := r.CanMerge(tt.b, tt.a); got != tt.want {
				t.Errorf("CanMerge(b, a) = %v, want %v", got, tt.want)
			}
		})
	}

	same := NewItem(5, 1)
	if r.CanMerge(same, same) {
		t.Error("CanMerge(x, x) = true")
	}
}

func TestResolveAtFirstMatchWins(t *testing.T) {
	g, r, counter := newResolverFixture(3, 3)
	var ids ItemIDs

	center := place(t, g, &ids, 1, P(1, 1))
	place(t, g, &ids, 1, P(1, 2)) // up
	left := place(t, g, &ids, 1, P(0, 1))

	res := r.ResolveAt(P(1, 1))

	if res.Merges != 1 {
		t.Fatalf("Merges = %d, want 1", res.Merges)
	}
	if len(res.Removed) != 1 || res.Removed[0] != P(1, 2) {
		t.Errorf("Removed = %v, want [(1,2)]", res.Removed)
	}
	if g.Get(P(1, 1)) != center || center.Rank() != 2 {
		t.Errorf("survivor rank = %d at %v, want rank 2 at (1,1)", center.Rank(), center.Pos())
	}
	if g.Get(P(0, 1)) != left || left.Rank() != 1 {
		t.Error("left neighbour should be untouched")
	}
	if len(counter.ranks) != 1 || counter.ranks[0] != 2 {
		t.Errorf("scored ranks = %v, want [2]", counter.ranks)
	}
}

func TestResolveAtCascades(t *testing.T) {
	g, r, counter := newResolverFixture(3, 3)
	var ids ItemIDs

	center := place(t, g, &ids, 1, P(1, 1))
	place(t, g, &ids, 1, P(1, 2)) // up: 1+1 -> 2
	place(t, g, &ids, 2, P(1, 0)) // down: 2+2 -> 3
	place(t, g, &ids, 3, P(0, 1)) // left: 3+3 -> 4

	res := r.ResolveAt(P(1, 1))

	if res.Merges != 3 {
		t.Fatalf("Merges = %d, want 3", res.Merges)
	}
	if center.Rank() != 4 {
		t.Errorf("survivor rank = %d, want 4", center.Rank())
	}
	if g.OccupiedCount() != 1 {
		t.Errorf("OccupiedCount = %d, want 1", g.OccupiedCount())
	}
	want := []int{2, 3, 4}
	for i, rank := range want {
		if counter.ranks[i] != rank {
			t.Errorf("merge %d produced rank %d, want %d", i, counter.ranks[i], rank)
		}
	}
}

func TestResolveAtMaxRankNeverMerges(t *testing.T) {
	g, r, counter := newResolverFixture(2, 1)
	var ids ItemIDs
	place(t, g, &ids, DefaultMaxRank, P(0, 0))
	place(t, g, &ids, DefaultMaxRank, P(1, 0))

	res := r.ResolveAt(P(0, 0))
	if res.Merges != 0 {
		t.Errorf("Merges = %d, want 0", res.Merges)
	}
	if g.OccupiedCount() != 2 || len(counter.ranks) != 0 {
		t.Error("max-rank items changed")
	}
}

func TestResolveAtEmptyCell(t *testing.T) {
	_, r, _ := newResolverFixture(2, 2)
	if res := r.ResolveAt(P(0, 0)); res.Merges != 0 {
		t.Errorf("ResolveAt(empty) merges = %d, want 0", res.Merges)
	}
	if res := r.ResolveAt(P(-1, 4)); res.Merges != 0 {
		t.Errorf("ResolveAt(invalid) merges = %d, want 0", res.Merges)
	}
}

func TestMergeEventOrder(t *testing.T) {
	bus := NewBus()
	rec := &Recorder{}
	g := NewGrid(2, 1, bus)
	score := NewScoreEngine(DefaultConfig().Score(), bus)
	r := NewResolver(g, DefaultMaxRank, score, bus)
	var ids ItemIDs
	a := place(t, g, &ids, 1, P(0, 0))
	b := place(t, g, &ids, 1, P(1, 0))

	bus.Subscribe(rec)
	r.ResolveAt(P(0, 0))

	want := []Event{
		MergeStarted{Survivor: a.ID(), Consumed: b.ID(), At: P(0, 0), From: P(1, 0), Rank: 1},
		ItemRemoved{Item: b.ID(), Rank: 1, Pos: P(1, 0)},
		Merged{Survivor: a.ID(), At: P(0, 0), ConsumedRank: 1, NewRank: 2},
		Scored{Points: 60, Total: 60, Rank: 2, Combo: 1, Multiplier: 1},
	}
	if len(rec.Events) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(rec.Events), rec.Events, len(want))
	}
	for i := range want {
		if rec.Events[i] != want[i] {
			t.Errorf("event %d = %#v, want %#v", i, rec.Events[i], want[i])
		}
	}
}

func TestIsBlocked(t *testing.T) {
	tests := []struct {
		name    string
		ranks   [][]int // [y][x], 0 = empty
		blocked bool
		legal   bool
	}{
		{
			name:    "full checkerboard",
			ranks:   [][]int{{1, 2}, {2, 1}},
			blocked: true,
			legal:   false,
		},
		{
			name:    "full with a legal merge",
			ranks:   [][]int{{1, 1}, {2, 3}},
			blocked: false,
			legal:   true,
		},
		{
			name:    "one empty cell",
			ranks:   [][]int{{1, 2}, {2, 0}},
			blocked: false,
			legal:   false,
		},
		{
			name:    "full of max rank",
			ranks:   [][]int{{6, 6}, {6, 6}},
			blocked: true,
			legal:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, r, _ := newResolverFixture(2, 2)
			var ids ItemIDs
			for y, row := range tt.ranks {
				for x, rank := range row {
					if rank > 0 {
						place(t, g, &ids, rank, P(x, y))
					}
				}
			}
			if got := r.IsBlocked(); got != tt.blocked {
				t.Errorf("IsBlocked = %v, want %v", got, tt.blocked)
			}
			if got := r.AnyLegalMoveExists(); got != tt.legal {
				t.Errorf("AnyLegalMoveExists = %v, want %v", got, tt.legal)
			}
		})
	}
}

func TestGravitySettleColumn(t *testing.T) {
	t.Run("rests on a different rank", func(t *testing.T) {
		g, r, _ := newResolverFixture(1, 3)
		grav := NewGravity(g, r)
		var ids ItemIDs
		place(t, g, &ids, 2, P(0, 0))
		faller := place(t, g, &ids, 1, P(0, 2))

		landings := grav.SettleColumn(0)
		if len(landings) != 1 || landings[0].Pos != P(0, 1) || landings[0].Merged {
			t.Fatalf("landings = %+v, want one unmerged landing at (0,1)", landings)
		}
		if g.Get(P(0, 1)) != faller {
			t.Error("faller not at (0,1)")
		}
	})

	t.Run("contact merge keeps the item below", func(t *testing.T) {
		g, r, counter := newResolverFixture(1, 3)
		grav := NewGravity(g, r)
		var ids ItemIDs
		bottom := place(t, g, &ids, 2, P(0, 0))
		place(t, g, &ids, 2, P(0, 2))

		landings := grav.SettleColumn(0)
		if len(landings) != 1 || !landings[0].Merged || landings[0].Pos != P(0, 0) {
			t.Fatalf("landings = %+v, want one merged landing at (0,0)", landings)
		}
		if landings[0].Item != bottom.ID() || bottom.Rank() != 3 {
			t.Errorf("survivor = %d rank %d, want %d rank 3", landings[0].Item, bottom.Rank(), bottom.ID())
		}
		if g.OccupiedCount() != 1 || len(counter.ranks) != 1 {
			t.Error("contact merge should leave one item and score once")
		}
	})

	t.Run("settles bottom-up", func(t *testing.T) {
		g, r, _ := newResolverFixture(1, 4)
		grav := NewGravity(g, r)
		var ids ItemIDs
		place(t, g, &ids, 1, P(0, 2))
		place(t, g, &ids, 1, P(0, 3))

		landings := grav.SettleColumn(0)
		if len(landings) != 2 {
			t.Fatalf("landings = %+v, want 2", landings)
		}
		if landings[0].Pos != P(0, 0) || landings[0].Merged {
			t.Errorf("first landing = %+v, want (0,0) unmerged", landings[0])
		}
		if landings[1].Pos != P(0, 0) || !landings[1].Merged {
			t.Errorf("second landing = %+v, want (0,0) merged", landings[1])
		}
		if g.Get(P(0, 0)).Rank() != 2 {
			t.Errorf("floor rank = %d, want 2", g.Get(P(0, 0)).Rank())
		}
	})

	t.Run("settled column is a no-op", func(t *testing.T) {
		g, r, _ := newResolverFixture(1, 3)
		grav := NewGravity(g, r)
		var ids ItemIDs
		place(t, g, &ids, 1, P(0, 0))
		if landings := grav.SettleColumn(0); len(landings) != 0 {
			t.Errorf("landings = %+v, want none", landings)
		}
		if landings := grav.SettleColumn(4); landings != nil {
			t.Errorf("SettleColumn(invalid) = %+v, want nil", landings)
		}
	})
}
