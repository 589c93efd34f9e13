package core

// MergeObserver is notified once per individual merge, after the survivor's
// rank has been incremented. The ScoreEngine implements it.
type MergeObserver interface {
	OnMerge(survivor *Item)
}

// Resolution summarises one ResolveAt pass.
type Resolution struct {
	Merges  int
	Removed []Pos // Cells emptied by consumed neighbours, in merge order
}

// Resolver decides merge eligibility and executes merges and cascades.
type Resolver struct {
	grid    *Grid
	maxRank int
	scorer  MergeObserver
	bus     *Bus
}

// NewResolver creates a resolver over grid. scorer and bus may be nil.
func NewResolver(grid *Grid, maxRank int, scorer MergeObserver, bus *Bus) *Resolver {
	return &Resolver{
		grid:    grid,
		maxRank: maxRank,
		scorer:  scorer,
		bus:     bus,
	}
}

// MaxRank returns the ceiling rank; items at it never merge.
func (r *Resolver) MaxRank() int {
	return r.maxRank
}

// CanMerge reports whether a and b may fuse. It depends only on the two
// ranks, the merging locks and the max rank, so it is symmetric.
func (r *Resolver) CanMerge(a, b *Item) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	if a.merging || b.merging {
		return false
	}
	if a.rank != b.rank {
		return false
	}
	return a.rank < r.maxRank
}

// Merge fuses consumed into survivor: consumed leaves the grid and survivor
// gains one rank. Both items must currently sit on the grid.
// Ineligible pairs are a silent no-op returning false.
func (r *Resolver) Merge(survivor, consumed *Item) bool {
	if !r.CanMerge(survivor, consumed) {
		return false
	}
	if r.grid.Get(survivor.pos) != survivor || r.grid.Get(consumed.pos) != consumed {
		return false
	}

	rank := survivor.rank
	survivor.merging = true
	consumed.merging = true
	r.bus.Emit(MergeStarted{
		Survivor: survivor.id,
		Consumed: consumed.id,
		At:       survivor.pos,
		From:     consumed.pos,
		Rank:     rank,
	})

	r.grid.Remove(consumed.pos)
	survivor.rank++
	survivor.merging = false
	consumed.merging = false

	r.bus.Emit(Merged{
		Survivor:     survivor.id,
		At:           survivor.pos,
		ConsumedRank: rank,
		NewRank:      survivor.rank,
	})
	if r.scorer != nil {
		r.scorer.OnMerge(survivor)
	}
	return true
}

// firstMergeable returns the first neighbour of item (up, down, left, right)
// that it can merge with. First match wins; there is no best-match search.
func (r *Resolver) firstMergeable(item *Item) *Item {
	for _, adj := range r.grid.AdjacentOccupants(item.pos) {
		if r.CanMerge(item, adj) {
			return adj
		}
	}
	return nil
}

// ResolveAt merges the item at p with its first eligible neighbour and keeps
// re-checking from p until no neighbour qualifies. The item at p always
// survives. The loop is bounded by the cell count since each merge removes an item.
func (r *Resolver) ResolveAt(p Pos) Resolution {
	var res Resolution
	limit := r.grid.Width() * r.grid.Height()

	for res.Merges < limit {
		item := r.grid.Get(p)
		if item == nil {
			break
		}
		target := r.firstMergeable(item)
		if target == nil {
			break
		}
		from := target.pos
		if !r.Merge(item, target) {
			break
		}
		res.Merges++
		res.Removed = append(res.Removed, from)
	}

	return res
}

// AnyLegalMoveExists reports whether any occupant can merge with a neighbour.
func (r *Resolver) AnyLegalMoveExists() bool {
	for _, item := range r.grid.AllOccupants() {
		if r.firstMergeable(item) != nil {
			return true
		}
	}
	return false
}

// IsBlocked reports game-over: no empty cell and no legal merge.
// A grid with free space is never blocked.
func (r *Resolver) IsBlocked() bool {
	if r.grid.EmptyCount() > 0 {
		return false
	}
	return !r.AnyLegalMoveExists()
}
