package core

// ItemID identifies an item for its whole lifetime. IDs are issued monotonically.
type ItemID uint64

// Item is one merge-rank entity on the grid.
// Rank n represents the displayed value 2^n.
type Item struct {
	id      ItemID
	rank    int
	pos     Pos
	merging bool
}

// NewItem creates an item with the given identity and rank.
// Ranks outside [1, maxRank] are refused by Grid.Place.
func NewItem(id ItemID, rank int) *Item {
	return &Item{id: id, rank: rank}
}

// ID returns the item's identity.
func (it *Item) ID() ItemID {
	return it.id
}

// Rank returns the current merge rank.
func (it *Item) Rank() int {
	return it.rank
}

// Value returns 2^rank.
func (it *Item) Value() int {
	return RankValue(it.rank)
}

// Pos returns the last grid position the item was placed or moved to.
func (it *Item) Pos() Pos {
	return it.pos
}

// Merging reports whether the item is locked in an in-flight merge.
func (it *Item) Merging() bool {
	return it.merging
}

// RankValue returns the display value of a rank.
func RankValue(rank int) int {
	if rank < 0 {
		return 0
	}
	return 1 << rank
}

// ItemIDs hands out monotonically increasing item identities.
type ItemIDs struct {
	last ItemID
}

// Next returns a fresh identity. The first identity is 1.
func (g *ItemIDs) Next() ItemID {
	g.last++
	return g.last
}
