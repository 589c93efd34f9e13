package core

// Grid is the authoritative board: a fixed W×H array of optional items
// plus the derived set of empty cells.
// Cells are stored row-major: index = y*W + x.
type Grid struct {
	w, h  int
	cells []*Item

	// Empty set as an indexable slice so random picks are O(1).
	// emptyIdx maps a position to its slot in empty.
	empty    []Pos
	emptyIdx map[Pos]int

	maxRank int // 0 leaves ranks unbounded above
	bus     *Bus
}

// NewGrid creates an empty grid. Dimensions below 1 are raised to 1.
// Events are emitted on bus, which may be nil.
func NewGrid(w, h int, bus *Bus) *Grid {
	w = max(w, 1)
	h = max(h, 1)
	g := &Grid{
		w:     w,
		h:     h,
		cells: make([]*Item, w*h),
		bus:   bus,
	}
	g.resetEmpty()
	return g
}

func (g *Grid) resetEmpty() {
	g.empty = make([]Pos, 0, g.w*g.h)
	g.emptyIdx = make(map[Pos]int, g.w*g.h)
	for x := 0; x < g.w; x++ {
		for y := 0; y < g.h; y++ {
			g.addEmpty(P(x, y))
		}
	}
}

func (g *Grid) addEmpty(p Pos) {
	if _, ok := g.emptyIdx[p]; ok {
		return
	}
	g.emptyIdx[p] = len(g.empty)
	g.empty = append(g.empty, p)
}

func (g *Grid) removeEmpty(p Pos) {
	i, ok := g.emptyIdx[p]
	if !ok {
		return
	}
	last := len(g.empty) - 1
	if i != last {
		moved := g.empty[last]
		g.empty[i] = moved
		g.emptyIdx[moved] = i
	}
	g.empty = g.empty[:last]
	delete(g.emptyIdx, p)
}

func (g *Grid) index(p Pos) int {
	return p.Y*g.w + p.X
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.w
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.h
}

// IsValidPosition reports whether p lies inside the grid.
func (g *Grid) IsValidPosition(p Pos) bool {
	return p.X >= 0 && p.X < g.w && p.Y >= 0 && p.Y < g.h
}

// IsEmpty reports whether p is a valid, unoccupied cell.
// Out-of-range positions are not empty.
func (g *Grid) IsEmpty(p Pos) bool {
	if !g.IsValidPosition(p) {
		return false
	}
	return g.cells[g.index(p)] == nil
}

// Get returns the occupant at p, or nil for empty or invalid cells.
func (g *Grid) Get(p Pos) *Item {
	if !g.IsValidPosition(p) {
		return nil
	}
	return g.cells[g.index(p)]
}

// SetMaxRank bounds the ranks Place accepts. 0 removes the upper bound.
func (g *Grid) SetMaxRank(n int) {
	g.maxRank = max(n, 0)
}

// MaxRank returns the upper rank bound, 0 when unbounded.
func (g *Grid) MaxRank() int {
	return g.maxRank
}

// acceptsRank reports whether rank lies in [1, maxRank].
func (g *Grid) acceptsRank(rank int) bool {
	return rank >= 1 && (g.maxRank == 0 || rank <= g.maxRank)
}

// Place stores item at p. It fails without side effects when p is
// invalid or occupied, when item is nil, or when its rank is below 1 or
// above the grid's max rank.
func (g *Grid) Place(item *Item, p Pos) bool {
	if item == nil || !g.acceptsRank(item.rank) || !g.IsEmpty(p) {
		return false
	}

	g.cells[g.index(p)] = item
	item.pos = p
	g.removeEmpty(p)

	g.bus.Emit(ItemAdded{Item: item.id, Rank: item.rank, Pos: p})
	if len(g.empty) == 0 {
		g.bus.Emit(GridFull{})
	}
	return true
}

// Remove clears the cell at p. Invalid positions are ignored and
// removing from an empty cell only re-asserts it as empty.
func (g *Grid) Remove(p Pos) {
	if !g.IsValidPosition(p) {
		return
	}

	i := g.index(p)
	item := g.cells[i]
	g.cells[i] = nil
	g.addEmpty(p)

	if item != nil {
		g.bus.Emit(ItemRemoved{Item: item.id, Rank: item.rank, Pos: p})
	}
}

// Move relocates the occupant of from to the empty cell to.
// Either the whole move happens or nothing changes.
func (g *Grid) Move(from, to Pos) bool {
	if !g.IsValidPosition(from) || !g.IsEmpty(to) {
		return false
	}
	item := g.cells[g.index(from)]
	if item == nil {
		return false
	}

	g.cells[g.index(from)] = nil
	g.cells[g.index(to)] = item
	item.pos = to
	g.addEmpty(from)
	g.removeEmpty(to)

	g.bus.Emit(ItemMoved{Item: item.id, From: from, To: to})
	return true
}

// AdjacentOccupants returns the occupied orthogonal neighbours of p
// in the order up, down, left, right.
func (g *Grid) AdjacentOccupants(p Pos) []*Item {
	result := make([]*Item, 0, 4)
	for _, d := range adjacencyOrder {
		if item := g.Get(p.Step(d)); item != nil {
			result = append(result, item)
		}
	}
	return result
}

// RandomEmptyPosition picks one of the empty cells uniformly using rng.
// Returns false if the grid is full.
func (g *Grid) RandomEmptyPosition(rng Rand) (Pos, bool) {
	if len(g.empty) == 0 || rng == nil {
		return Pos{}, false
	}
	return g.empty[rng.IntN(len(g.empty))], true
}

// EmptyCount returns the number of empty cells.
func (g *Grid) EmptyCount() int {
	return len(g.empty)
}

// OccupiedCount returns the number of items on the grid.
func (g *Grid) OccupiedCount() int {
	return g.w*g.h - len(g.empty)
}

// IsFull reports whether no empty cell remains.
func (g *Grid) IsFull() bool {
	return len(g.empty) == 0
}

// EmptyPositions returns the empty cells ordered by x then y.
func (g *Grid) EmptyPositions() []Pos {
	result := make([]Pos, 0, len(g.empty))
	for x := 0; x < g.w; x++ {
		for y := 0; y < g.h; y++ {
			if g.cells[g.index(P(x, y))] == nil {
				result = append(result, P(x, y))
			}
		}
	}
	return result
}

// AllOccupants returns every item ordered by x then y.
func (g *Grid) AllOccupants() []*Item {
	result := make([]*Item, 0, g.OccupiedCount())
	for x := 0; x < g.w; x++ {
		for y := 0; y < g.h; y++ {
			if item := g.cells[g.index(P(x, y))]; item != nil {
				result = append(result, item)
			}
		}
	}
	return result
}

// ColumnTop returns the lowest empty cell of column x that has no item above it,
// i.e. where a dropped item would come to rest without merging.
func (g *Grid) ColumnTop(x int) (Pos, bool) {
	if x < 0 || x >= g.w {
		return Pos{}, false
	}
	for y := g.h - 1; y >= 0; y-- {
		if g.cells[g.index(P(x, y))] != nil {
			if y+1 < g.h {
				return P(x, y+1), true
			}
			return Pos{}, false
		}
	}
	return P(x, 0), true
}

// Ranks returns a [y][x] matrix of ranks with 0 for empty cells.
// Row 0 is the floor.
func (g *Grid) Ranks() [][]int {
	rows := make([][]int, g.h)
	for y := range g.h {
		rows[y] = make([]int, g.w)
		for x := range g.w {
			if item := g.cells[g.index(P(x, y))]; item != nil {
				rows[y][x] = item.rank
			}
		}
	}
	return rows
}

// Clear removes every item and resets the empty set to all cells.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = nil
	}
	g.resetEmpty()
	g.bus.Emit(GridCleared{})
}
