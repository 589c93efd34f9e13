package core

// Landing records where a falling item came to rest.
// When Merged is true the faller was consumed by the item at Pos.
type Landing struct {
	Item   ItemID
	Pos    Pos
	Merged bool
}

// Gravity settles items downward after removals, one column at a time.
type Gravity struct {
	grid     *Grid
	resolver *Resolver
}

// NewGravity creates a gravity engine that delegates contact merges to resolver.
func NewGravity(grid *Grid, resolver *Resolver) *Gravity {
	return &Gravity{grid: grid, resolver: resolver}
}

// NeedsSettle reports whether emptying gap leaves an item hanging directly above it.
func (g *Gravity) NeedsSettle(gap Pos) bool {
	return g.grid.IsEmpty(gap) && g.grid.Get(gap.Above()) != nil
}

// lowestGap finds the lowest empty cell in column x with an occupied cell
// somewhere above it, and returns that occupied cell.
func (g *Gravity) lowestGap(x int) (Pos, bool) {
	gapFound := false
	for y := 0; y < g.grid.Height(); y++ {
		p := P(x, y)
		if g.grid.IsEmpty(p) {
			gapFound = true
			continue
		}
		if gapFound {
			return p, true
		}
	}
	return Pos{}, false
}

// SettleColumn drops every hanging item in column x to rest, bottom-up.
// Items move one cell per step and merge into the item below on contact
// when eligible. Returns one Landing per fall in the order they happened.
func (g *Gravity) SettleColumn(x int) []Landing {
	if x < 0 || x >= g.grid.Width() {
		return nil
	}

	var landings []Landing
	// Every fall either lowers an item or consumes one.
	limit := g.grid.Height() * g.grid.Height()
	for range limit {
		src, ok := g.lowestGap(x)
		if !ok {
			break
		}
		landings = append(landings, g.Fall(src))
	}
	return landings
}

// Fall moves the item at p down until it hits the floor or another item.
// On contact with a merge-eligible item below, the faller is consumed and
// the item below survives with the next rank.
func (g *Gravity) Fall(p Pos) Landing {
	item := g.grid.Get(p)
	if item == nil {
		return Landing{Pos: p}
	}

	for {
		below := p.Below()
		if !g.grid.IsValidPosition(below) {
			return Landing{Item: item.id, Pos: p}
		}
		if other := g.grid.Get(below); other != nil {
			if g.resolver.Merge(other, item) {
				return Landing{Item: other.id, Pos: below, Merged: true}
			}
			return Landing{Item: item.id, Pos: p}
		}
		if !g.grid.Move(p, below) {
			return Landing{Item: item.id, Pos: p}
		}
		p = below
	}
}
