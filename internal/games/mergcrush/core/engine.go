package core

import (
	"io"

	"github.com/charmbracelet/log"
)

// Stats is a snapshot of the attempt statistics.
type Stats struct {
	ScoreState
	ComboMultiplier float64
	Bonus           int
	Occupied        int
	Empty           int
	Blocked         bool
	Completed       bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRand sets the random source used for spawn positions and ranks.
func WithRand(rng Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithRankPicker overrides the weighted rank picker.
func WithRankPicker(p RankPicker) Option {
	return func(e *Engine) {
		if p != nil {
			e.picker = p
		}
	}
}

// WithDifficulty sets the initial spawn difficulty (1-5).
func WithDifficulty(d int) Option {
	return func(e *Engine) {
		e.difficulty = max(d, 1)
	}
}

// WithGoal sets the target score of the attempt.
func WithGoal(g Goal) Option {
	return func(e *Engine) {
		e.goal = g
	}
}

// Engine drives the simulation. It owns the grid, the resolver, gravity
// and scoring, and runs every cascade to completion before returning.
// It is not safe for concurrent use.
type Engine struct {
	cfg      Config
	bus      *Bus
	grid     *Grid
	resolver *Resolver
	gravity  *Gravity
	score    *ScoreEngine
	ids      ItemIDs

	rng        Rand
	picker     RankPicker
	difficulty int
	goal       Goal

	blocked   bool
	completed bool

	logger *log.Logger
}

// NewEngine creates an engine with an empty grid.
func NewEngine(cfg Config, opts ...Option) *Engine {
	cfg = cfg.WithDefaults()
	bus := NewBus()
	grid := NewGrid(cfg.Width, cfg.Height, bus)
	grid.SetMaxRank(cfg.MaxRank)
	score := NewScoreEngine(cfg.Score(), bus)
	resolver := NewResolver(grid, cfg.MaxRank, score, bus)

	e := &Engine{
		cfg:        cfg,
		bus:        bus,
		grid:       grid,
		resolver:   resolver,
		gravity:    NewGravity(grid, resolver),
		score:      score,
		picker:     WeightedRanks{MaxRank: cfg.MaxRank},
		difficulty: 1,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Subscribe registers a listener for simulation events.
func (e *Engine) Subscribe(l Listener) (unsubscribe func()) {
	return e.bus.Subscribe(l)
}

// Width returns the grid width.
func (e *Engine) Width() int {
	return e.grid.Width()
}

// Height returns the grid height.
func (e *Engine) Height() int {
	return e.grid.Height()
}

// Item returns the occupant at p, or nil.
func (e *Engine) Item(p Pos) *Item {
	return e.grid.Get(p)
}

// Ranks returns a [y][x] rank matrix, 0 for empty cells.
func (e *Engine) Ranks() [][]int {
	return e.grid.Ranks()
}

// Occupants returns every item ordered by x then y.
func (e *Engine) Occupants() []*Item {
	return e.grid.AllOccupants()
}

// EmptyCount returns the number of empty cells.
func (e *Engine) EmptyCount() int {
	return e.grid.EmptyCount()
}

// IsFull reports whether every cell is occupied.
func (e *Engine) IsFull() bool {
	return e.grid.IsFull()
}

// IsBlocked reports whether the grid is full with no legal merge.
func (e *Engine) IsBlocked() bool {
	return e.resolver.IsBlocked()
}

// CanDrop reports whether column x has room at its top cell.
func (e *Engine) CanDrop(x int) bool {
	return e.grid.IsEmpty(P(x, e.grid.Height()-1))
}

// ColumnTop returns where an item dropped into column x comes to rest
// if it does not merge.
func (e *Engine) ColumnTop(x int) (Pos, bool) {
	return e.grid.ColumnTop(x)
}

// Difficulty returns the current spawn difficulty.
func (e *Engine) Difficulty() int {
	return e.difficulty
}

// SetDifficulty changes the spawn difficulty for subsequent spawns.
func (e *Engine) SetDifficulty(d int) {
	e.difficulty = max(d, 1)
}

// Goal returns the target of the current attempt.
func (e *Engine) Goal() Goal {
	return e.goal
}

// SetGoal changes the target. Completion is re-evaluated on the next step.
func (e *Engine) SetGoal(g Goal) {
	e.goal = g
}

// SetRankPicker replaces the rank picker, e.g. for a per-level spawn cap.
func (e *Engine) SetRankPicker(p RankPicker) {
	if p != nil {
		e.picker = p
	}
}

// NextRank draws a spawn rank at the current difficulty.
func (e *Engine) NextRank() int {
	rank := e.picker.PickRank(e.rng, e.difficulty)
	return min(max(rank, 1), e.cfg.MaxRank)
}

func (e *Engine) validRank(rank int) bool {
	return rank >= 1 && rank <= e.cfg.MaxRank
}

func (e *Engine) newItem(rank int) *Item {
	return NewItem(e.ids.Next(), rank)
}

// Place puts a new item of rank at p without resolving merges.
// Returns nil when p is invalid or occupied or rank is out of range.
func (e *Engine) Place(rank int, p Pos) *Item {
	if !e.validRank(rank) {
		return nil
	}
	item := e.newItem(rank)
	if !e.grid.Place(item, p) {
		return nil
	}
	e.afterStep()
	return item
}

// PlaceRandom puts a new item of rank at a random empty cell and resolves it.
// Returns false when the grid is full or no random source is set.
func (e *Engine) PlaceRandom(rank int) (Pos, bool) {
	if !e.validRank(rank) {
		return Pos{}, false
	}
	p, ok := e.grid.RandomEmptyPosition(e.rng)
	if !ok {
		return Pos{}, false
	}
	if !e.grid.Place(e.newItem(rank), p) {
		return Pos{}, false
	}
	e.score.RecordSpawn()
	e.resolve(p)
	return p, true
}

// SpawnRandom places an item of a weighted random rank at a random empty cell
// and resolves it.
func (e *Engine) SpawnRandom() (Pos, bool) {
	return e.PlaceRandom(e.NextRank())
}

// SpawnInitial spawns up to n random items, stopping early when the grid fills.
// Returns the number spawned.
func (e *Engine) SpawnInitial(n int) int {
	spawned := 0
	for range n {
		if _, ok := e.SpawnRandom(); !ok {
			break
		}
		spawned++
	}
	return spawned
}

// Drop enters an item of rank at the top of column x, lets it fall and
// resolves the cell it lands on. Returns where the item (or the item that
// absorbed it) came to rest.
func (e *Engine) Drop(x, rank int) (Pos, bool) {
	if !e.validRank(rank) {
		return Pos{}, false
	}
	top := P(x, e.grid.Height()-1)
	if !e.grid.IsEmpty(top) {
		return Pos{}, false
	}
	if !e.grid.Place(e.newItem(rank), top) {
		return Pos{}, false
	}
	e.score.RecordSpawn()

	landing := e.gravity.Fall(top)
	merges := e.resolve(landing.Pos)
	if landing.Merged {
		merges++
	}
	e.logger.Debug("drop", "column", x, "rank", rank, "landed", landing.Pos, "merges", merges)
	return landing.Pos, true
}

// DropRandom drops a weighted random rank into a random column with room.
func (e *Engine) DropRandom() (Pos, bool) {
	if e.rng == nil {
		return Pos{}, false
	}
	open := make([]int, 0, e.grid.Width())
	for x := range e.grid.Width() {
		if e.CanDrop(x) {
			open = append(open, x)
		}
	}
	if len(open) == 0 {
		return Pos{}, false
	}
	return e.Drop(open[e.rng.IntN(len(open))], e.NextRank())
}

// Resolve runs the merge cascade from p and returns the number of merges.
func (e *Engine) Resolve(p Pos) int {
	return e.resolve(p)
}

// resolve runs a worklist of positions: each is resolved, gaps left by
// consumed neighbours are settled, and every landing is queued in turn.
func (e *Engine) resolve(start Pos) int {
	merges := 0
	queue := []Pos{start}
	// Each queued position stems from a merge or a fall; both are finite.
	budget := e.grid.Width() * e.grid.Height() * (e.grid.Height() + 1)

	for len(queue) > 0 && budget > 0 {
		budget--
		p := queue[0]
		queue = queue[1:]
		if e.grid.Get(p) == nil {
			continue
		}

		res := e.resolver.ResolveAt(p)
		merges += res.Merges
		for _, gap := range res.Removed {
			if !e.gravity.NeedsSettle(gap) {
				continue
			}
			for _, l := range e.gravity.SettleColumn(gap.X) {
				if l.Merged {
					merges++
				}
				queue = append(queue, l.Pos)
			}
		}
	}

	if merges > 1 {
		e.logger.Debug("cascade", "at", start, "merges", merges, "score", e.score.Total())
	}
	e.afterStep()
	return merges
}

// Tick advances the combo timer by dt seconds.
func (e *Engine) Tick(dt float64) {
	e.score.Tick(dt)
}

// afterStep reports game-state transitions once per step.
func (e *Engine) afterStep() {
	if !e.completed && e.goal.Reached(e.score.Total()) {
		e.completed = true
		total := e.score.Total()
		stars := e.goal.Stars(total)
		e.logger.Info("level completed", "score", total, "target", e.goal.Target, "stars", stars)
		e.bus.Emit(LevelCompleted{Score: total, Target: e.goal.Target, Stars: stars})
	}

	blocked := e.resolver.IsBlocked()
	if blocked && !e.blocked {
		e.logger.Info("grid blocked", "score", e.score.Total())
		e.bus.Emit(GridBlocked{})
	}
	e.blocked = blocked
}

// Completed reports whether the goal was reached in this attempt.
func (e *Engine) Completed() bool {
	return e.completed
}

// Score returns the current total score.
func (e *Engine) Score() int {
	return e.score.Total()
}

// Stats returns the attempt statistics.
func (e *Engine) Stats() Stats {
	st := e.score.State()
	return Stats{
		ScoreState:      st,
		ComboMultiplier: e.score.ComboMultiplier(),
		Bonus:           st.Bonus(),
		Occupied:        e.grid.OccupiedCount(),
		Empty:           e.grid.EmptyCount(),
		Blocked:         e.resolver.IsBlocked(),
		Completed:       e.completed,
	}
}

// Reset clears the grid and scoring for a new attempt. Item ids keep
// increasing across attempts.
func (e *Engine) Reset() {
	e.grid.Clear()
	e.score.Reset()
	e.blocked = false
	e.completed = false
}
