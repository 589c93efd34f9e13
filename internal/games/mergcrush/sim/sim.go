// Package sim runs the merge engine headless with an automatic drop policy.
// Runs are deterministic for a given seed and policy.
package sim

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	platformcore "github.com/jfxdev02-arch/mergcrush/internal/core"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/core"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/levels"
)

// DefaultTurnSeconds is the simulated time between two drops.
const DefaultTurnSeconds = 0.5

// Policy picks the column for the next drop.
type Policy interface {
	Choose(e *core.Engine, rank int) (column int, ok bool)
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(e *core.Engine, rank int) (int, bool)

// Choose calls f(e, rank).
func (f PolicyFunc) Choose(e *core.Engine, rank int) (int, bool) {
	return f(e, rank)
}

// Greedy prefers a column where the item merges on landing, then one
// where it lands next to an equal rank, then the emptiest column.
// Ties go to the leftmost column.
type Greedy struct{}

// Choose implements Policy.
func (Greedy) Choose(e *core.Engine, rank int) (int, bool) {
	best, bestScore := -1, -1
	for x := range e.Width() {
		if !e.CanDrop(x) {
			continue
		}
		landing, ok := e.ColumnTop(x)
		if !ok {
			continue
		}

		score := 0
		if below := e.Item(landing.Below()); below != nil && below.Rank() == rank {
			score += 4 * e.Height()
		}
		for _, side := range []core.Pos{landing.Add(-1, 0), landing.Add(1, 0)} {
			if it := e.Item(side); it != nil && it.Rank() == rank {
				score += 2 * e.Height()
			}
		}
		score += e.Height() - landing.Y

		if score > bestScore {
			best, bestScore = x, score
		}
	}
	return best, best >= 0
}

// Options configure a run.
type Options struct {
	Config       core.Config
	Level        *levels.Level // Nil runs an endless board
	Difficulty   int           // Endless spawn difficulty, 0 means 1
	MaxSpawnRank int           // Endless spawn ceiling, 0 for none
	InitialItems int           // Endless only; levels bring their own
	Turns        int
	Seed         uint64
	SpawnEvery   int     // Random drop every N turns, 0 for none
	TurnSeconds  float64 // 0 means DefaultTurnSeconds
	Policy       Policy  // Nil means Greedy
	Listeners    []core.Listener
	Logger       *log.Logger
	Delay        time.Duration // Wall-clock pause between turns
}

// Result summarises a finished run.
type Result struct {
	Turns   int
	Outcome platformcore.Outcome
	Stars   int
	Stats   core.Stats
	Ranks   [][]int
	Elapsed float64 // Simulated seconds
}

// ErrNoTurns is returned when Options.Turns is not positive.
var ErrNoTurns = errors.New("sim: turns must be positive")

// Run plays opts.Turns drops, stopping early when the level is cleared or
// no drop can be made. It returns ctx.Err() when cancelled.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Turns <= 0 {
		return Result{}, ErrNoTurns
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	policy := opts.Policy
	if policy == nil {
		policy = Greedy{}
	}
	dt := opts.TurnSeconds
	if dt <= 0 {
		dt = DefaultTurnSeconds
	}

	engine, initial := newEngine(opts, logger)
	for _, l := range opts.Listeners {
		engine.Subscribe(l)
	}
	for range initial {
		if _, ok := engine.DropRandom(); !ok {
			break
		}
	}

	res := Result{Outcome: platformcore.OutcomeNoMoves}
	for res.Turns < opts.Turns {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if engine.Completed() {
			res.Outcome = platformcore.OutcomeCleared
			break
		}

		rank := engine.NextRank()
		x, ok := policy.Choose(engine, rank)
		if ok {
			_, ok = engine.Drop(x, rank)
		}
		if !ok {
			res.Outcome = stopOutcome(engine)
			break
		}
		res.Turns++

		if opts.SpawnEvery > 0 && res.Turns%opts.SpawnEvery == 0 {
			engine.DropRandom()
		}
		engine.Tick(dt)
		res.Elapsed += dt

		if opts.Delay > 0 {
			if err := sleep(ctx, opts.Delay); err != nil {
				return res, err
			}
		}
	}
	if res.Outcome == platformcore.OutcomeNoMoves && engine.Completed() {
		res.Outcome = platformcore.OutcomeCleared
	}

	res.Stats = engine.Stats()
	res.Stars = engine.Goal().Stars(res.Stats.Total)
	res.Ranks = engine.Ranks()
	logger.Info("simulation finished",
		"turns", res.Turns,
		"outcome", res.Outcome,
		"score", res.Stats.Total,
		"merges", res.Stats.Merges,
		"highest", res.Stats.HighestRank,
	)
	return res, nil
}

// stopOutcome classifies a run that ended because no drop was made.
// Only a full grid without a legal merge counts as blocked.
func stopOutcome(e *core.Engine) platformcore.Outcome {
	if e.IsBlocked() {
		return platformcore.OutcomeBlocked
	}
	return platformcore.OutcomeStuck
}

func newEngine(opts Options, logger *log.Logger) (*core.Engine, int) {
	seed := opts.Seed
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	cfg := opts.Config.WithDefaults()

	if lvl := opts.Level; lvl != nil {
		cfg = lvl.Apply(cfg)
		return core.NewEngine(cfg,
			core.WithLogger(logger.With("level", lvl.ID)),
			core.WithRand(rng),
			core.WithRankPicker(lvl.Picker(cfg.MaxRank)),
			core.WithDifficulty(lvl.Difficulty),
			core.WithGoal(lvl.Goal()),
		), lvl.InitialItems
	}

	return core.NewEngine(cfg,
		core.WithLogger(logger),
		core.WithRand(rng),
		core.WithRankPicker(core.WeightedRanks{MaxRank: cfg.MaxRank, Cap: opts.MaxSpawnRank}),
		core.WithDifficulty(max(opts.Difficulty, 1)),
	), opts.InitialItems
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
