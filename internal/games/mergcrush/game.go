// Package mergcrush provides the MergCrush terminal game: a campaign of
// levels and an endless mode on top of the merge simulation in core.
package mergcrush

import (
	"io"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jfxdev02-arch/mergcrush/internal/config"
	platformcore "github.com/jfxdev02-arch/mergcrush/internal/core"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/core"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/levels"
	"github.com/jfxdev02-arch/mergcrush/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Registry identifiers.
const (
	IDCampaign = "mergcrush"
	IDEndless  = "mergcrush_endless"
)

// Game implements the MergCrush drop-and-merge game.
type Game struct {
	mode      Mode
	cfg       config.MergeConfig
	levels    []levels.Level
	logger    *log.Logger
	listeners []core.Listener

	engine *core.Engine
	diff   *config.DifficultyManager
	rng    *rand.Rand

	tick     uint64
	tickRate int
	dt       float64 // Seconds per tick

	levelIndex    int
	startLevel    int // Level to start on at the next Reset, -1 for none
	level         levels.Level
	campaignScore int // Score banked from cleared levels

	cursor     int // Drop column
	next       int // Rank of the next player drop
	spawnTimer float64
	elapsed    float64
	drops      int

	// Last scoring feedback for the HUD
	lastPoints     int
	lastMultiplier float64
	flashTicks     int

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	gameOver        bool
	levelCleared    bool
	won             bool
	paused          bool
	tooSmall        bool
	outcome         platformcore.Outcome
	levelClearTicks int
}

// Settings are the package-wide defaults used by registry factories.
type Settings struct {
	Config config.MergeConfig
	Levels []levels.Level // nil means the built-in campaign
	Logger *log.Logger
}

// Package-level variables for configuration
var (
	settingsMu         sync.RWMutex
	settings           = Settings{Config: config.DefaultMergeConfig()}
	selectedStartLevel int
)

// Configure replaces the defaults used by games created through the registry.
func Configure(s Settings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = s
}

// SetStartLevel sets the starting level (1-indexed). 0 means start from beginning.
func SetStartLevel(level int) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	selectedStartLevel = level
}

// GetStartLevel returns the currently selected start level.
func GetStartLevel() int {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return selectedStartLevel
}

// takeStartLevel returns and clears the selected start level.
func takeStartLevel() int {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	level := selectedStartLevel
	selectedStartLevel = 0
	return level
}

// CampaignLevels returns the configured campaign levels.
func CampaignLevels() []levels.Level {
	settingsMu.RLock()
	lvls := settings.Levels
	settingsMu.RUnlock()
	if len(lvls) > 0 {
		return lvls
	}
	return levels.MustCampaign()
}

// Option configures a Game.
type Option func(*Game)

// WithConfig sets the game configuration.
func WithConfig(cfg config.MergeConfig) Option {
	return func(g *Game) { g.cfg = cfg }
}

// WithLevels sets the campaign levels.
func WithLevels(lvls []levels.Level) Option {
	return func(g *Game) {
		if len(lvls) > 0 {
			g.levels = lvls
		}
	}
}

// WithLogger sets the logger passed to every level's engine.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithListener subscribes l to the simulation events of every level.
func WithListener(l core.Listener) Option {
	return func(g *Game) {
		if l != nil {
			g.listeners = append(g.listeners, l)
		}
	}
}

// WithStartLevel starts the campaign at index (0-based).
func WithStartLevel(index int) Option {
	return func(g *Game) { g.startLevel = index }
}

func newGame(mode Mode, opts ...Option) *Game {
	settingsMu.RLock()
	s := settings
	settingsMu.RUnlock()

	g := &Game{
		mode:       mode,
		cfg:        s.Config,
		levels:     s.Levels,
		logger:     s.Logger,
		startLevel: -1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	if len(g.levels) == 0 {
		g.levels = levels.MustCampaign()
	}
	return g
}

// New creates a new campaign mode game.
func New(opts ...Option) *Game {
	return newGame(ModeCampaign, opts...)
}

// NewEndless creates a new endless mode game.
func NewEndless(opts ...Option) *Game {
	return newGame(ModeEndless, opts...)
}

func init() {
	registry.Register(IDCampaign, func() registry.Game {
		return New()
	})
	registry.Register(IDEndless, func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return IDEndless
	}
	return IDCampaign
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "MergCrush (Endless)"
	}
	return "MergCrush"
}

// Description returns a one-line summary for menus.
func (g *Game) Description() string {
	if g.mode == ModeEndless {
		return "Survive as long as you can while spawns speed up"
	}
	return "Reach each level's target score to unlock the next"
}

// Mode returns the game mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// Reset initializes or restarts the game. A campaign restart retries the
// current level; after finishing the campaign it starts over.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	seed := uint64(cfg.Seed)
	g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.dt = 1 / float64(g.tickRate)
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.campaignScore = 0
	g.gameOver = false
	g.paused = false
	g.outcome = platformcore.OutcomeNone
	g.diff = config.NewDifficultyManager(g.cfg.Difficulty)

	switch {
	case g.startLevel >= 0:
		g.levelIndex = g.startLevel
		g.startLevel = -1
	case g.won:
		g.levelIndex = 0
	}
	if start := takeStartLevel(); g.mode == ModeCampaign && start > 0 {
		g.levelIndex = start - 1
	}
	g.levelIndex = platformcore.Clamp(g.levelIndex, 0, len(g.levels)-1)
	g.won = false

	g.loadLevel()
}

// loadLevel builds a fresh engine for the current level (or endless board).
func (g *Game) loadLevel() {
	simCfg := g.cfg.Core()
	difficulty := g.cfg.Spawn.Difficulty
	picker := core.WeightedRanks{MaxRank: simCfg.MaxRank, Cap: g.cfg.Spawn.MaxSpawnRank}
	initial := g.cfg.Spawn.InitialItems
	var goal core.Goal

	if g.mode == ModeCampaign {
		g.level = g.levels[g.levelIndex]
		simCfg = g.level.Apply(simCfg)
		difficulty = g.level.Difficulty
		picker = g.level.Picker(simCfg.MaxRank)
		initial = g.level.InitialItems
		goal = g.level.Goal()
	} else {
		g.level = levels.Level{Name: "Endless"}
	}

	g.engine = core.NewEngine(simCfg,
		core.WithLogger(g.logger.With("level", g.level.Name)),
		core.WithRand(g.rng),
		core.WithRankPicker(picker),
		core.WithDifficulty(difficulty),
		core.WithGoal(goal),
	)
	g.engine.Subscribe(core.ListenerFunc(g.onEvent))
	for _, l := range g.listeners {
		g.engine.Subscribe(l)
	}

	for range initial {
		if _, ok := g.engine.DropRandom(); !ok {
			break
		}
	}

	g.cursor = g.engine.Width() / 2
	g.next = g.engine.NextRank()
	g.spawnTimer = 0
	g.elapsed = 0
	g.drops = 0
	g.levelCleared = false
	g.levelClearTicks = 0
	g.flashTicks = 0
	g.checkScreenSize()

	g.logger.Debug("level loaded", "mode", g.mode, "index", g.levelIndex, "id", g.level.ID, "initial", initial)
}

// onEvent keeps HUD feedback in sync with the simulation.
func (g *Game) onEvent(e core.Event) {
	if s, ok := e.(core.Scored); ok {
		g.lastPoints = s.Points
		g.lastMultiplier = s.Multiplier
		g.flashTicks = g.tickRate
	}
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	minW, minH := g.minScreenSize()
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Resize updates screen dimensions without restarting the game.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.tick++

	if g.tooSmall {
		return g.result(false)
	}

	if in.Has(platformcore.ActionPause) && !g.gameOver && !g.won {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver || g.won {
		return g.result(false)
	}

	// Level clear banner, then auto-advance
	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= g.clearDelayTicks() {
			g.advanceLevel()
		}
		return g.result(false)
	}

	g.handleInput(in)
	g.engine.Tick(g.dt)
	g.elapsed += g.dt
	if g.flashTicks > 0 {
		g.flashTicks--
	}
	g.runSpawner()

	return g.checkEnd()
}

// handleInput moves the cursor and drops the next item.
func (g *Game) handleInput(in platformcore.InputFrame) {
	if in.Empty() {
		return
	}
	last := g.engine.Width() - 1
	switch {
	case in.Has(platformcore.ActionLeft):
		g.cursor = platformcore.Clamp(g.cursor-1, 0, last)
	case in.Has(platformcore.ActionRight):
		g.cursor = platformcore.Clamp(g.cursor+1, 0, last)
	}

	if in.Has(platformcore.ActionDrop) {
		if _, ok := g.engine.Drop(g.cursor, g.next); ok {
			g.drops++
			g.next = g.engine.NextRank()
		}
	}
}

// runSpawner drops random items on the spawn interval.
func (g *Game) runSpawner() {
	interval := g.spawnInterval()
	if interval <= 0 {
		return
	}
	g.spawnTimer += g.dt
	if g.spawnTimer < interval {
		return
	}
	g.spawnTimer -= interval

	for range g.itemsPerSpawn() {
		if _, ok := g.engine.DropRandom(); !ok {
			break
		}
	}

	if g.mode == ModeEndless {
		g.engine.SetDifficulty(g.diff.SpawnDifficulty(g.cfg.Spawn.Difficulty, g.engine.Score(), int(g.tick)))
	}
}

func (g *Game) spawnInterval() float64 {
	if g.mode == ModeCampaign {
		return g.level.SpawnInterval
	}
	return g.diff.SpawnInterval(g.cfg.Spawn.Interval, g.engine.Score(), int(g.tick))
}

func (g *Game) itemsPerSpawn() int {
	if g.mode == ModeCampaign {
		return max(1, g.level.ItemsPerSpawn)
	}
	return max(1, g.cfg.Spawn.ItemsPerSpawn)
}

func (g *Game) clearDelayTicks() int {
	return max(1, int(g.cfg.Gameplay.LevelClearDelay*float64(g.tickRate)))
}

// checkEnd detects level clear and the game-over conditions.
func (g *Game) checkEnd() platformcore.StepResult {
	if g.mode == ModeCampaign && g.engine.Completed() {
		g.levelCleared = true
		g.levelClearTicks = 0
		g.outcome = platformcore.OutcomeCleared
		g.logger.Info("level cleared", "id", g.level.ID, "score", g.engine.Score(), "stars", g.engine.Goal().Stars(g.engine.Score()))
		return g.result(true)
	}

	// A full grid can still hold a pair that never met a resolve; sweep it.
	if g.engine.IsFull() {
		g.sweep()
	}

	switch {
	case g.engine.IsBlocked():
		g.outcome = platformcore.OutcomeBlocked
	case g.level.TimeLimit > 0 && g.elapsed >= g.level.TimeLimit:
		g.outcome = platformcore.OutcomeTimeout
	case g.level.MoveLimit > 0 && g.drops >= g.level.MoveLimit:
		g.outcome = platformcore.OutcomeNoMoves
	default:
		return g.result(false)
	}

	g.gameOver = true
	g.logger.Info("game over", "mode", g.mode, "level", g.level.ID, "outcome", g.outcome, "score", g.totalScore())
	return g.result(false)
}

// sweep resolves every occupied cell until nothing merges and returns the
// number of merges.
func (g *Game) sweep() int {
	total := 0
	for {
		merged := 0
		for _, it := range g.engine.Occupants() {
			if g.engine.Item(it.Pos()) == it {
				merged += g.engine.Resolve(it.Pos())
			}
		}
		if merged == 0 {
			return total
		}
		total += merged
	}
}

// advanceLevel banks the level score and moves to the next level.
func (g *Game) advanceLevel() {
	g.campaignScore += g.engine.Score()
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.levelIndex >= len(g.levels)-1 {
		// Completed all levels
		g.won = true
		g.outcome = platformcore.OutcomeFinished
		return
	}

	g.levelIndex++
	g.outcome = platformcore.OutcomeNone
	g.loadLevel()
}

func (g *Game) totalScore() int {
	// The last level is banked when the campaign finishes
	if g.engine == nil || g.won {
		return g.campaignScore
	}
	return g.campaignScore + g.engine.Score()
}

func (g *Game) result(cleared bool) platformcore.StepResult {
	return platformcore.StepResult{State: g.State(), LevelCleared: cleared}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	st := platformcore.GameState{
		Score:      g.totalScore(),
		GameOver:   g.gameOver || g.won,
		Paused:     g.paused || g.tooSmall || g.levelCleared,
		Mode:       string(g.mode),
		LevelIndex: g.levelIndex,
		LevelID:    g.level.ID,
		Target:     g.level.Target,
		Cleared:    g.levelCleared || g.won,
		Outcome:    g.outcome,
		Elapsed:    g.elapsed,
	}
	if g.engine == nil {
		return st
	}

	stats := g.engine.Stats()
	st.LevelScore = stats.Total
	st.Stars = g.engine.Goal().Stars(stats.Total)
	st.Merges = stats.Merges
	st.MaxCombo = stats.MaxCombo
	st.HighestRank = stats.HighestRank
	st.Spawned = stats.Spawned
	return st
}
