package tui

import (
	"github.com/charmbracelet/log"

	"github.com/jfxdev02-arch/mergcrush/internal/core"
	"github.com/jfxdev02-arch/mergcrush/internal/progress"
	"github.com/jfxdev02-arch/mergcrush/internal/storage"
)

// resultSink persists level completions, finished games and abandoned runs.
// Every dependency is optional; a nil store or tracker skips that part.
type resultSink struct {
	store   *storage.Store
	tracker *progress.Tracker
	logger  *log.Logger
}

func newResultSink(store *storage.Store, tracker *progress.Tracker, logger *log.Logger) *resultSink {
	if logger == nil {
		logger = log.Default()
	}
	return &resultSink{store: store, tracker: tracker, logger: logger}
}

// runFromState builds a run record from a game state.
func runFromState(st core.GameState, seed int64, outcome string) storage.Run {
	score := st.LevelScore
	if st.Mode != "campaign" || st.Outcome == core.OutcomeFinished {
		score = st.Score
	}
	return storage.Run{
		Mode:        st.Mode,
		LevelID:     st.LevelID,
		Score:       score,
		Stars:       st.Stars,
		Merges:      st.Merges,
		MaxCombo:    st.MaxCombo,
		HighestRank: st.HighestRank,
		Spawned:     st.Spawned,
		Outcome:     outcome,
		Seed:        seed,
		Duration:    int(st.Elapsed),
	}
}

// levelCleared unlocks the next level and records the attempt.
func (r *resultSink) levelCleared(st core.GameState, seed int64) {
	if r.tracker != nil {
		res, err := r.tracker.Complete(st.LevelIndex, st.LevelScore, st.Stars)
		if err != nil {
			r.logger.Warn("cannot save progress", "level", st.LevelID, "err", err)
		} else if res.Unlocked >= 0 {
			r.logger.Info("level unlocked", "index", res.Unlocked)
		}
	}
	r.saveRun(runFromState(st, seed, string(core.OutcomeCleared)))
}

// gameOver records the final score and the last run.
func (r *resultSink) gameOver(gameID string, st core.GameState, seed int64) {
	if r.store == nil {
		return
	}
	if st.Score > 0 {
		if _, err := r.store.SaveScore(gameID, st.Score); err != nil {
			r.logger.Warn("cannot save score", "game", gameID, "err", err)
		}
	}
	r.saveRun(runFromState(st, seed, string(st.Outcome)))
}

// abandoned records a run the player quit before it ended.
func (r *resultSink) abandoned(st core.GameState, seed int64) {
	if st.GameOver || st.Elapsed == 0 {
		return
	}
	r.saveRun(runFromState(st, seed, storage.OutcomeAbandon))
}

func (r *resultSink) saveRun(run storage.Run) {
	if r.store == nil {
		return
	}
	id, err := r.store.SaveRun(run)
	if err != nil {
		r.logger.Warn("cannot save run", "mode", run.Mode, "err", err)
		return
	}
	r.logger.Debug("run saved", "id", id, "outcome", run.Outcome, "score", run.Score)
}
