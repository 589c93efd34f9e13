package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run outcomes.
const (
	OutcomeCleared  = "cleared"
	OutcomeBlocked  = "blocked"
	OutcomeTimeout  = "timeout"
	OutcomeNoMoves  = "out_of_moves"
	OutcomeStuck    = "stuck"
	OutcomeAbandon  = "abandoned"
	OutcomeFinished = "finished"
)

// Run is one recorded attempt with its statistics.
type Run struct {
	ID          string // UUID, assigned on save when empty
	Mode        string
	LevelID     string
	Score       int
	Stars       int
	Merges      int
	MaxCombo    int
	HighestRank int
	Spawned     int
	Outcome     string
	Seed        int64
	Duration    int // Seconds
	CreatedAt   time.Time
}

// SaveRun records a run and returns its ID.
func (s *Store) SaveRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs
		 (id, mode, level_id, score, stars, merges, max_combo, highest_rank, spawned, outcome, seed, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Mode,
		run.LevelID,
		run.Score,
		run.Stars,
		run.Merges,
		run.MaxCombo,
		run.HighestRank,
		run.Spawned,
		run.Outcome,
		run.Seed,
		run.Duration,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return run.ID, nil
}

const runColumns = `id, mode, level_id, score, stars, merges, max_combo, highest_rank,
		        spawned, outcome, seed, duration_secs, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var createdAt any
	err := row.Scan(
		&r.ID,
		&r.Mode,
		&r.LevelID,
		&r.Score,
		&r.Stars,
		&r.Merges,
		&r.MaxCombo,
		&r.HighestRank,
		&r.Spawned,
		&r.Outcome,
		&r.Seed,
		&r.Duration,
		&createdAt,
	)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// RunByID retrieves a run. Returns nil when it does not exist.
func (s *Store) RunByID(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &run, nil
}

// RecentRuns retrieves the most recent runs, optionally filtered by mode.
// limit <= 0 means 20.
func (s *Store) RecentRuns(mode string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if mode != "" {
		query += ` WHERE mode = ?`
		args = append(args, mode)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}
