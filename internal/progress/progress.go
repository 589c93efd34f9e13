// Package progress tracks campaign progression: the highest unlocked level
// and the best score and stars per level. State lives in a key-value store.
package progress

import (
	"fmt"
	"sync"
)

// KV is the persistence contract progress needs.
// Missing keys read as def without error.
type KV interface {
	GetInt(key string, def int) (int, error)
	SetInt(key string, value int) error
	Delete(key string) error
}

// Key layout.
const (
	UnlockedLevelKey = "mergcrush.unlocked_level"
	levelScorePrefix = "mergcrush.level_score."
	levelStarsPrefix = "mergcrush.level_stars."
)

// LevelScoreKey returns the best-score key of a level.
func LevelScoreKey(levelID string) string {
	return levelScorePrefix + levelID
}

// LevelStarsKey returns the best-stars key of a level.
func LevelStarsKey(levelID string) string {
	return levelStarsPrefix + levelID
}

// LevelProgress summarises one level.
type LevelProgress struct {
	Index     int
	ID        string
	Unlocked  bool
	BestScore int
	BestStars int
}

// Completed reports whether the level was ever cleared.
func (p LevelProgress) Completed() bool {
	return p.BestStars > 0
}

// Result describes what a completion changed.
type Result struct {
	NewBestScore bool
	NewBestStars bool
	Unlocked     int // Newly unlocked level index, -1 for none
}

// Tracker keeps campaign progress for an ordered list of levels.
type Tracker struct {
	mu       sync.Mutex
	kv       KV
	levelIDs []string
	unlocked int
}

// NewTracker loads progress for the given level order.
// The first level is always unlocked.
func NewTracker(kv KV, levelIDs []string) (*Tracker, error) {
	unlocked, err := kv.GetInt(UnlockedLevelKey, 0)
	if err != nil {
		return nil, fmt.Errorf("progress: load unlocked level: %w", err)
	}
	t := &Tracker{
		kv:       kv,
		levelIDs: append([]string(nil), levelIDs...),
		unlocked: max(unlocked, 0),
	}
	if n := len(t.levelIDs); n > 0 {
		t.unlocked = min(t.unlocked, n-1)
	}
	return t, nil
}

// Levels returns the number of tracked levels.
func (t *Tracker) Levels() int {
	return len(t.levelIDs)
}

// Unlocked returns the highest unlocked level index.
func (t *Tracker) Unlocked() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unlocked
}

// IsUnlocked reports whether the level at index may be played.
func (t *Tracker) IsUnlocked(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return index >= 0 && index < len(t.levelIDs) && index <= t.unlocked
}

func (t *Tracker) levelID(index int) (string, error) {
	if index < 0 || index >= len(t.levelIDs) {
		return "", fmt.Errorf("progress: level index %d out of range", index)
	}
	return t.levelIDs[index], nil
}

// BestScore returns the best recorded score of a level.
func (t *Tracker) BestScore(index int) (int, error) {
	id, err := t.levelID(index)
	if err != nil {
		return 0, err
	}
	return t.kv.GetInt(LevelScoreKey(id), 0)
}

// BestStars returns the best recorded stars of a level.
func (t *Tracker) BestStars(index int) (int, error) {
	id, err := t.levelID(index)
	if err != nil {
		return 0, err
	}
	return t.kv.GetInt(LevelStarsKey(id), 0)
}

// Complete records a cleared level: best score and stars only ever rise,
// and the next level unlocks.
func (t *Tracker) Complete(index, score, stars int) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := Result{Unlocked: -1}
	id, err := t.levelID(index)
	if err != nil {
		return res, err
	}

	bestScore, err := t.kv.GetInt(LevelScoreKey(id), 0)
	if err != nil {
		return res, fmt.Errorf("progress: read score: %w", err)
	}
	if score > bestScore {
		if err := t.kv.SetInt(LevelScoreKey(id), score); err != nil {
			return res, fmt.Errorf("progress: save score: %w", err)
		}
		res.NewBestScore = true
	}

	bestStars, err := t.kv.GetInt(LevelStarsKey(id), 0)
	if err != nil {
		return res, fmt.Errorf("progress: read stars: %w", err)
	}
	if stars > bestStars {
		if err := t.kv.SetInt(LevelStarsKey(id), stars); err != nil {
			return res, fmt.Errorf("progress: save stars: %w", err)
		}
		res.NewBestStars = true
	}

	next := index + 1
	if next < len(t.levelIDs) && next > t.unlocked {
		if err := t.kv.SetInt(UnlockedLevelKey, next); err != nil {
			return res, fmt.Errorf("progress: save unlocked level: %w", err)
		}
		t.unlocked = next
		res.Unlocked = next
	}

	return res, nil
}

// Summary returns the progress of every level in order.
func (t *Tracker) Summary() ([]LevelProgress, error) {
	result := make([]LevelProgress, 0, len(t.levelIDs))
	for i, id := range t.levelIDs {
		score, err := t.BestScore(i)
		if err != nil {
			return nil, err
		}
		stars, err := t.BestStars(i)
		if err != nil {
			return nil, err
		}
		result = append(result, LevelProgress{
			Index:     i,
			ID:        id,
			Unlocked:  t.IsUnlocked(i),
			BestScore: score,
			BestStars: stars,
		})
	}
	return result, nil
}

// ResetAll forgets every unlock, score and star.
func (t *Tracker) ResetAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.kv.Delete(UnlockedLevelKey); err != nil {
		return fmt.Errorf("progress: reset: %w", err)
	}
	for _, id := range t.levelIDs {
		if err := t.kv.Delete(LevelScoreKey(id)); err != nil {
			return fmt.Errorf("progress: reset: %w", err)
		}
		if err := t.kv.Delete(LevelStarsKey(id)); err != nil {
			return fmt.Errorf("progress: reset: %w", err)
		}
	}
	t.unlocked = 0
	return nil
}

// UnlockAll makes every level playable.
func (t *Tracker) UnlockAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	last := max(len(t.levelIDs)-1, 0)
	if err := t.kv.SetInt(UnlockedLevelKey, last); err != nil {
		return fmt.Errorf("progress: unlock all: %w", err)
	}
	t.unlocked = last
	return nil
}
