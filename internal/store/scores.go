package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SaveScores stores the score table produced by a scoring run.
func (db *DB) SaveScores(runID string, scores map[string]float64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin save scores: %w", err)
	}

	now := time.Now().UnixMilli()
	for topicID, score := range scores {
		if _, err := tx.Exec(
			"INSERT INTO topic_scores (run_id, topic_id, score, created_at) VALUES (?, ?, ?, ?)",
			runID, topicID, score, now,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert score for %q: %w", topicID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save scores: %w", err)
	}
	return nil
}

// ScoresForRun returns the score table for one run.
func (db *DB) ScoresForRun(runID string) (map[string]float64, error) {
	rows, err := db.Query("SELECT topic_id, score FROM topic_scores WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("scores for run: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]float64)
	for rows.Next() {
		var id string
		var score float64
		if err := rows.Scan(&id, &score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores[id] = score
	}
	return scores, rows.Err()
}

// LatestScores returns the score table from the most recent scoring run,
// or an empty map when no run has been scored yet.
func (db *DB) LatestScores() (map[string]float64, error) {
	var runID string
	err := db.QueryRow(
		"SELECT run_id FROM topic_scores ORDER BY created_at DESC LIMIT 1",
	).Scan(&runID)
	if err == sql.ErrNoRows {
		return map[string]float64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest score run: %w", err)
	}
	return db.ScoresForRun(runID)
}
