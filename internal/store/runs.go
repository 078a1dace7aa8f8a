package store

import (
	"fmt"
	"time"
)

// Run is one recorded pipeline run.
type Run struct {
	RunID     string `json:"run_id"`
	Kind      string `json:"kind"`
	CreatedAt int64  `json:"created_at"`
}

// CreateRun records a pipeline run. Kind is one of detect, tag,
// reconcile, score.
func (db *DB) CreateRun(runID, kind string) error {
	_, err := db.Exec(
		"INSERT INTO runs (run_id, kind, created_at) VALUES (?, ?, ?)",
		runID, kind, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("create run %q: %w", runID, err)
	}
	return nil
}

// ListRuns returns recorded runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(
		"SELECT run_id, kind, created_at FROM runs ORDER BY created_at DESC, id DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Kind, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
