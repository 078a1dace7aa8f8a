package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "taxonomy_items: current taxonomy snapshot, ordered",
		SQL: `
CREATE TABLE taxonomy_items (
    position   INTEGER PRIMARY KEY,
    id         TEXT NOT NULL UNIQUE,
    score      REAL NOT NULL DEFAULT 0.0,
    updated_at INTEGER NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "runs: pipeline run tracking",
		SQL: `
CREATE TABLE runs (
    id         INTEGER PRIMARY KEY,
    run_id     TEXT NOT NULL UNIQUE,
    kind       TEXT NOT NULL CHECK (kind IN ('detect', 'tag', 'reconcile', 'score')),
    created_at INTEGER NOT NULL
);

CREATE INDEX idx_runs_created ON runs(created_at DESC);
`,
	},
	{
		Version:     3,
		Description: "mention_records: raw topic mentions per run",
		SQL: `
CREATE TABLE mention_records (
    id           INTEGER PRIMARY KEY,
    run_id       TEXT,
    meeting_id   TEXT,
    chunk_hash   TEXT,
    topic_id     TEXT NOT NULL,
    speaker_role TEXT,
    meeting_type TEXT,
    relevance    REAL NOT NULL DEFAULT 1.0,
    timestamp    TEXT,
    created_at   INTEGER NOT NULL
);

CREATE INDEX idx_mentions_topic   ON mention_records(topic_id);
CREATE INDEX idx_mentions_run     ON mention_records(run_id);
CREATE INDEX idx_mentions_meeting ON mention_records(meeting_id);
`,
	},
	{
		Version:     4,
		Description: "topic_scores: aggregated scores per scoring run",
		SQL: `
CREATE TABLE topic_scores (
    run_id     TEXT NOT NULL,
    topic_id   TEXT NOT NULL,
    score      REAL NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (run_id, topic_id)
);

CREATE INDEX idx_scores_created ON topic_scores(created_at DESC);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
