package store

import (
	"fmt"
	"time"

	"github.com/lazypower/topiary/internal/taxonomy"
)

// MentionRecord is one persisted topic mention, joined to its source
// meeting and chunk.
type MentionRecord struct {
	MeetingID   string  `json:"meeting_id"`
	ChunkHash   string  `json:"chunk_hash"`
	TopicID     string  `json:"topic_id"`
	SpeakerRole string  `json:"speaker_role"`
	MeetingType string  `json:"meeting_type"`
	Relevance   float64 `json:"relevance"`
	Timestamp   string  `json:"timestamp"`
}

// Mention converts the record to the scorer's input shape.
func (r MentionRecord) Mention() taxonomy.Mention {
	return taxonomy.Mention{
		TopicID:     r.TopicID,
		SpeakerRole: r.SpeakerRole,
		MeetingType: r.MeetingType,
		Timestamp:   r.Timestamp,
		Relevance:   r.Relevance,
	}
}

// InsertMentionRecords stores a batch of mention records under a run id.
// All-or-nothing: runs in one transaction.
func (db *DB) InsertMentionRecords(runID string, records []MentionRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert mentions: %w", err)
	}

	now := time.Now().UnixMilli()
	for _, r := range records {
		if _, err := tx.Exec(`
			INSERT INTO mention_records
				(run_id, meeting_id, chunk_hash, topic_id, speaker_role, meeting_type, relevance, timestamp, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, r.MeetingID, r.ChunkHash, r.TopicID, r.SpeakerRole, r.MeetingType, r.Relevance, r.Timestamp, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert mention for %q: %w", r.TopicID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert mentions: %w", err)
	}
	return nil
}

// AllMentionRecords returns every stored mention record, oldest first.
func (db *DB) AllMentionRecords() ([]MentionRecord, error) {
	rows, err := db.Query(`
		SELECT meeting_id, chunk_hash, topic_id, speaker_role, meeting_type, relevance, timestamp
		FROM mention_records ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("all mentions: %w", err)
	}
	defer rows.Close()

	var records []MentionRecord
	for rows.Next() {
		var r MentionRecord
		if err := rows.Scan(&r.MeetingID, &r.ChunkHash, &r.TopicID, &r.SpeakerRole, &r.MeetingType, &r.Relevance, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan mention: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
