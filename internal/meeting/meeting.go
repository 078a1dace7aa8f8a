// Package meeting parses meeting documents and splits their transcripts
// into chunks for tagging. Transcripts arrive in three shapes: a single
// flat string, a list of strings, or a list of structured turns; all are
// tolerated, along with unknown fields.
package meeting

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// maxChunkChars caps a single turn's text to keep prompt sizes bounded.
const maxChunkChars = 100000

// Meeting is one meeting document.
type Meeting struct {
	MeetingID    string          `json:"meeting_id"`
	MeetingTitle string          `json:"meeting_title"`
	MeetingType  string          `json:"meeting_type"`
	StartTime    string          `json:"start_time,omitempty"`
	Transcript   json.RawMessage `json:"transcript"`
}

// Turn is one structured transcript entry.
type Turn struct {
	Speaker   string `json:"speaker"`
	StartTime string `json:"start_time,omitempty"`
	Text      string `json:"text"`
}

// Chunk is a tagging unit derived from the transcript.
type Chunk struct {
	ChunkID   string `json:"chunk_id"`
	Speaker   string `json:"speaker"`
	StartTime string `json:"start_time,omitempty"`
	Text      string `json:"text"`
}

// Load reads and decodes a meeting document from disk.
func Load(path string) (*Meeting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read meeting: %w", err)
	}
	var m Meeting
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode meeting: %w", err)
	}
	return &m, nil
}

// turns decodes the transcript field into structured turns regardless of
// input shape. Malformed list entries degrade to plain-text turns rather
// than failing the whole meeting.
func (m *Meeting) turns() []Turn {
	if len(m.Transcript) == 0 {
		return nil
	}

	var flat string
	if err := json.Unmarshal(m.Transcript, &flat); err == nil {
		flat = strings.TrimSpace(flat)
		if flat == "" {
			return nil
		}
		return []Turn{{Speaker: "unknown", StartTime: m.StartTime, Text: flat}}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(m.Transcript, &items); err != nil {
		return nil
	}

	var turns []Turn
	for _, item := range items {
		var turn Turn
		if err := json.Unmarshal(item, &turn); err == nil && (turn.Text != "" || turn.Speaker != "") {
			turns = append(turns, turn)
			continue
		}
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			turns = append(turns, Turn{Text: text})
		}
	}
	return turns
}

// Chunks splits the transcript into tagging units. Chunk ids are stable
// 1-based hex counters; speakers default to "unknown" and text is trimmed
// and capped.
func (m *Meeting) Chunks() []Chunk {
	turns := m.turns()
	chunks := make([]Chunk, 0, len(turns))
	for i, turn := range turns {
		text := strings.TrimSpace(turn.Text)
		if len(text) > maxChunkChars {
			text = text[:maxChunkChars]
		}
		speaker := turn.Speaker
		if speaker == "" {
			speaker = "unknown"
		}
		chunks = append(chunks, Chunk{
			ChunkID:   fmt.Sprintf("%08x", i+1),
			Speaker:   speaker,
			StartTime: turn.StartTime,
			Text:      text,
		})
	}
	return chunks
}

// Text flattens the transcript to a single newline-joined string for
// prompt construction, skipping empty turns.
func (m *Meeting) Text() string {
	var parts []string
	for _, turn := range m.turns() {
		if t := strings.TrimSpace(turn.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// ChunkHash returns the sha256 hex digest of a chunk's text, used to key
// mention records independently of chunk numbering.
func ChunkHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
