package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lazypower/topiary/internal/llm"
	"github.com/lazypower/topiary/internal/meeting"
	"github.com/lazypower/topiary/internal/store"
	"github.com/lazypower/topiary/internal/taxonomy"
)

// ErrInvalidMention marks a tagged mention missing a required field.
var ErrInvalidMention = errors.New("invalid mention")

// TaggedMention is one topic occurrence the LLM attributed to a chunk.
type TaggedMention struct {
	ChunkID    string  `json:"chunk_id"`
	TopicID    string  `json:"topic_id,omitempty"`
	TopicLabel string  `json:"topic_label"`
	Evidence   string  `json:"evidence"`
	Relevance  float64 `json:"relevance,omitempty"`
}

// TagMentions asks the LLM which taxonomy topics each transcript chunk
// mentions. Chunks are sent as one JSON payload in a single call.
func (e *Engine) TagMentions(ctx context.Context, base []taxonomy.Item, chunks []meeting.Chunk) ([]TaggedMention, error) {
	if e.LLM == nil {
		return nil, fmt.Errorf("no llm client configured")
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	chunksJSON, err := json.Marshal(chunks)
	if err != nil {
		return nil, fmt.Errorf("marshal chunks: %w", err)
	}

	prompt := llm.TagMentionsPrompt(taxonomyIDs(base), chunksJSON)
	resp, err := e.LLM.Complete(ctx, llm.TagSystem, prompt)
	if err != nil {
		return nil, fmt.Errorf("tag mentions: %w", err)
	}
	log.Printf("tag: %s responded with %d tokens", resp.Provider, resp.TokensUsed)

	var out struct {
		Mentions []TaggedMention `json:"mentions"`
	}
	if err := llm.DecodeJSON(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("decode tag response: %w", err)
	}

	for _, m := range out.Mentions {
		if m.ChunkID == "" || m.TopicLabel == "" || m.Evidence == "" {
			return nil, fmt.Errorf("%w: chunk_id, topic_label and evidence are required, got %+v", ErrInvalidMention, m)
		}
	}
	return out.Mentions, nil
}

// MentionRecords joins tagged mentions back to their chunks and shapes
// them for the store. Mentions referencing unknown chunk ids are
// dropped. The timestamp prefers the chunk's start time, then the
// meeting's, then now.
func MentionRecords(m *meeting.Meeting, chunks []meeting.Chunk, tagged []TaggedMention, now time.Time) []store.MentionRecord {
	byID := make(map[string]meeting.Chunk, len(chunks))
	for _, ch := range chunks {
		byID[ch.ChunkID] = ch
	}

	var records []store.MentionRecord
	for _, tm := range tagged {
		ch, ok := byID[tm.ChunkID]
		if !ok {
			log.Printf("tag: dropping mention for unknown chunk %q", tm.ChunkID)
			continue
		}
		ts := ch.StartTime
		if ts == "" {
			ts = m.StartTime
		}
		if ts == "" {
			ts = now.UTC().Format(time.RFC3339)
		}
		topic := tm.TopicID
		if topic == "" {
			topic = tm.TopicLabel
		}
		rel := tm.Relevance
		if rel == 0 {
			rel = 1.0
		}
		records = append(records, store.MentionRecord{
			MeetingID:   m.MeetingID,
			ChunkHash:   meeting.ChunkHash(ch.Text),
			TopicID:     topic,
			SpeakerRole: ch.Speaker,
			MeetingType: m.MeetingType,
			Relevance:   rel,
			Timestamp:   ts,
		})
	}
	return records
}
