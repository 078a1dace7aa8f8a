package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/lazypower/topiary/internal/llm"
	"github.com/lazypower/topiary/internal/meeting"
	"github.com/lazypower/topiary/internal/taxonomy"
)

// DetectNewTopics asks the LLM for topics discussed in the meeting that
// the base taxonomy does not cover yet. Every returned candidate has
// been validated and carries a normalized TopicID.
func (e *Engine) DetectNewTopics(ctx context.Context, m *meeting.Meeting, base []taxonomy.Item) ([]taxonomy.Candidate, error) {
	if e.LLM == nil {
		return nil, fmt.Errorf("no llm client configured")
	}

	prompt := llm.DetectTopicsPrompt(m.MeetingTitle, m.MeetingType, taxonomyIDs(base), m.Text())
	resp, err := e.LLM.Complete(ctx, llm.DetectSystem, prompt)
	if err != nil {
		return nil, fmt.Errorf("detect topics: %w", err)
	}
	log.Printf("detect: %s responded with %d tokens", resp.Provider, resp.TokensUsed)

	var out struct {
		NewTopics []taxonomy.Candidate `json:"new_topics"`
	}
	if err := llm.DecodeJSON(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("decode detect response: %w", err)
	}

	for i := range out.NewTopics {
		c := &out.NewTopics[i]
		if err := c.Validate(); err != nil {
			return nil, err
		}
		c.TopicID = c.ID()
	}
	return out.NewTopics, nil
}
