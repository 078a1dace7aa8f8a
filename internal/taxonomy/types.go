// Package taxonomy implements the topic taxonomy core: identifier
// normalization, similarity-based merge suggestion, taxonomy
// reconciliation, and mention scoring. Everything here is a pure function
// over in-memory data; I/O, providers, and persistence live with the
// callers.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCandidate reports a candidate that fails boundary validation.
// Distinct from provider/network failures: a structurally invalid candidate
// is a contract violation by the extraction step and is never coerced.
var ErrInvalidCandidate = errors.New("invalid topic candidate")

// Item is a topic known to the taxonomy. Identity is ID. Score is set when
// the item is created and only ever replaced wholesale by reconciliation
// output; scoring runs produce a separate score table instead of mutating
// items in place.
type Item struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Candidate is a topic proposed by the extraction step, pending an
// approve/reject/merge decision made outside the core.
type Candidate struct {
	Label    string `json:"label"`
	Evidence string `json:"evidence"`
	WhyNew   string `json:"why_new"`
	TopicID  string `json:"topic_id,omitempty"`
}

// ID returns the candidate's normalized identifier, preferring an explicit
// topic id over one derived from the label.
func (c Candidate) ID() string {
	if c.TopicID != "" {
		return Normalize(c.TopicID)
	}
	return Normalize(c.Label)
}

// Validate checks the fields the extraction contract requires. Extra
// fields are tolerated upstream by the JSON decoder; missing required
// fields are not.
func (c Candidate) Validate() error {
	if strings.TrimSpace(c.Label) == "" {
		return fmt.Errorf("%w: missing label", ErrInvalidCandidate)
	}
	if strings.TrimSpace(c.Evidence) == "" {
		return fmt.Errorf("%w: %q missing evidence", ErrInvalidCandidate, c.Label)
	}
	if strings.TrimSpace(c.WhyNew) == "" {
		return fmt.Errorf("%w: %q missing why_new", ErrInvalidCandidate, c.Label)
	}
	return nil
}

// Mention is a single raw topic mention, produced per pipeline run and
// consumed once by ScoreMentions. Zero Relevance means "not stated" and
// scores as 1.0.
type Mention struct {
	TopicID     string  `json:"topic_id,omitempty"`
	TopicLabel  string  `json:"topic_label,omitempty"`
	SpeakerRole string  `json:"speaker_role,omitempty"`
	MeetingType string  `json:"meeting_type,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
	Relevance   float64 `json:"relevance,omitempty"`
}

// MergeSuggestion pairs a candidate with the existing topic it most
// resembles. Advisory only: suggestions are never applied automatically.
// Removing a candidate requires an explicit alias entry (see FilterAliased).
type MergeSuggestion struct {
	Candidate string  `json:"candidate"`
	Target    string  `json:"target"`
	Score     float64 `json:"score"`
}
