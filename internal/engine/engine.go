// Package engine orchestrates the topic pipeline: LLM-driven detection
// and tagging, taxonomy reconciliation, and mention scoring. Each step
// takes its inputs explicitly so the CLI and server can compose runs
// from files, the store, or both.
package engine

import (
	"github.com/lazypower/topiary/internal/config"
	"github.com/lazypower/topiary/internal/llm"
	"github.com/lazypower/topiary/internal/store"
	"github.com/lazypower/topiary/internal/taxonomy"
)

// Engine ties together the pipeline's collaborators. Any field may be
// nil; steps that need a missing collaborator return an error (LLM) or
// degrade gracefully (Embedder).
type Engine struct {
	DB       *store.DB
	LLM      llm.Client
	Embedder taxonomy.Embedder
}

// New creates an engine around the given collaborators.
func New(db *store.DB, client llm.Client, emb taxonomy.Embedder) *Engine {
	return &Engine{DB: db, LLM: client, Embedder: emb}
}

// ScoreStored recomputes topic scores from every mention record in the
// store.
func (e *Engine) ScoreStored(opts taxonomy.ScoreOptions) (map[string]float64, error) {
	records, err := e.DB.AllMentionRecords()
	if err != nil {
		return nil, err
	}
	mentions := make([]taxonomy.Mention, len(records))
	for i, r := range records {
		mentions[i] = r.Mention()
	}
	return taxonomy.ScoreMentions(mentions, opts), nil
}

// ScoreOptionsFrom maps scoring config onto scorer options. Now is left
// zero so the scorer picks the wall clock.
func ScoreOptionsFrom(cfg config.ScoringConfig) taxonomy.ScoreOptions {
	return taxonomy.ScoreOptions{
		SpeakerWeights:     cfg.SpeakerWeights,
		MeetingTypeWeights: cfg.MeetingTypeWeights,
		HalfLifeDays:       cfg.HalfLifeDays,
	}
}

func taxonomyIDs(base []taxonomy.Item) []string {
	ids := make([]string, len(base))
	for i, item := range base {
		ids[i] = item.ID
	}
	return ids
}
