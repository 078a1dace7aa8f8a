package engine

import (
	"context"
	"log"

	"github.com/lazypower/topiary/internal/taxonomy"
)

// ReconcileOptions tunes one reconcile run.
type ReconcileOptions struct {
	Aliases      map[string]string // candidate id -> existing id, applied before merging
	Gloss        map[string]string // base id -> descriptive gloss for embedding
	Threshold    float64           // cosine cutoff for merge suggestions; <= 0 disables them
	DefaultScore float64           // score assigned to newly added topics
	Debug        bool              // also report best match per candidate regardless of threshold
}

// ReconcileResult is everything one reconcile run produced.
type ReconcileResult struct {
	Updated     []taxonomy.Item
	Added       []string
	Suggestions []taxonomy.MergeSuggestion
	Debug       map[string]taxonomy.MatchDebug
}

// Reconcile folds candidates into the base taxonomy. Aliased candidates
// are redirected first, then merge suggestions are gathered, then the
// remainder merges in. Suggestions are advisory: if the embedding
// provider fails the update still happens, just without them.
func (e *Engine) Reconcile(ctx context.Context, base []taxonomy.Item, cands []taxonomy.Candidate, opts ReconcileOptions) ReconcileResult {
	var res ReconcileResult

	kept := taxonomy.FilterAliased(cands, opts.Aliases)

	if e.Embedder != nil && opts.Threshold > 0 {
		sugg, err := taxonomy.Merges(ctx, e.Embedder, base, opts.Gloss, kept, opts.Threshold)
		if err != nil {
			log.Printf("reconcile: merge suggestions unavailable: %v", err)
		} else {
			res.Suggestions = sugg
		}
		if opts.Debug {
			dbg, err := taxonomy.MergeDebug(ctx, e.Embedder, base, opts.Gloss, kept)
			if err != nil {
				log.Printf("reconcile: merge debug unavailable: %v", err)
			} else {
				res.Debug = dbg
			}
		}
	}

	res.Updated, res.Added = taxonomy.Update(base, kept, opts.DefaultScore)
	return res
}
