package taxonomy

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Embedder turns an ordered list of texts into an equal-length list of
// equal-dimension vectors. Implementations must return an empty result for
// empty input without making a network call. The provider owns retries and
// credentials; this package only consumes the vectors.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// MatchDebug reports the best base topic for a candidate regardless of
// threshold, for observability.
type MatchDebug struct {
	BestID string  `json:"best_id"`
	Score  float64 `json:"score"`
}

// Merges suggests merge targets for candidates that closely resemble an
// existing topic. Each side is embedded in one batched call, so provider
// round-trips scale with side count, not with the pairwise comparison
// count. A candidate whose normalized id exactly matches a base id gets a
// suggestion at score 1.0 regardless of cosine results; every other
// candidate is paired with its best cosine match when that clears
// threshold. At most one suggestion per candidate. Ties between base
// topics resolve to the one appearing first in base order. Provider
// failures are returned to the caller unretried; suggestions are
// advisory, so callers may proceed with none.
func Merges(ctx context.Context, emb Embedder, base []Item, gloss map[string]string, cands []Candidate, threshold float64) ([]MergeSuggestion, error) {
	if len(base) == 0 || len(cands) == 0 {
		return nil, nil
	}

	baseIDs, baseVecs, candIDs, candVecs, err := embedSides(ctx, emb, base, gloss, cands)
	if err != nil {
		return nil, err
	}

	var suggestions []MergeSuggestion
	taken := make(map[string]bool, len(candIDs))

	// Exact-id matches win first
	baseSet := make(map[string]bool, len(baseIDs))
	for _, id := range baseIDs {
		baseSet[id] = true
	}
	for _, cid := range candIDs {
		if baseSet[cid] && !taken[cid] {
			suggestions = append(suggestions, MergeSuggestion{Candidate: cid, Target: cid, Score: 1.0})
			taken[cid] = true
		}
	}

	for i, cv := range candVecs {
		if taken[candIDs[i]] {
			continue
		}
		bestID, best := bestMatch(cv, baseIDs, baseVecs)
		if bestID == "" || best < threshold {
			continue
		}
		suggestions = append(suggestions, MergeSuggestion{Candidate: candIDs[i], Target: bestID, Score: best})
		taken[candIDs[i]] = true
	}

	return suggestions, nil
}

// MergeDebug returns the best match and score for every candidate with no
// threshold filtering. Same comparison logic as Merges.
func MergeDebug(ctx context.Context, emb Embedder, base []Item, gloss map[string]string, cands []Candidate) (map[string]MatchDebug, error) {
	if len(base) == 0 || len(cands) == 0 {
		return map[string]MatchDebug{}, nil
	}

	baseIDs, baseVecs, candIDs, candVecs, err := embedSides(ctx, emb, base, gloss, cands)
	if err != nil {
		return nil, err
	}

	out := make(map[string]MatchDebug, len(candIDs))
	for i, cv := range candVecs {
		bestID, best := bestMatch(cv, baseIDs, baseVecs)
		out[candIDs[i]] = MatchDebug{BestID: bestID, Score: best}
	}
	return out, nil
}

// embedSides builds one descriptive text per base topic and per candidate,
// then fetches both embedding batches.
func embedSides(ctx context.Context, emb Embedder, base []Item, gloss map[string]string, cands []Candidate) (baseIDs []string, baseVecs [][]float64, candIDs []string, candVecs [][]float64, err error) {
	baseIDs = make([]string, len(base))
	baseTexts := make([]string, len(base))
	for i, t := range base {
		baseIDs[i] = Normalize(t.ID)
		baseTexts[i] = describeTopic(baseIDs[i], gloss[baseIDs[i]])
	}

	candIDs = make([]string, len(cands))
	candTexts := make([]string, len(cands))
	for i, c := range cands {
		candIDs[i] = c.ID()
		candTexts[i] = describeCandidate(candIDs[i], c)
	}

	baseVecs, err = emb.EmbedBatch(ctx, baseTexts)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("embed base topics: %w", err)
	}
	candVecs, err = emb.EmbedBatch(ctx, candTexts)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("embed candidates: %w", err)
	}
	if len(baseVecs) != len(base) || len(candVecs) != len(cands) {
		return nil, nil, nil, nil, fmt.Errorf("embedder returned %d/%d vectors for %d/%d texts",
			len(baseVecs), len(candVecs), len(base), len(cands))
	}
	return baseIDs, baseVecs, candIDs, candVecs, nil
}

func describeTopic(id, gloss string) string {
	if gloss == "" {
		return id
	}
	return id + " - " + gloss
}

func describeCandidate(id string, c Candidate) string {
	return strings.TrimSpace(fmt.Sprintf("%s - %s | %s", id, c.WhyNew, c.Evidence))
}

// bestMatch scans base vectors for the highest cosine similarity. Strict
// greater-than keeps the first base topic on ties.
func bestMatch(cand []float64, baseIDs []string, baseVecs [][]float64) (string, float64) {
	bestID := ""
	best := -1.0
	for j, bv := range baseVecs {
		if s := Cosine(cand, bv); s > best {
			best = s
			bestID = baseIDs[j]
		}
	}
	return bestID, best
}

// Cosine returns the cosine similarity dot(a,b)/(|a|*|b|). A zero-norm
// side is treated as norm 1 so the result degrades to 0 instead of
// dividing by zero.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}

	var na, nb float64
	for _, v := range a {
		na += v * v
	}
	for _, v := range b {
		nb += v * v
	}

	da := math.Sqrt(na)
	if da == 0 {
		da = 1.0
	}
	db := math.Sqrt(nb)
	if db == 0 {
		db = 1.0
	}
	return dot / (da * db)
}
