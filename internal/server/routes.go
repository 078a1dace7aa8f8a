package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lazypower/topiary/internal/artifacts"
	"github.com/lazypower/topiary/internal/engine"
	"github.com/lazypower/topiary/internal/taxonomy"
)

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.LoadTaxonomy()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []taxonomy.Item{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":    len(items),
		"taxonomy": items,
	})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	var scores map[string]float64
	var err error

	if runID := r.URL.Query().Get("run_id"); runID != "" {
		scores, err = s.db.ScoresForRun(runID)
	} else {
		scores, err = s.db.LatestScores()
	}
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":  len(scores),
		"scores": scores,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.db.ListRuns(limit)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count": len(runs),
		"runs":  runs,
	})
}

// handleScore recomputes topic scores from every stored mention record
// and persists the result as a new scoring run.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "engine not configured"})
		return
	}

	// Optional override of the configured half-life
	scoring := s.scoring
	if r.Body != nil {
		var req struct {
			HalfLifeDays *float64 `json:"half_life_days"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.HalfLifeDays != nil {
			scoring.HalfLifeDays = *req.HalfLifeDays
		}
	}

	scores, err := s.engine.ScoreStored(engine.ScoreOptionsFrom(scoring))
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	runID := artifacts.NewRunID()
	if err := s.db.CreateRun(runID, "score"); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if err := s.db.SaveScores(runID, scores); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"run_id": runID,
		"count":  len(scores),
		"scores": scores,
	})
}
