package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lazypower/topiary/internal/config"
	"github.com/lazypower/topiary/internal/engine"
	"github.com/lazypower/topiary/internal/store"
	"github.com/lazypower/topiary/internal/taxonomy"
)

func testServer(t *testing.T) (*Server, *store.DB) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	eng := engine.New(db, nil, nil)
	return New(db, eng, config.Default().Scoring, "test-version"), db
}

func get(t *testing.T, srv *Server, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s body: %v", path, err)
	}
	return w.Code, body
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	code, body := get(t, srv, "/api/health")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want %d", code, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "test-version" {
		t.Errorf("version = %v, want test-version", body["version"])
	}
	if body["db"] != true {
		t.Errorf("db = %v, want true", body["db"])
	}
}

func TestTaxonomyEndpoint(t *testing.T) {
	srv, db := testServer(t)

	code, body := get(t, srv, "/api/taxonomy")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["count"] != float64(0) {
		t.Errorf("empty taxonomy count = %v", body["count"])
	}

	if err := db.SaveTaxonomy([]taxonomy.Item{
		{ID: "billing", Score: 0.5},
		{ID: "sso-issues", Score: 0.8},
	}); err != nil {
		t.Fatal(err)
	}

	code, body = get(t, srv, "/api/taxonomy")
	if code != http.StatusOK || body["count"] != float64(2) {
		t.Errorf("status = %d, count = %v", code, body["count"])
	}
	items := body["taxonomy"].([]any)
	if items[0].(map[string]any)["id"] != "billing" {
		t.Errorf("order not preserved: %v", items)
	}
}

func TestScoresEndpoint(t *testing.T) {
	srv, db := testServer(t)

	if err := db.SaveScores("run-1", map[string]float64{"billing": 1.5}); err != nil {
		t.Fatal(err)
	}

	code, body := get(t, srv, "/api/scores")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	scores := body["scores"].(map[string]any)
	if scores["billing"] != 1.5 {
		t.Errorf("scores = %v", scores)
	}

	code, body = get(t, srv, "/api/scores?run_id=run-1")
	if code != http.StatusOK || body["count"] != float64(1) {
		t.Errorf("by run: status = %d, body = %v", code, body)
	}
}

func TestRunsEndpoint(t *testing.T) {
	srv, db := testServer(t)

	if err := db.CreateRun("r1", "detect"); err != nil {
		t.Fatal(err)
	}

	code, body := get(t, srv, "/api/runs")
	if code != http.StatusOK || body["count"] != float64(1) {
		t.Errorf("status = %d, body = %v", code, body)
	}
}

func TestScoreEndpoint(t *testing.T) {
	srv, db := testServer(t)

	if err := db.InsertMentionRecords("run-1", []store.MentionRecord{
		{MeetingID: "m-01", ChunkHash: "abc", TopicID: "billing",
			SpeakerRole: "customer", MeetingType: "customer_call",
			Relevance: 1.0},
	}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/api/score", strings.NewReader(`{"half_life_days": 0}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["run_id"] == "" {
		t.Error("expected a run id")
	}
	scores := body["scores"].(map[string]any)
	// 1.0 relevance * 1.5 customer * 1.3 customer_call, decay disabled
	if got := scores["billing"].(float64); got < 1.95-1e-9 || got > 1.95+1e-9 {
		t.Errorf("billing = %v, want 1.95", got)
	}

	// The run is persisted
	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Kind != "score" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestScoreEndpointNoEngine(t *testing.T) {
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	srv := New(db, nil, config.Default().Scoring, "test-version")

	req := httptest.NewRequest("POST", "/api/score", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
