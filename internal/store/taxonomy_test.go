package store

import (
	"testing"

	"github.com/lazypower/topiary/internal/taxonomy"
)

func TestSaveAndLoadTaxonomy(t *testing.T) {
	db := testDB(t)

	items := []taxonomy.Item{
		{ID: "zeta", Score: 0.8},
		{ID: "alpha", Score: 0.5},
		{ID: "mid", Score: 0.3},
	}
	if err := db.SaveTaxonomy(items); err != nil {
		t.Fatalf("SaveTaxonomy: %v", err)
	}

	got, err := db.LoadTaxonomy()
	if err != nil {
		t.Fatalf("LoadTaxonomy: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Order is part of the taxonomy contract: saved order, not sorted
	for i, item := range items {
		if got[i] != item {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], item)
		}
	}
}

func TestSaveTaxonomyReplacesSnapshot(t *testing.T) {
	db := testDB(t)

	if err := db.SaveTaxonomy([]taxonomy.Item{{ID: "old", Score: 0.1}}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveTaxonomy([]taxonomy.Item{{ID: "new", Score: 0.9}}); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadTaxonomy()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("snapshot = %+v, want only the new item", got)
	}
}

func TestLoadTaxonomyEmpty(t *testing.T) {
	db := testDB(t)
	got, err := db.LoadTaxonomy()
	if err != nil {
		t.Fatalf("LoadTaxonomy: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty db taxonomy = %v", got)
	}
}

func TestMentionRecordsRoundTrip(t *testing.T) {
	db := testDB(t)

	records := []MentionRecord{
		{MeetingID: "m-01", ChunkHash: "abc", TopicID: "sso-issues",
			SpeakerRole: "customer", MeetingType: "customer_call",
			Relevance: 0.8, Timestamp: "2025-08-08T00:00:00Z"},
		{MeetingID: "m-01", ChunkHash: "def", TopicID: "onboarding",
			Relevance: 1.0, Timestamp: "2025-08-08T00:00:00Z"},
	}
	if err := db.InsertMentionRecords("run-1", records); err != nil {
		t.Fatalf("InsertMentionRecords: %v", err)
	}

	got, err := db.AllMentionRecords()
	if err != nil {
		t.Fatalf("AllMentionRecords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != records[0] {
		t.Errorf("got[0] = %+v, want %+v", got[0], records[0])
	}

	m := got[0].Mention()
	if m.TopicID != "sso-issues" || m.SpeakerRole != "customer" || m.Relevance != 0.8 {
		t.Errorf("Mention() = %+v", m)
	}
}

func TestInsertMentionRecordsEmpty(t *testing.T) {
	db := testDB(t)
	if err := db.InsertMentionRecords("run-1", nil); err != nil {
		t.Errorf("empty insert should be a no-op, got %v", err)
	}
}

func TestScores(t *testing.T) {
	db := testDB(t)

	if err := db.SaveScores("run-1", map[string]float64{"a": 1.5, "b": 0.7}); err != nil {
		t.Fatalf("SaveScores: %v", err)
	}

	got, err := db.ScoresForRun("run-1")
	if err != nil {
		t.Fatalf("ScoresForRun: %v", err)
	}
	if got["a"] != 1.5 || got["b"] != 0.7 {
		t.Errorf("scores = %v", got)
	}

	latest, err := db.LatestScores()
	if err != nil {
		t.Fatalf("LatestScores: %v", err)
	}
	if len(latest) != 2 {
		t.Errorf("latest = %v", latest)
	}
}

func TestLatestScoresEmpty(t *testing.T) {
	db := testDB(t)
	latest, err := db.LatestScores()
	if err != nil {
		t.Fatalf("LatestScores: %v", err)
	}
	if len(latest) != 0 {
		t.Errorf("latest = %v, want empty", latest)
	}
}

func TestListRuns(t *testing.T) {
	db := testDB(t)

	for _, r := range []struct{ id, kind string }{
		{"r1", "detect"}, {"r2", "tag"}, {"r3", "score"},
	} {
		if err := db.CreateRun(r.id, r.kind); err != nil {
			t.Fatalf("CreateRun %s: %v", r.id, err)
		}
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len = %d, want 3", len(runs))
	}
	if runs[0].RunID != "r3" {
		t.Errorf("newest first: got %q", runs[0].RunID)
	}
}
