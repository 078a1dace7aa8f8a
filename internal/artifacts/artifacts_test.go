package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lazypower/topiary/internal/taxonomy"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewRunDir(t *testing.T) {
	root := t.TempDir()
	dir, runID, err := NewRunDir(root)
	if err != nil {
		t.Fatalf("NewRunDir: %v", err)
	}
	if runID == "" || strings.Contains(runID, "-") {
		t.Errorf("runID = %q, want dashless", runID)
	}
	if dir != filepath.Join(root, "runs", runID) {
		t.Errorf("dir = %q", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("run dir not created: %v", err)
	}
}

func TestWriteJSONAndReadTaxonomy(t *testing.T) {
	dir := t.TempDir()
	items := []taxonomy.Item{{ID: "billing", Score: 0.5}, {ID: "sso-issues", Score: 0.8}}
	if err := WriteJSON(dir, "taxonomy.json", items); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got, err := ReadTaxonomy(filepath.Join(dir, "taxonomy.json"))
	if err != nil {
		t.Fatalf("ReadTaxonomy: %v", err)
	}
	if len(got) != 2 || got[0].ID != "billing" || got[1].Score != 0.8 {
		t.Errorf("got %+v", got)
	}
}

func TestReadTaxonomyReconcileArtifact(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "reconcile.json",
		`{"taxonomy_json_updated": [{"id": "billing", "score": 0.5}], "added": ["billing"]}`)

	got, err := ReadTaxonomy(path)
	if err != nil {
		t.Fatalf("ReadTaxonomy: %v", err)
	}
	if len(got) != 1 || got[0].ID != "billing" {
		t.Errorf("got %+v", got)
	}
}

func TestReadTaxonomyBadShape(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{"something": "else"}`)
	if _, err := ReadTaxonomy(path); err == nil {
		t.Error("expected error for unrecognized shape")
	}
}

func TestFirstTaxonomyPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "second.json", `[{"id": "second", "score": 1}]`)
	first := writeFile(t, dir, "first.json", `[{"id": "first", "score": 1}]`)

	items, used, err := FirstTaxonomy(
		filepath.Join(dir, "missing.json"),
		"",
		first,
		filepath.Join(dir, "second.json"),
	)
	if err != nil {
		t.Fatalf("FirstTaxonomy: %v", err)
	}
	if used != first || len(items) != 1 || items[0].ID != "first" {
		t.Errorf("used %q, items %+v", used, items)
	}
}

func TestFirstTaxonomyNothingFound(t *testing.T) {
	items, used, err := FirstTaxonomy(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("FirstTaxonomy: %v", err)
	}
	if items != nil || used != "" {
		t.Errorf("got (%v, %q), want empty start", items, used)
	}
}

func TestReadCandidatesShapes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "new_topics.json",
		`{"new_topics": [{"label": "SSO Issues", "evidence": "q", "why_new": "x"}]}`)

	cands, used, err := ReadCandidates(path)
	if err != nil {
		t.Fatalf("ReadCandidates: %v", err)
	}
	if used != path || len(cands) != 1 || cands[0].Label != "SSO Issues" {
		t.Errorf("used %q, cands %+v", used, cands)
	}

	dir2 := t.TempDir()
	bare := writeFile(t, dir2, "cands.json",
		`[{"label": "Data Export", "evidence": "q", "why_new": "x"}]`)
	cands, _, err = ReadCandidates(bare)
	if err != nil {
		t.Fatalf("bare list: %v", err)
	}
	if len(cands) != 1 || cands[0].Label != "Data Export" {
		t.Errorf("cands %+v", cands)
	}
}

func TestReadCandidatesPrefersApproved(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "new_topics.json",
		`{"new_topics": [{"label": "Raw", "evidence": "q", "why_new": "x"}]}`)
	approved := writeFile(t, dir, "approved_new_topics.json",
		`{"new_topics": [{"label": "Approved", "evidence": "q", "why_new": "x"}]}`)

	cands, used, err := ReadCandidates(path)
	if err != nil {
		t.Fatalf("ReadCandidates: %v", err)
	}
	if used != approved || len(cands) != 1 || cands[0].Label != "Approved" {
		t.Errorf("used %q, cands %+v", used, cands)
	}
}

func TestReadAliases(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "merges.json",
		`{"merges": [{"from": "sso-problems", "to": "sso-issues"}, {"from": "", "to": "x"}]}`)

	aliases, err := ReadAliases(path)
	if err != nil {
		t.Fatalf("ReadAliases: %v", err)
	}
	if len(aliases) != 1 || aliases["sso-problems"] != "sso-issues" {
		t.Errorf("aliases = %v", aliases)
	}
}

func TestReadAliasesMissingFile(t *testing.T) {
	aliases, err := ReadAliases(filepath.Join(t.TempDir(), "merges.json"))
	if err != nil || aliases != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", aliases, err)
	}
}

func TestReadGloss(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gloss.json", `{"billing": "invoices and payments"}`)
	gloss, err := ReadGloss(path)
	if err != nil {
		t.Fatalf("ReadGloss: %v", err)
	}
	if gloss["billing"] != "invoices and payments" {
		t.Errorf("gloss = %v", gloss)
	}

	gloss, err = ReadGloss(filepath.Join(dir, "missing.json"))
	if err != nil || gloss != nil {
		t.Errorf("missing gloss: (%v, %v)", gloss, err)
	}
}
