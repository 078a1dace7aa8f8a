// Package artifacts reads and writes the JSON files a pipeline run
// leaves behind. Run output lives under runs/<run id>/ so humans can
// inspect, edit, and approve intermediate results between steps.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lazypower/topiary/internal/taxonomy"
)

// NewRunID returns a fresh run identifier, a dashless UUID.
func NewRunID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewRunDir creates runs/<run id>/ under root and returns its path along
// with the generated run id.
func NewRunDir(root string) (dir, runID string, err error) {
	runID = NewRunID()
	dir = filepath.Join(root, "runs", runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create run dir: %w", err)
	}
	return dir, runID, nil
}

// WriteJSON writes v as indented JSON to dir/name.
func WriteJSON(dir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ReadTaxonomy loads a taxonomy file. Two shapes are accepted: a bare
// item list, or a reconcile artifact whose updated taxonomy sits under
// "taxonomy_json_updated".
func ReadTaxonomy(path string) ([]taxonomy.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}

	var items []taxonomy.Item
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Updated []taxonomy.Item `json:"taxonomy_json_updated"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Updated != nil {
		return wrapped.Updated, nil
	}
	return nil, fmt.Errorf("decode taxonomy %s: not an item list or reconcile artifact", path)
}

// FirstTaxonomy loads the taxonomy from the first path that exists,
// checked in argument order. Empty path entries are skipped. When no
// path exists the taxonomy starts empty, which is not an error. A path
// that exists but fails to decode is.
func FirstTaxonomy(paths ...string) ([]taxonomy.Item, string, error) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		items, err := ReadTaxonomy(p)
		if err != nil {
			return nil, "", err
		}
		return items, p, nil
	}
	return nil, "", nil
}

// ReadCandidates loads detected topic candidates. When an
// approved_new_topics.json sibling exists it takes precedence, so a
// human-curated subset survives re-runs. Returns the path actually read.
func ReadCandidates(path string) ([]taxonomy.Candidate, string, error) {
	approved := filepath.Join(filepath.Dir(path), "approved_new_topics.json")
	if _, err := os.Stat(approved); err == nil {
		cands, err := readCandidateFile(approved)
		return cands, approved, err
	}
	cands, err := readCandidateFile(path)
	return cands, path, err
}

func readCandidateFile(path string) ([]taxonomy.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}

	var wrapped struct {
		NewTopics []taxonomy.Candidate `json:"new_topics"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.NewTopics != nil {
		return wrapped.NewTopics, nil
	}

	var list []taxonomy.Candidate
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	return nil, fmt.Errorf("decode candidates %s: not a detect artifact or candidate list", path)
}

// ReadAliases loads a merges file mapping candidate ids to the existing
// topics they should fold into. A missing file means no aliases.
func ReadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}

	var doc struct {
		Merges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"merges"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode aliases %s: %w", path, err)
	}

	aliases := make(map[string]string, len(doc.Merges))
	for _, m := range doc.Merges {
		if m.From != "" && m.To != "" {
			aliases[m.From] = m.To
		}
	}
	return aliases, nil
}

// ReadGloss loads an optional topic id to gloss map used to enrich base
// topics before embedding. A missing file means no glosses.
func ReadGloss(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read gloss: %w", err)
	}
	var gloss map[string]string
	if err := json.Unmarshal(data, &gloss); err != nil {
		return nil, fmt.Errorf("decode gloss %s: %w", path, err)
	}
	return gloss, nil
}
