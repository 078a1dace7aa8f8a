package taxonomy

// Update merges accepted candidates into a base taxonomy. Ids are
// re-normalized defensively since upstream producers are untrusted. New
// topics are appended with defaultScore; candidates whose id already
// exists (in base or earlier in the batch) are skipped, first occurrence
// wins. The returned slice preserves base order followed by additions in
// candidate order; consumers render positionally, so the ordering is part
// of the contract. Inputs are never mutated.
func Update(base []Item, cands []Candidate, defaultScore float64) (updated []Item, added []string) {
	seen := make(map[string]bool, len(base)+len(cands))
	updated = make([]Item, 0, len(base)+len(cands))

	for _, t := range base {
		id := Normalize(t.ID)
		if seen[id] {
			continue
		}
		seen[id] = true
		updated = append(updated, Item{ID: id, Score: t.Score})
	}

	for _, c := range cands {
		id := c.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		updated = append(updated, Item{ID: id, Score: defaultScore})
		added = append(added, id)
	}

	return updated, added
}

// FilterAliased drops candidates whose normalized id appears as a "from"
// key in the explicit alias map, modeling "merge into existing topic" as a
// no-op on the taxonomy. The alias wins even over a separately approved
// candidate: an alias is a human statement that the topic already exists
// under another name, while approval only says the topic is real. Callers
// apply this before Update; the alias itself is recorded elsewhere.
func FilterAliased(cands []Candidate, aliases map[string]string) []Candidate {
	if len(aliases) == 0 {
		return cands
	}

	aliased := make(map[string]bool, len(aliases))
	for from := range aliases {
		aliased[Normalize(from)] = true
	}

	kept := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if aliased[c.ID()] {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
