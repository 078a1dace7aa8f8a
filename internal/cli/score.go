package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lazypower/topiary/internal/artifacts"
	"github.com/lazypower/topiary/internal/engine"
)

var (
	scoreHalfLife float64
	scoreOutRoot  string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score topics from stored mention records",
	Long: "Score recomputes topic scores from every stored mention record, " +
		"weighting by relevance, speaker role, meeting type and recency, and " +
		"writes runs/<run id>/scores.json.",
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().Float64Var(&scoreHalfLife, "half-life", -1, "decay half-life in days (0 disables decay, -1 uses config)")
	scoreCmd.Flags().StringVar(&scoreOutRoot, "out", ".", "root directory for run output")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	scoring := cfg.Scoring
	if scoreHalfLife >= 0 {
		scoring.HalfLifeDays = scoreHalfLife
	}

	eng := engine.New(db, nil, nil)
	scores, err := eng.ScoreStored(engine.ScoreOptionsFrom(scoring))
	if err != nil {
		return err
	}

	dir, runID, err := artifacts.NewRunDir(scoreOutRoot)
	if err != nil {
		return err
	}
	if err := artifacts.WriteJSON(dir, "topic_scores.json", map[string]any{
		"scores": scores,
	}); err != nil {
		return err
	}
	if err := db.CreateRun(runID, "score"); err != nil {
		return err
	}
	if err := db.SaveScores(runID, scores); err != nil {
		return err
	}

	type entry struct {
		id    string
		score float64
	}
	ranked := make([]entry, 0, len(scores))
	for id, s := range scores {
		ranked = append(ranked, entry{id, s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	fmt.Fprintf(os.Stderr, "scored %d topic(s)\n", len(ranked))
	for _, e := range ranked {
		fmt.Printf("%8.3f  %s\n", e.score, e.id)
	}
	return nil
}
