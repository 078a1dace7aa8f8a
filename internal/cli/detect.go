package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/topiary/internal/artifacts"
	"github.com/lazypower/topiary/internal/engine"
	"github.com/lazypower/topiary/internal/llm"
	"github.com/lazypower/topiary/internal/meeting"
)

var (
	detectTaxonomyPath string
	detectOutRoot      string
)

var detectCmd = &cobra.Command{
	Use:   "detect <meeting.json>",
	Short: "Detect new topics in a meeting transcript",
	Long: "Detect asks the LLM which topics the meeting discussed that the " +
		"taxonomy does not cover yet, and writes them to runs/<run id>/new_topics.json " +
		"for review.",
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectTaxonomyPath, "taxonomy", "", "path to the base taxonomy")
	detectCmd.Flags().StringVar(&detectOutRoot, "out", ".", "root directory for run output")
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := meeting.Load(args[0])
	if err != nil {
		return err
	}
	base, err := resolveTaxonomy(db, detectTaxonomyPath)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm client: %w", err)
	}
	eng := engine.New(db, client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cands, err := eng.DetectNewTopics(ctx, m, base)
	if err != nil {
		return err
	}

	dir, runID, err := artifacts.NewRunDir(detectOutRoot)
	if err != nil {
		return err
	}
	if err := artifacts.WriteJSON(dir, "new_topics.json", map[string]any{
		"meeting_id": m.MeetingID,
		"new_topics": cands,
	}); err != nil {
		return err
	}
	if err := db.CreateRun(runID, "detect"); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "detected %d new topic(s) for %s\n", len(cands), m.MeetingID)
	fmt.Println(dir)
	return nil
}
