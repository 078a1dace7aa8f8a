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
	tagTaxonomyPath string
	tagOutRoot      string
)

var tagCmd = &cobra.Command{
	Use:   "tag <meeting.json>",
	Short: "Tag taxonomy topic mentions in a meeting transcript",
	Long: "Tag asks the LLM which known topics each transcript chunk mentions, " +
		"stores the mention records for scoring, and writes runs/<run id>/mentions.json.",
	Args: cobra.ExactArgs(1),
	RunE: runTag,
}

func init() {
	tagCmd.Flags().StringVar(&tagTaxonomyPath, "taxonomy", "", "path to the base taxonomy")
	tagCmd.Flags().StringVar(&tagOutRoot, "out", ".", "root directory for run output")
}

func runTag(cmd *cobra.Command, args []string) error {
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
	base, err := resolveTaxonomy(db, tagTaxonomyPath)
	if err != nil {
		return err
	}
	if len(base) == 0 {
		return fmt.Errorf("taxonomy is empty; run detect and reconcile first")
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm client: %w", err)
	}
	eng := engine.New(db, client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	chunks := m.Chunks()
	tagged, err := eng.TagMentions(ctx, base, chunks)
	if err != nil {
		return err
	}
	records := engine.MentionRecords(m, chunks, tagged, time.Now())

	dir, runID, err := artifacts.NewRunDir(tagOutRoot)
	if err != nil {
		return err
	}
	if err := artifacts.WriteJSON(dir, "chunks.json", chunks); err != nil {
		return err
	}
	if err := artifacts.WriteJSON(dir, "mentions.json", map[string]any{
		"meeting_id": m.MeetingID,
		"mentions":   tagged,
	}); err != nil {
		return err
	}
	if err := artifacts.WriteJSON(dir, "mention_records.json", records); err != nil {
		return err
	}
	if err := db.CreateRun(runID, "tag"); err != nil {
		return err
	}
	if err := db.InsertMentionRecords(runID, records); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "tagged %d mention(s) across %d chunk(s) for %s\n",
		len(records), len(chunks), m.MeetingID)
	fmt.Println(dir)
	return nil
}
