package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/topiary/internal/artifacts"
	"github.com/lazypower/topiary/internal/config"
	"github.com/lazypower/topiary/internal/engine"
	"github.com/lazypower/topiary/internal/taxonomy"
)

var (
	reconcileTaxonomyPath string
	reconcileMergesPath   string
	reconcileGlossPath    string
	reconcileThreshold    float64
	reconcileDebug        bool
	reconcileOutRoot      string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <new_topics.json>",
	Short: "Fold detected topic candidates into the taxonomy",
	Long: "Reconcile merges detected candidates into the base taxonomy. Aliases " +
		"from a merges file redirect candidates to existing topics; the rest are " +
		"appended, with advisory merge suggestions for near-duplicates. An " +
		"approved_new_topics.json next to the input takes precedence over it.",
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileTaxonomyPath, "taxonomy", "", "path to the base taxonomy")
	reconcileCmd.Flags().StringVar(&reconcileMergesPath, "merges", "", "path to a merges file of candidate aliases")
	reconcileCmd.Flags().StringVar(&reconcileGlossPath, "gloss", "", "path to a topic gloss file for embeddings")
	reconcileCmd.Flags().Float64Var(&reconcileThreshold, "threshold", 0, "cosine threshold for merge suggestions (0 uses config)")
	reconcileCmd.Flags().BoolVar(&reconcileDebug, "debug", false, "report best match per candidate regardless of threshold")
	reconcileCmd.Flags().StringVar(&reconcileOutRoot, "out", ".", "root directory for run output")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	base, err := resolveTaxonomy(db, reconcileTaxonomyPath)
	if err != nil {
		return err
	}
	cands, usedPath, err := artifacts.ReadCandidates(args[0])
	if err != nil {
		return err
	}
	if usedPath != args[0] {
		fmt.Fprintf(os.Stderr, "using approved candidates from %s\n", usedPath)
	}

	aliases, err := artifacts.ReadAliases(reconcileMergesPath)
	if err != nil {
		return err
	}
	gloss, err := artifacts.ReadGloss(reconcileGlossPath)
	if err != nil {
		return err
	}

	threshold := reconcileThreshold
	if threshold <= 0 {
		threshold = cfg.Merge.Threshold
	}

	eng := engine.New(db, nil, pickEmbedder(cfg, base, gloss, cands))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res := eng.Reconcile(ctx, base, cands, engine.ReconcileOptions{
		Aliases:      aliases,
		Gloss:        gloss,
		Threshold:    threshold,
		DefaultScore: cfg.Scoring.DefaultScore,
		Debug:        reconcileDebug,
	})

	dir, runID, err := artifacts.NewRunDir(reconcileOutRoot)
	if err != nil {
		return err
	}
	if err := artifacts.WriteJSON(dir, "taxonomy_updated.json", map[string]any{
		"taxonomy_json_updated": res.Updated,
		"added":                 res.Added,
	}); err != nil {
		return err
	}
	if err := artifacts.WriteJSON(dir, "effective_taxonomy.json", res.Updated); err != nil {
		return err
	}
	if err := artifacts.WriteJSON(dir, "added_topic_ids.json", res.Added); err != nil {
		return err
	}
	if err := artifacts.WriteJSON(dir, "merge_suggestions.json", map[string]any{
		"merge_suggestions": res.Suggestions,
	}); err != nil {
		return err
	}
	if reconcileDebug {
		if err := artifacts.WriteJSON(dir, "merge_debug.json", res.Debug); err != nil {
			return err
		}
	}
	if err := db.CreateRun(runID, "reconcile"); err != nil {
		return err
	}
	if err := db.SaveTaxonomy(res.Updated); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "taxonomy now has %d topic(s): %d added, %d merge suggestion(s)\n",
		len(res.Updated), len(res.Added), len(res.Suggestions))
	fmt.Println(dir)
	return nil
}

// pickEmbedder probes Ollama for the configured embedding model and falls
// back to a TF-IDF embedder fitted on the topics at hand.
func pickEmbedder(cfg config.Config, base []taxonomy.Item, gloss map[string]string, cands []taxonomy.Candidate) taxonomy.Embedder {
	ollamaURL := cfg.LLM.OllamaURL
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	model := cfg.LLM.EmbeddingModel
	if model == "" {
		model = "nomic-embed-text"
	}

	if engine.ProbeOllama(ollamaURL, model) {
		fmt.Fprintf(os.Stderr, "embedder: ollama (%s)\n", model)
		return engine.NewOllamaEmbedder(ollamaURL, model)
	}

	corpus := make([]string, 0, len(base)+len(cands))
	for _, item := range base {
		corpus = append(corpus, item.ID+" "+gloss[item.ID])
	}
	for _, c := range cands {
		corpus = append(corpus, c.Label+" "+c.WhyNew+" "+c.Evidence)
	}
	fmt.Fprintln(os.Stderr, "embedder: tfidf (fallback)")
	return engine.NewTFIDFEmbedder(corpus, 512)
}
