// Package cli implements the topiary command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazypower/topiary/internal/artifacts"
	"github.com/lazypower/topiary/internal/config"
	"github.com/lazypower/topiary/internal/store"
	"github.com/lazypower/topiary/internal/taxonomy"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "topiary",
	Short: "Topic taxonomy maintenance for meeting transcripts",
	Long: "Topiary grows and prunes a topic taxonomy from meeting transcripts: " +
		"detect new topics, tag mentions, reconcile candidates into the taxonomy, " +
		"and score topics by weighted recency.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(scoreCmd)
}

func loadConfig() (config.Config, error) {
	return config.Load(cfgFile)
}

func openDB(cfg config.Config) (*store.DB, error) {
	path := cfg.Database.Path
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// resolveTaxonomy loads the base taxonomy: an explicit path wins, then
// the database snapshot, then a taxonomy.json in the working directory.
// Starting from nothing is fine.
func resolveTaxonomy(db *store.DB, path string) ([]taxonomy.Item, error) {
	if path != "" {
		return artifacts.ReadTaxonomy(path)
	}
	items, err := db.LoadTaxonomy()
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}
	items, _, err = artifacts.FirstTaxonomy("taxonomy.json")
	return items, err
}
