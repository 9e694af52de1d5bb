// Package cli implements the brm command: build an index from a corpus,
// query it, and inspect it, all without running the services.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/config"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/logger"
)

var (
	cfgFile   string
	indexPath string
	logLevel  string
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "brm",
	Short: "Boolean retrieval model - build and query inverted and positional indexes",
	Long: `brm builds an inverted and a positional index over a document corpus and
answers boolean, single-term and proximity queries against it.

Example usage:
  brm index --corpus Dataset           # Index Dataset/1.txt, Dataset/2.txt, ...
  brm query -q "cat and not dog"       # Boolean query
  brm query -q "cat near/2 dog"        # Proximity query
  brm query -i                         # Interactive prompt
  brm stats                            # Index summary`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		level := cfg.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		logger.SetupWriter(cmd.ErrOrStderr(), level, cfg.Logging.Format)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults plus BRM_* environment when empty)")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index", "", "index path (default from config: <dataDir>/<indexName>.<format>)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")
}

// resolvedIndexPath is the --index flag or the configured path.
func resolvedIndexPath() string {
	if indexPath != "" {
		return indexPath
	}
	return cfg.Indexer.IndexPath()
}
