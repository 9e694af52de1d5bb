package cli

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/feed"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/segment"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/kafka"
)

var (
	indexCorpus  string
	indexPattern string
	indexShards  int
	indexPublish bool
	indexQuiet   bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the inverted and positional indexes",
	Long: `Read the corpus, normalize every document and write both indexes.
The output format follows the index path extension: .json, .yaml or .db.

Examples:
  brm index --corpus Dataset
  brm index --corpus Dataset --index data/index.db --shards 8`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexCorpus, "corpus", "", "corpus directory (default from config)")
	indexCmd.Flags().StringVar(&indexPattern, "pattern", "", "corpus file pattern, doublestar syntax (default from config)")
	indexCmd.Flags().IntVar(&indexShards, "shards", 0, "parallel build shards (default from config)")
	indexCmd.Flags().BoolVar(&indexPublish, "publish", false, "announce the new index on Kafka")
	indexCmd.Flags().BoolVar(&indexQuiet, "quiet", false, "hide the progress bar")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if indexCorpus != "" {
		cfg.Indexer.Source = "dir"
		cfg.Indexer.CorpusDir = indexCorpus
	}
	if indexPattern != "" {
		cfg.Indexer.CorpusPattern = indexPattern
	}
	if indexShards > 0 {
		cfg.Indexer.NumShards = indexShards
	}
	if indexPath != "" {
		ext := filepath.Ext(indexPath)
		if segment.FormatOf(indexPath) == segment.FormatUnknown {
			return fmt.Errorf("unsupported index extension %q (want .json, .yaml or .db)", ext)
		}
		cfg.Indexer.DataDir = filepath.Dir(indexPath)
		cfg.Indexer.IndexName = strings.TrimSuffix(filepath.Base(indexPath), ext)
		cfg.Indexer.Format = segment.FormatOf(indexPath).String()
	}
	icfg := cfg.Indexer
	src, closeSrc, err := feed.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	opts := []indexer.Option{}
	if !indexQuiet {
		opts = append(opts, indexer.WithProgress(func(total int) func() {
			bar := progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("Normalizing"),
				progressbar.OptionClearOnFinish(),
			)
			return func() { bar.Add(1) }
		}))
	}
	if indexPublish {
		if !cfg.Kafka.Enabled {
			return fmt.Errorf("--publish requires kafka.enabled in the config")
		}
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete)
		defer producer.Close()
		opts = append(opts, indexer.WithPublisher(producer))
	}

	report, err := indexer.NewEngine(src, icfg, opts...).Run(ctx)
	if err != nil {
		return err
	}
	return printReport(cmd, report)
}

func printReport(cmd *cobra.Command, report *indexer.BuildReport) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Indexed %d documents, %d terms in %s\n",
		report.Documents, report.Terms, report.Duration.Round(1e6))
	for _, f := range segment.Files(report.Path) {
		fmt.Fprintf(out, "  wrote %s\n", f)
	}
	if report.Published {
		fmt.Fprintf(out, "  announced version %d\n", report.Version)
	}
	return nil
}
