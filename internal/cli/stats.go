package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/segment"
)

var (
	statsJSON bool
	statsTerm string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the index",
	Long: `Print the snapshot version, term and document counts, and optionally the
postings of a single term.

Examples:
  brm stats
  brm stats --term cat`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	statsCmd.Flags().StringVar(&statsTerm, "term", "", "show the postings of this normalized term")
}

func runStats(cmd *cobra.Command, args []string) error {
	path := resolvedIndexPath()
	snap, err := segment.Load(path)
	if err != nil {
		return err
	}
	st := snap.Stats()
	out := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Index\t%s\n", path)
	fmt.Fprintf(tw, "Version\t%d\n", st.Version)
	fmt.Fprintf(tw, "Built\t%s\n", st.BuiltAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "Documents\t%d\n", st.Documents)
	fmt.Fprintf(tw, "Terms\t%d\n", st.Terms)
	fmt.Fprintf(tw, "Postings\t%d\n", st.Postings)
	fmt.Fprintf(tw, "Positions\t%d\n", st.Positions)
	if statsTerm != "" {
		p := snap.Occurrences(statsTerm)
		if p == nil {
			fmt.Fprintf(tw, "Term %q\tnot in index\n", statsTerm)
		} else {
			fmt.Fprintf(tw, "Term %q\tdf=%d\n", statsTerm, p.DocFreq)
			for _, occ := range p.Occurrences {
				fmt.Fprintf(tw, "  doc %d\tpositions %v\n", occ.Doc, occ.Positions)
			}
		}
	}
	return tw.Flush()
}
