package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/segment"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/executor"
	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
)

var (
	queryText        string
	queryJSON        bool
	queryInteractive bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the index",
	Long: `Run a query against the persisted index.

Query forms:
  cat                         documents containing cat
  cat and (dog or not bird)   boolean expression (and, or, not, parentheses)
  cat dog                     cat within 1 position of dog
  cat near/3 dog              cat within 3 positions of dog
  cat dog /3                  same as near/3

Examples:
  brm query -q "cat and dog"
  brm query -q "cat near/2 dog" --json
  brm query -i`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().BoolVarP(&queryInteractive, "interactive", "i", false, "read queries from stdin until EOF or :q")
}

func runQuery(cmd *cobra.Command, args []string) error {
	if !queryInteractive && !cmd.Flags().Changed("query") {
		return errors.New("either --query or --interactive is required")
	}
	exec, err := openExecutor()
	if err != nil {
		return err
	}
	if queryInteractive {
		return interactive(cmd, exec)
	}
	return runOne(cmd, exec, queryText)
}

func openExecutor() (*executor.Executor, error) {
	path := resolvedIndexPath()
	if !segment.Exists(path) {
		return nil, fmt.Errorf("no index found at %s. Run 'brm index' first", path)
	}
	snap, err := segment.Load(path)
	if err != nil {
		return nil, err
	}
	exec := executor.New(cfg.Search)
	exec.Install(snap)
	return exec, nil
}

func runOne(cmd *cobra.Command, exec *executor.Executor, query string) error {
	res, err := exec.Execute(cmd.Context(), query)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if queryJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(out, res)
	return nil
}

func printResult(out io.Writer, res *executor.SearchResult) {
	if res.TotalHits == 0 {
		fmt.Fprintf(out, "No results found (%s, %.3f ms)\n", res.Kind, res.ElapsedMs)
		return
	}
	fmt.Fprintf(out, "Documents: %s\n", joinDocs(res.Documents))
	fmt.Fprintf(out, "%d result(s) (%s, %.3f ms)\n", res.TotalHits, res.Kind, res.ElapsedMs)
}

func joinDocs(docs []index.DocID) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, ", ")
}

// interactive answers one query per input line. Query errors are printed
// and the loop continues; only I/O errors end it.
func interactive(cmd *cobra.Command, exec *executor.Executor) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprintln(out, "Enter a query, or :q to quit.")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == ":q" || line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}
		if err := runOne(cmd, exec, line); err != nil {
			if !apperrors.IsClientError(err) {
				return err
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}
