package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes brm with args after restoring every flag to its default, since
// the command tree is shared between tests.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	reset := func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd)
	for _, c := range rootCmd.Commands() {
		reset(c)
	}
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	docs := map[string]string{
		"1.txt": "The cat sat on the mat.",
		"2.txt": "A dog sat by the door.",
		"3.txt": "Cat; dog - friends",
	}
	for name, body := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	return dir
}

func TestIndexQueryStats(t *testing.T) {
	corpus := writeCorpus(t)
	for _, ext := range []string{"json", "yaml", "db"} {
		t.Run(ext, func(t *testing.T) {
			idx := filepath.Join(t.TempDir(), "index."+ext)

			out, err := run(t, "", "index", "--corpus", corpus, "--index", idx, "--quiet", "--shards", "2")
			require.NoError(t, err)
			assert.Contains(t, out, "Indexed 3 documents")

			out, err = run(t, "", "query", "--index", idx, "-q", "cat and dog")
			require.NoError(t, err)
			assert.Contains(t, out, "Documents: 3\n")

			out, err = run(t, "", "query", "--index", idx, "-q", "not cat")
			require.NoError(t, err)
			assert.Contains(t, out, "Documents: 2\n")

			out, err = run(t, "", "query", "--index", idx, "-q", "unicorn")
			require.NoError(t, err)
			assert.Contains(t, out, "No results found")

			out, err = run(t, "", "stats", "--index", idx, "--term", "cat")
			require.NoError(t, err)
			assert.Contains(t, out, "Documents")
			assert.Contains(t, out, "df=2")
		})
	}
}

func TestQueryJSON(t *testing.T) {
	idx := filepath.Join(t.TempDir(), "index.json")
	_, err := run(t, "", "index", "--corpus", writeCorpus(t), "--index", idx, "--quiet")
	require.NoError(t, err)

	out, err := run(t, "", "query", "--index", idx, "-q", "cat dog", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "proximity"`)
	assert.Contains(t, out, `"documents": [`)
}

func TestQueryInteractive(t *testing.T) {
	idx := filepath.Join(t.TempDir(), "index.db")
	_, err := run(t, "", "index", "--corpus", writeCorpus(t), "--index", idx, "--quiet")
	require.NoError(t, err)

	out, err := run(t, "cat or dog\n(cat\n\nsat\n:q\nnot cat\n", "query", "--index", idx, "-i")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents: 1, 2, 3")
	assert.Contains(t, out, "error: parse error")
	assert.Contains(t, out, "Documents: 1, 2\n")
	assert.NotContains(t, out, "Documents: 2\n", "input after :q must be ignored")
}

func TestQueryErrors(t *testing.T) {
	_, err := run(t, "", "query", "--index", filepath.Join(t.TempDir(), "missing.json"), "-q", "cat")
	assert.ErrorContains(t, err, "no index found")

	_, err = run(t, "", "query", "--index", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "--query or --interactive")

	_, err = run(t, "", "index", "--corpus", t.TempDir(), "--index", filepath.Join(t.TempDir(), "index.gob"))
	assert.ErrorContains(t, err, "unsupported index extension")
}
