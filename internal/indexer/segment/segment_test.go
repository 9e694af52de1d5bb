package segment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
)

func testSnapshot() *index.Snapshot {
	return index.Build([]index.Document{
		{ID: 1, Terms: []string{"cat", "dog", "cat"}},
		{ID: 2, Terms: []string{"dog"}},
		{ID: 3, Terms: []string{"cat", "bird", "dog"}},
		{ID: 4},
	})
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatOf("data/index.json"))
	assert.Equal(t, FormatYAML, FormatOf("index.YML"))
	assert.Equal(t, FormatBolt, FormatOf("index.db"))
	assert.Equal(t, FormatUnknown, FormatOf("index.gob"))
	assert.Equal(t, []string{"d/index.inverted.json", "d/index.positional.json"}, Files("d/index.json"))
	assert.Equal(t, []string{"d/index.db"}, Files("d/index.db"))
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"index.json", "index.yaml", "index.db"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			orig := testSnapshot()

			require.NoError(t, Save(path, orig))
			assert.True(t, Exists(path))
			for _, f := range Files(path) {
				_, err := os.Stat(f + ".tmp")
				assert.True(t, os.IsNotExist(err), "temp file left behind: %s", f)
			}

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, orig.Version, loaded.Version)
			assert.True(t, orig.BuiltAt.Equal(loaded.BuiltAt))
			assert.True(t, index.Equal(orig, loaded))
			assert.Equal(t, 4, loaded.DocCount())
			assert.Equal(t, []int{0, 2}, loaded.PositionsIn("cat", 1))
		})
	}
}

func TestJSONLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, Save(path, testSnapshot()))

	data, err := os.ReadFile(filepath.Join(filepath.Dir(path), "index.inverted.json"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `"df": 2`)
	assert.Less(t, strings.Index(text, `"bird"`), strings.Index(text, `"cat"`))
	assert.Less(t, strings.Index(text, `"cat"`), strings.Index(text, `"dog"`))

	data, err = os.ReadFile(filepath.Join(filepath.Dir(path), "index.positional.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"docNo": 1`)
	assert.Contains(t, string(data), `"position": [`)
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")
	require.NoError(t, Save(first, testSnapshot()))
	snap := testSnapshot()
	snap.Version++
	require.NoError(t, Save(second, snap))

	require.NoError(t, os.Rename(filepath.Join(dir, "b.positional.json"), filepath.Join(dir, "a.positional.json")))
	_, err := Load(first)
	assert.ErrorIs(t, err, apperrors.ErrCorruptIndex)
}

func TestInterruptedPairSaveIsDetected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")
	old := testSnapshot()
	require.NoError(t, Save(path, old))

	// Block the inverted file's temp path so the second save stops after the
	// positional file is in place.
	blocker := filepath.Join(dir, "index.inverted.json.tmp")
	require.NoError(t, os.Mkdir(blocker, 0o755))
	next := testSnapshot()
	next.Version = old.Version + 1
	require.Error(t, Save(path, next))
	assert.True(t, Exists(path))

	_, err := Load(path)
	assert.ErrorIs(t, err, apperrors.ErrCorruptIndex)

	require.NoError(t, os.Remove(blocker))
	require.NoError(t, Save(path, next))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, next.Version, loaded.Version)
}

func TestLoadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.inverted.json"), []byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.positional.json"), []byte("{}"), 0644))
	_, err := Load(filepath.Join(dir, "x.json"))
	assert.ErrorIs(t, err, apperrors.ErrCorruptIndex)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.db"))
	assert.Error(t, err)
	assert.False(t, Exists(filepath.Join(t.TempDir(), "none.json")))
}

func TestValidate(t *testing.T) {
	snap := testSnapshot()
	require.NoError(t, Validate(snap))

	snap.Inverted["cat"].DocFreq = 7
	assert.ErrorIs(t, Validate(snap), apperrors.ErrCorruptIndex)

	snap = testSnapshot()
	snap.Inverted["dog"].Docs = []index.DocID{3, 1, 2}
	assert.ErrorIs(t, Validate(snap), apperrors.ErrCorruptIndex)

	snap = testSnapshot()
	delete(snap.Positional, "bird")
	assert.ErrorIs(t, Validate(snap), apperrors.ErrCorruptIndex)

	snap = testSnapshot()
	snap.Positional["cat"].Occurrences[0].Positions = []int{2, 0}
	assert.ErrorIs(t, Validate(snap), apperrors.ErrCorruptIndex)
}

func TestSaveUnsupported(t *testing.T) {
	assert.Error(t, Save(filepath.Join(t.TempDir(), "index.gob"), testSnapshot()))
	assert.Error(t, Save(filepath.Join(t.TempDir(), "index.json"), nil))
}
