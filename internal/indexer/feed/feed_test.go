package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/tokenizer"
	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
)

func TestNormalizeSortsAndCounts(t *testing.T) {
	calls := 0
	docs, err := Normalize([]RawDocument{
		{ID: 3, Text: "Dogs barking"},
		{ID: 1, Text: "the cat"},
	}, tokenizer.Normalize, func() { calls++ })
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, index.DocID(1), docs[0].ID)
	assert.Equal(t, []string{"cat"}, docs[0].Terms)
	assert.Equal(t, []string{"dog", "bark"}, docs[1].Terms)
	assert.Equal(t, 2, calls)
}

func TestNormalizeRejectsBadIDs(t *testing.T) {
	_, err := Normalize([]RawDocument{{ID: 0, Text: "x"}}, tokenizer.Normalize, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = Normalize([]RawDocument{{ID: 2}, {ID: 2}}, tokenizer.Normalize, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"1.txt":     "cats and dogs",
		"2.txt":     "dogs only",
		"10.txt":    "birds",
		"notes.txt": "ignored",
		"3.md":      "wrong extension",
		"sub/4.txt": "nested",
	}
	for name, body := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	}

	docs, err := Load(context.Background(), NewDirSource(dir, ""), tokenizer.Normalize, nil)
	require.NoError(t, err)
	ids := make([]index.DocID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	assert.Equal(t, []index.DocID{1, 2, 10}, ids)

	docs, err = Load(context.Background(), NewDirSource(dir, "**/*.txt"), tokenizer.Normalize, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 4)
}

func TestDirSourceCanceled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.txt"), []byte("x"), 0644))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDirSource(dir, "").Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostgresQueryQuotesIdentifiers(t *testing.T) {
	src := NewPostgresSource(nil, "documents", "id", `body"; drop`)
	q := src.query()
	assert.True(t, strings.HasPrefix(q, `SELECT "id", "body""; drop" FROM "documents"`))
	assert.Equal(t, "postgres:documents", src.Name())
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{{ID: 1, Text: "a"}}
	raws, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, raws, 1)
}
