package feed

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
)

// DirSource reads a corpus laid out as one file per document, named by its
// numeric ID (Dataset/1.txt, Dataset/2.txt, ...). Files whose base name is
// not a positive integer are skipped.
type DirSource struct {
	Dir     string
	Pattern string

	fsys   fs.FS
	logger *slog.Logger
}

func NewDirSource(dir, pattern string) *DirSource {
	if pattern == "" {
		pattern = "*.txt"
	}
	return &DirSource{
		Dir:     dir,
		Pattern: pattern,
		fsys:    os.DirFS(dir),
		logger:  slog.Default().With("component", "feed-dir"),
	}
}

func (s *DirSource) Name() string {
	return "dir:" + s.Dir
}

func (s *DirSource) Fetch(ctx context.Context) ([]RawDocument, error) {
	matches, err := doublestar.Glob(s.fsys, s.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("%w: matching %q in %s: %v", apperrors.ErrSourceFailed, s.Pattern, s.Dir, err)
	}
	docs := make([]RawDocument, 0, len(matches))
	for _, name := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, ok := docIDFromName(name)
		if !ok {
			s.logger.Warn("skipping file without numeric name", "file", name)
			continue
		}
		data, err := fs.ReadFile(s.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", apperrors.ErrSourceFailed, name, err)
		}
		docs = append(docs, RawDocument{ID: id, Text: string(data)})
	}
	s.logger.Info("corpus scanned", "dir", s.Dir, "pattern", s.Pattern, "documents", len(docs))
	return docs, nil
}

func docIDFromName(name string) (index.DocID, bool) {
	base := path.Base(name)
	stem := strings.TrimSuffix(base, path.Ext(base))
	n, err := strconv.ParseUint(stem, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return index.DocID(n), true
}
