// Package segment persists index snapshots and loads them back. The format
// is chosen by file extension: .json and .yaml/.yml write a pair of files
// (<base>.inverted.<ext> and <base>.positional.<ext>), .db writes a single
// bbolt database. Every write goes to a .tmp file that is renamed into place
// once complete, so readers never observe a partial file. A pair is renamed
// positional first, inverted last; a load that races a save can see the new
// positional file beside the old inverted one, which the shared version
// header turns into ErrCorruptIndex rather than a mixed index.
package segment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
)

// Format identifies an on-disk encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
	FormatBolt
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatBolt:
		return "bolt"
	default:
		return "unknown"
	}
}

// FormatOf maps a path's extension to its Format.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".db", ".bolt":
		return FormatBolt
	default:
		return FormatUnknown
	}
}

// Files returns the files that make up the index at path.
func Files(path string) []string {
	switch FormatOf(path) {
	case FormatJSON, FormatYAML:
		inv, pos := pairPaths(path)
		return []string{inv, pos}
	default:
		return []string{path}
	}
}

func pairPaths(path string) (inverted, positional string) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + ".inverted" + ext, base + ".positional" + ext
}

// Save writes snap to path in the format named by its extension.
func Save(path string, snap *index.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("saving index: nil snapshot")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	switch FormatOf(path) {
	case FormatJSON:
		return saveDocuments(path, snap, jsonCodec{})
	case FormatYAML:
		return saveDocuments(path, snap, yamlCodec{})
	case FormatBolt:
		return saveBolt(path, snap)
	default:
		return fmt.Errorf("saving index: unsupported file extension %q", filepath.Ext(path))
	}
}

// Load reads the index at path and verifies its invariants. Structural
// problems are reported as apperrors.ErrCorruptIndex.
func Load(path string) (*index.Snapshot, error) {
	var (
		snap *index.Snapshot
		err  error
	)
	switch FormatOf(path) {
	case FormatJSON:
		snap, err = loadDocuments(path, jsonCodec{})
	case FormatYAML:
		snap, err = loadDocuments(path, yamlCodec{})
	case FormatBolt:
		snap, err = loadBolt(path)
	default:
		return nil, fmt.Errorf("loading index: unsupported file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(snap); err != nil {
		return nil, fmt.Errorf("loading index %s: %w", path, err)
	}
	return snap, nil
}

// Exists reports whether every file of the index at path is present.
func Exists(path string) bool {
	for _, f := range Files(path) {
		if _, err := os.Stat(f); err != nil {
			return false
		}
	}
	return true
}

// Validate checks the posting invariants of snap: ascending unique document
// lists, DocFreq equal to list length, ascending positions, and identical
// document sets in both indexes for every term.
func Validate(snap *index.Snapshot) error {
	if len(snap.Inverted) != len(snap.Positional) {
		return corrupt("inverted index has %d terms, positional index has %d",
			len(snap.Inverted), len(snap.Positional))
	}
	for term, inv := range snap.Inverted {
		if inv.DocFreq != len(inv.Docs) {
			return corrupt("term %q: df %d but %d postings", term, inv.DocFreq, len(inv.Docs))
		}
		for i, doc := range inv.Docs {
			if doc == 0 {
				return corrupt("term %q: document id 0", term)
			}
			if i > 0 && inv.Docs[i-1] >= doc {
				return corrupt("term %q: postings not strictly ascending at %d", term, i)
			}
		}
		pos, ok := snap.Positional[term]
		if !ok {
			return corrupt("term %q missing from positional index", term)
		}
		if pos.DocFreq != len(pos.Occurrences) || len(pos.Occurrences) != len(inv.Docs) {
			return corrupt("term %q: positional postings disagree with inverted postings", term)
		}
		for i, occ := range pos.Occurrences {
			if occ.Doc != inv.Docs[i] {
				return corrupt("term %q: positional document %d, inverted document %d", term, occ.Doc, inv.Docs[i])
			}
			if len(occ.Positions) == 0 {
				return corrupt("term %q: document %d has no positions", term, occ.Doc)
			}
			for j := 1; j < len(occ.Positions); j++ {
				if occ.Positions[j-1] >= occ.Positions[j] {
					return corrupt("term %q: positions in document %d not strictly ascending", term, occ.Doc)
				}
			}
		}
	}
	return nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrCorruptIndex, fmt.Sprintf(format, args...))
}

// writeAtomic creates path via a temporary sibling and a rename.
func writeAtomic(path string, write func(f *os.File) error) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing index file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing index file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming index file: %w", err)
	}
	return nil
}

// header is stored alongside both indexes so a mismatched pair is detected.
type header struct {
	Version   int64         `json:"version" yaml:"version"`
	BuiltAt   time.Time     `json:"builtAt" yaml:"builtAt"`
	Terms     int           `json:"terms" yaml:"terms"`
	Documents []index.DocID `json:"documents" yaml:"documents,flow"`
}

func headerOf(snap *index.Snapshot) header {
	return header{
		Version:   snap.Version,
		BuiltAt:   snap.BuiltAt,
		Terms:     snap.TermCount(),
		Documents: snap.UniverseDocs(),
	}
}
