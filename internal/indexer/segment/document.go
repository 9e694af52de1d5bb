package segment

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
)

// invertedEntry is one term of the inverted file: {"df": N, "postings": [...]}.
type invertedEntry struct {
	DF       int           `json:"df" yaml:"df"`
	Postings []index.DocID `json:"postings" yaml:"postings,flow"`
}

type positionalDoc struct {
	DocNo    index.DocID `json:"docNo" yaml:"docNo"`
	Position []int       `json:"position" yaml:"position,flow"`
}

type positionalEntry struct {
	DF       int             `json:"df" yaml:"df"`
	Postings []positionalDoc `json:"postings" yaml:"postings"`
}

// Map keys are emitted in sorted order by both encoders, so persisted files
// list terms lexicographically.
type invertedFile struct {
	Header header                   `json:"header" yaml:"header"`
	Index  map[string]invertedEntry `json:"index" yaml:"index"`
}

type positionalFile struct {
	Header header                     `json:"header" yaml:"header"`
	Index  map[string]positionalEntry `json:"index" yaml:"index"`
}

type codec interface {
	encode(w io.Writer, v any) error
	decode(r io.Reader, v any) error
}

type jsonCodec struct{}

func (jsonCodec) encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (jsonCodec) decode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

type yamlCodec struct{}

func (yamlCodec) encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlCodec) decode(r io.Reader, v any) error {
	return yaml.NewDecoder(r).Decode(v)
}

func saveDocuments(path string, snap *index.Snapshot, c codec) error {
	hdr := headerOf(snap)
	invPath, posPath := pairPaths(path)

	inv := invertedFile{Header: hdr, Index: make(map[string]invertedEntry, len(snap.Inverted))}
	for term, p := range snap.Inverted {
		inv.Index[term] = invertedEntry{DF: p.DocFreq, Postings: p.Docs}
	}
	pos := positionalFile{Header: hdr, Index: make(map[string]positionalEntry, len(snap.Positional))}
	for term, p := range snap.Positional {
		docs := make([]positionalDoc, len(p.Occurrences))
		for i, occ := range p.Occurrences {
			docs[i] = positionalDoc{DocNo: occ.Doc, Position: occ.Positions}
		}
		pos.Index[term] = positionalEntry{DF: p.DocFreq, Postings: docs}
	}

	// The inverted file's rename commits the pair. A reader that lands
	// between the two renames sees mismatched versions and gets
	// ErrCorruptIndex.
	if err := encodeFile(posPath, pos, c); err != nil {
		return fmt.Errorf("writing positional index: %w", err)
	}
	if err := encodeFile(invPath, inv, c); err != nil {
		return fmt.Errorf("writing inverted index: %w", err)
	}
	return nil
}

func encodeFile(path string, v any, c codec) error {
	return writeAtomic(path, func(f *os.File) error {
		w := bufio.NewWriter(f)
		if err := c.encode(w, v); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		return w.Flush()
	})
}

func decodeFile(path string, v any, c codec) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()
	if err := c.decode(bufio.NewReader(f), v); err != nil {
		return corrupt("decoding %s: %v", path, err)
	}
	return nil
}

func loadDocuments(path string, c codec) (*index.Snapshot, error) {
	invPath, posPath := pairPaths(path)
	var inv invertedFile
	if err := decodeFile(invPath, &inv, c); err != nil {
		return nil, err
	}
	var pos positionalFile
	if err := decodeFile(posPath, &pos, c); err != nil {
		return nil, err
	}
	if inv.Header.Version != pos.Header.Version {
		return nil, corrupt("inverted version %d does not match positional version %d",
			inv.Header.Version, pos.Header.Version)
	}

	inverted := make(index.InvertedIndex, len(inv.Index))
	for term, e := range inv.Index {
		inverted[term] = &index.InvertedPosting{Term: term, DocFreq: e.DF, Docs: e.Postings}
	}
	positional := make(index.PositionalIndex, len(pos.Index))
	for term, e := range pos.Index {
		occs := make([]index.Occurrence, len(e.Postings))
		for i, d := range e.Postings {
			occs[i] = index.Occurrence{Doc: d.DocNo, Positions: d.Position}
		}
		positional[term] = &index.PositionalPosting{Term: term, DocFreq: e.DF, Occurrences: occs}
	}
	return index.NewSnapshot(inv.Header.Version, inv.Header.BuiltAt, inverted, positional, inv.Header.Documents), nil
}
