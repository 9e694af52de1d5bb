// Package index builds and holds the inverted and positional indexes. A
// Builder consumes the normalized document feed once and produces an
// immutable Snapshot that query evaluation reads without locking.
package index

import (
	"time"

	"github.com/RoaringBitmap/roaring"
)

// Builder accumulates postings for one snapshot. It is not safe for
// concurrent use; parallel builds run one Builder per shard and Merge the
// results.
type Builder struct {
	inverted   InvertedIndex
	positional PositionalIndex
	universe   *roaring.Bitmap
}

func NewBuilder() *Builder {
	return &Builder{
		inverted:   make(InvertedIndex),
		positional: make(PositionalIndex),
		universe:   roaring.New(),
	}
}

// Add indexes one document. Position i of terms is the term's 0-based
// offset. Documents are cheapest to add in ascending ID order but any order
// yields the same postings.
func (b *Builder) Add(doc DocID, terms []string) {
	for pos, term := range terms {
		b.addOccurrence(term, doc, pos)
	}
	b.universe.Add(uint32(doc))
}

func (b *Builder) addOccurrence(term string, doc DocID, pos int) {
	inv, ok := b.inverted[term]
	if !ok {
		inv = &InvertedPosting{Term: term}
		b.inverted[term] = inv
	}
	inv.add(doc)
	posting, ok := b.positional[term]
	if !ok {
		posting = &PositionalPosting{Term: term}
		b.positional[term] = posting
	}
	posting.add(doc, pos)
}

// Build hands the accumulated postings over to a new Snapshot and resets the
// Builder.
func (b *Builder) Build() *Snapshot {
	now := time.Now().UTC()
	snap := &Snapshot{
		Version:    now.UnixNano(),
		BuiltAt:    now,
		Inverted:   b.inverted,
		Positional: b.positional,
		universe:   b.universe,
	}
	*b = *NewBuilder()
	return snap
}

// Build indexes docs with a single Builder.
func Build(docs []Document) *Snapshot {
	b := NewBuilder()
	for _, doc := range docs {
		b.Add(doc.ID, doc.Terms)
	}
	return b.Build()
}
