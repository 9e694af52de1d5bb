package index

import (
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring"
)

// Merge combines snapshots built over disjoint or overlapping document sets
// into one. Postings for the same term are merged in document order; a
// document present in several parts keeps the union of its positions.
func Merge(parts ...*Snapshot) *Snapshot {
	b := NewBuilder()
	universe := roaring.New()
	for _, part := range parts {
		if part == nil {
			continue
		}
		universe.Or(part.universe)
		for term, p := range part.Positional {
			for _, occ := range p.Occurrences {
				for _, pos := range occ.Positions {
					b.addOccurrence(term, occ.Doc, pos)
				}
			}
		}
	}
	b.universe = universe

	now := time.Now().UTC()
	return &Snapshot{
		Version:    now.UnixNano(),
		BuiltAt:    now,
		Inverted:   b.inverted,
		Positional: b.positional,
		universe:   b.universe,
	}
}

// Equal reports whether two snapshots hold identical postings and universes.
// Version and BuiltAt are ignored.
func Equal(a, b *Snapshot) bool {
	if len(a.Inverted) != len(b.Inverted) || len(a.Positional) != len(b.Positional) {
		return false
	}
	if !a.universe.Equals(b.universe) {
		return false
	}
	for term, pa := range a.Inverted {
		pb, ok := b.Inverted[term]
		if !ok || pa.DocFreq != pb.DocFreq || !slices.Equal(pa.Docs, pb.Docs) {
			return false
		}
	}
	for term, pa := range a.Positional {
		pb, ok := b.Positional[term]
		if !ok || len(pa.Occurrences) != len(pb.Occurrences) {
			return false
		}
		for i := range pa.Occurrences {
			if pa.Occurrences[i].Doc != pb.Occurrences[i].Doc ||
				!slices.Equal(pa.Occurrences[i].Positions, pb.Occurrences[i].Positions) {
				return false
			}
		}
	}
	return true
}
