package index

import (
	"time"

	"github.com/RoaringBitmap/roaring"
)

// Snapshot is a built, immutable pair of indexes. Readers share a Snapshot
// freely; a rebuild produces a new one rather than mutating it.
type Snapshot struct {
	Version    int64
	BuiltAt    time.Time
	Inverted   InvertedIndex
	Positional PositionalIndex

	universe *roaring.Bitmap
}

// Stats summarizes a snapshot for the stats endpoint and the CLI.
type Stats struct {
	Version   int64     `json:"version"`
	BuiltAt   time.Time `json:"built_at"`
	Terms     int       `json:"terms"`
	Documents int       `json:"documents"`
	Postings  int       `json:"postings"`
	Positions int       `json:"positions"`
}

// NewSnapshot assembles a snapshot from loaded indexes. When universe is
// empty it is derived from the positional index.
func NewSnapshot(version int64, builtAt time.Time, inv InvertedIndex, pos PositionalIndex, universe []DocID) *Snapshot {
	bm := roaring.New()
	if len(universe) > 0 {
		for _, doc := range universe {
			bm.Add(uint32(doc))
		}
	} else {
		for _, posting := range pos {
			for _, occ := range posting.Occurrences {
				bm.Add(uint32(occ.Doc))
			}
		}
	}
	return &Snapshot{
		Version:    version,
		BuiltAt:    builtAt,
		Inverted:   inv,
		Positional: pos,
		universe:   bm,
	}
}

// Docs returns the ascending document list for term, or nil when the term
// is absent. The slice is shared and must not be modified.
func (s *Snapshot) Docs(term string) []DocID {
	if p, ok := s.Inverted[term]; ok {
		return p.Docs
	}
	return nil
}

// Occurrences returns the positional posting for term, or nil.
func (s *Snapshot) Occurrences(term string) *PositionalPosting {
	return s.Positional[term]
}

// PositionsIn returns the positions of term in doc.
func (s *Snapshot) PositionsIn(term string, doc DocID) []int {
	p, ok := s.Positional[term]
	if !ok {
		return nil
	}
	return p.Positions(doc)
}

// Universe returns a copy of the set of all indexed documents.
func (s *Snapshot) Universe() *roaring.Bitmap {
	return s.universe.Clone()
}

// UniverseDocs returns every indexed document in ascending order.
func (s *Snapshot) UniverseDocs() []DocID {
	return DocsOf(s.universe)
}

func (s *Snapshot) DocCount() int {
	return int(s.universe.GetCardinality())
}

func (s *Snapshot) TermCount() int {
	return len(s.Inverted)
}

func (s *Snapshot) Stats() Stats {
	st := Stats{
		Version:   s.Version,
		BuiltAt:   s.BuiltAt,
		Terms:     s.TermCount(),
		Documents: s.DocCount(),
	}
	for _, p := range s.Inverted {
		st.Postings += p.DocFreq
	}
	for _, p := range s.Positional {
		for _, occ := range p.Occurrences {
			st.Positions += len(occ.Positions)
		}
	}
	return st
}

// BitmapOf converts an ascending document list to a bitmap.
func BitmapOf(docs []DocID) *roaring.Bitmap {
	bm := roaring.New()
	for _, d := range docs {
		bm.Add(uint32(d))
	}
	return bm
}

// DocsOf lists the members of bm in ascending order.
func DocsOf(bm *roaring.Bitmap) []DocID {
	docs := make([]DocID, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		docs = append(docs, DocID(it.Next()))
	}
	return docs
}
