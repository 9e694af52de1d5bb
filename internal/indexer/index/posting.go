package index

import (
	"slices"
	"sort"
)

// DocID identifies a document. Valid IDs are positive.
type DocID uint32

// Document is one entry of the normalized feed: a document and its ordered
// term sequence.
type Document struct {
	ID    DocID
	Terms []string
}

// InvertedPosting lists the documents a term occurs in. Docs is strictly
// ascending and DocFreq always equals len(Docs).
type InvertedPosting struct {
	Term    string
	DocFreq int
	Docs    []DocID
}

// add records doc, appending in the common in-order case and falling back to
// a sorted insert when documents arrive out of order.
func (p *InvertedPosting) add(doc DocID) {
	n := len(p.Docs)
	switch {
	case n == 0 || p.Docs[n-1] < doc:
		p.Docs = append(p.Docs, doc)
	case p.Docs[n-1] == doc:
		return
	default:
		i, found := slices.BinarySearch(p.Docs, doc)
		if found {
			return
		}
		p.Docs = slices.Insert(p.Docs, i, doc)
	}
	p.DocFreq = len(p.Docs)
}

// Occurrence holds the positions of a term within one document, strictly
// ascending and 0-based.
type Occurrence struct {
	Doc       DocID
	Positions []int
}

func (o *Occurrence) addPosition(pos int) {
	n := len(o.Positions)
	if n == 0 || o.Positions[n-1] < pos {
		o.Positions = append(o.Positions, pos)
		return
	}
	i, found := slices.BinarySearch(o.Positions, pos)
	if !found {
		o.Positions = slices.Insert(o.Positions, i, pos)
	}
}

// PositionalPosting lists, per document, where a term occurs. Occurrences
// are ascending by Doc with each document at most once; DocFreq equals
// len(Occurrences).
type PositionalPosting struct {
	Term        string
	DocFreq     int
	Occurrences []Occurrence
}

func (p *PositionalPosting) add(doc DocID, pos int) {
	n := len(p.Occurrences)
	switch {
	case n == 0 || p.Occurrences[n-1].Doc < doc:
		p.Occurrences = append(p.Occurrences, Occurrence{Doc: doc, Positions: []int{pos}})
	case p.Occurrences[n-1].Doc == doc:
		p.Occurrences[n-1].addPosition(pos)
	default:
		i := p.search(doc)
		if i < n && p.Occurrences[i].Doc == doc {
			p.Occurrences[i].addPosition(pos)
		} else {
			p.Occurrences = slices.Insert(p.Occurrences, i, Occurrence{Doc: doc, Positions: []int{pos}})
		}
	}
	p.DocFreq = len(p.Occurrences)
}

func (p *PositionalPosting) search(doc DocID) int {
	return sort.Search(len(p.Occurrences), func(i int) bool {
		return p.Occurrences[i].Doc >= doc
	})
}

// Positions returns the positions of the term in doc, or nil.
func (p *PositionalPosting) Positions(doc DocID) []int {
	i := p.search(doc)
	if i < len(p.Occurrences) && p.Occurrences[i].Doc == doc {
		return p.Occurrences[i].Positions
	}
	return nil
}

// Docs returns the ascending document list of the posting.
func (p *PositionalPosting) Docs() []DocID {
	docs := make([]DocID, len(p.Occurrences))
	for i, occ := range p.Occurrences {
		docs[i] = occ.Doc
	}
	return docs
}

// InvertedIndex maps a term to its inverted posting.
type InvertedIndex map[string]*InvertedPosting

// PositionalIndex maps a term to its positional posting.
type PositionalIndex map[string]*PositionalPosting

// Terms returns the index keys in lexicographic order.
func (idx InvertedIndex) Terms() []string {
	return sortedKeys(idx)
}

// Terms returns the index keys in lexicographic order.
func (idx PositionalIndex) Terms() []string {
	return sortedKeys(idx)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
