package executor

import (
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
)

// Proximity returns the documents in which term1 and term2 occur within
// distance positions of each other, inclusive. Both terms must already be
// normalized. distance must be non-negative.
func Proximity(term1, term2 string, distance int, snap *index.Snapshot) ([]index.DocID, error) {
	if distance < 0 {
		return nil, &ValidationError{Field: "distance", Reason: "must not be negative"}
	}
	p1, p2 := snap.Occurrences(term1), snap.Occurrences(term2)
	if p1 == nil || p2 == nil {
		return []index.DocID{}, nil
	}
	candidates := Intersect(p1.Docs(), p2.Docs())
	out := make([]index.DocID, 0, len(candidates))
	for _, doc := range candidates {
		if withinWindow(p1.Positions(doc), p2.Positions(doc), distance) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// withinWindow reports whether some a in p1 and b in p2 satisfy
// |a-b| <= d. Both lists are ascending, so the p2 cursor never moves back.
// Positions are non-negative, so the differences below cannot overflow for
// any d.
func withinWindow(p1, p2 []int, d int) bool {
	j := 0
	for _, a := range p1 {
		for j < len(p2) && a-p2[j] > d {
			j++
		}
		if j == len(p2) {
			return false
		}
		if p2[j]-a <= d {
			return true
		}
	}
	return false
}
