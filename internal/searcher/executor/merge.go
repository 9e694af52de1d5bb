package executor

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
)

// Intersect returns the documents present in both a and b. Inputs must be
// ascending and duplicate-free; so is the output.
func Intersect(a, b []index.DocID) []index.DocID {
	out := make([]index.DocID, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// Union returns the documents present in a or b. Inputs must be ascending
// and duplicate-free. The output keeps that order so it can feed a later
// Intersect.
func Union(a, b []index.DocID) []index.DocID {
	out := make([]index.DocID, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// Complement returns the members of universe not present in a, ascending.
func Complement(a []index.DocID, universe *roaring.Bitmap) []index.DocID {
	return index.DocsOf(roaring.AndNot(universe, index.BitmapOf(a)))
}
