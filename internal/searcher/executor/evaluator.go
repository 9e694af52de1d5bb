package executor

import (
	"slices"

	"github.com/RoaringBitmap/roaring"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/parser"
)

// StemFunc maps a query word to the index term it should match.
type StemFunc func(word string) string

// Evaluate runs a postfix expression against snap. Absent terms and missing
// operands evaluate to the empty set, so a malformed but parsed expression
// degrades to fewer matches rather than an error. The result is ascending
// and owned by the caller; it never aliases a snapshot posting.
func Evaluate(postfix []string, snap *index.Snapshot, stem StemFunc) []index.DocID {
	stack := make([][]index.DocID, 0, len(postfix))
	pop := func() []index.DocID {
		if len(stack) == 0 {
			return nil
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	var universe *roaring.Bitmap
	for _, tok := range postfix {
		op := parser.LookupOperator(tok)
		if op == parser.OpNone {
			stack = append(stack, snap.Docs(stem(tok)))
			continue
		}
		switch op.Arity() {
		case 1:
			if universe == nil {
				universe = snap.Universe()
			}
			stack = append(stack, Complement(pop(), universe))
		case 2:
			b, a := pop(), pop()
			if op == parser.OpAnd {
				stack = append(stack, Intersect(a, b))
			} else {
				stack = append(stack, Union(a, b))
			}
		}
	}
	if len(stack) == 0 || len(stack[len(stack)-1]) == 0 {
		return []index.DocID{}
	}
	return slices.Clone(stack[len(stack)-1])
}
