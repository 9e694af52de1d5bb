package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocs() []Document {
	return []Document{
		{ID: 1, Terms: []string{"cat", "dog"}},
		{ID: 2, Terms: []string{"dog"}},
		{ID: 3, Terms: []string{"cat", "bird", "dog"}},
	}
}

func TestBuildPostings(t *testing.T) {
	snap := Build(sampleDocs())

	assert.Equal(t, []DocID{1, 3}, snap.Docs("cat"))
	assert.Equal(t, []DocID{1, 2, 3}, snap.Docs("dog"))
	assert.Equal(t, []DocID{3}, snap.Docs("bird"))
	assert.Nil(t, snap.Docs("fish"))

	assert.Equal(t, []int{0}, snap.PositionsIn("cat", 1))
	assert.Equal(t, []int{1}, snap.PositionsIn("dog", 1))
	assert.Equal(t, []int{2}, snap.PositionsIn("dog", 3))
	assert.Nil(t, snap.PositionsIn("dog", 9))

	assert.Equal(t, 3, snap.DocCount())
	assert.Equal(t, 3, snap.TermCount())
	assert.Equal(t, []DocID{1, 2, 3}, snap.UniverseDocs())
	assert.Equal(t, []string{"bird", "cat", "dog"}, snap.Inverted.Terms())
}

func TestPostingInvariants(t *testing.T) {
	snap := Build([]Document{
		{ID: 5, Terms: []string{"a", "b", "a", "a"}},
		{ID: 2, Terms: []string{"b", "a"}},
		{ID: 9, Terms: []string{"a"}},
	})

	for term, inv := range snap.Inverted {
		require.Equal(t, len(inv.Docs), inv.DocFreq, term)
		for i := 1; i < len(inv.Docs); i++ {
			assert.Less(t, inv.Docs[i-1], inv.Docs[i], term)
		}
		pos := snap.Positional[term]
		require.NotNil(t, pos, term)
		assert.Equal(t, inv.Docs, pos.Docs(), "inverted and positional doc sets differ for %q", term)
		assert.Equal(t, len(pos.Occurrences), pos.DocFreq)
		for _, occ := range pos.Occurrences {
			for i := 1; i < len(occ.Positions); i++ {
				assert.Less(t, occ.Positions[i-1], occ.Positions[i])
			}
		}
	}
	assert.Equal(t, []int{0, 2, 3}, snap.PositionsIn("a", 5))
	assert.Equal(t, []DocID{2, 5, 9}, snap.Docs("a"))
}

func TestOutOfOrderMatchesInOrder(t *testing.T) {
	docs := sampleDocs()
	reversed := []Document{docs[2], docs[0], docs[1]}
	assert.True(t, Equal(Build(docs), Build(reversed)))
}

func TestDuplicateDocumentMerges(t *testing.T) {
	b := NewBuilder()
	b.Add(4, []string{"x", "y"})
	b.Add(4, []string{"y", "x", "z"})
	snap := b.Build()

	assert.Equal(t, []DocID{4}, snap.Docs("x"))
	assert.Equal(t, 1, snap.Inverted["x"].DocFreq)
	assert.Equal(t, []int{0, 1}, snap.PositionsIn("x", 4))
	assert.Equal(t, []int{0, 1}, snap.PositionsIn("y", 4))
	assert.Equal(t, []int{2}, snap.PositionsIn("z", 4))
}

func TestBuildResetsBuilder(t *testing.T) {
	b := NewBuilder()
	b.Add(1, []string{"first"})
	first := b.Build()
	b.Add(2, []string{"second"})
	second := b.Build()

	assert.Equal(t, 1, first.TermCount())
	assert.Nil(t, second.Docs("first"))
	assert.Equal(t, []DocID{2}, second.UniverseDocs())
}

func TestEmptyDocumentStillInUniverse(t *testing.T) {
	snap := Build([]Document{{ID: 1, Terms: []string{"a"}}, {ID: 2}})
	assert.Equal(t, 2, snap.DocCount())
	assert.Equal(t, 1, snap.TermCount())
}

func TestMergeEqualsSingleBuild(t *testing.T) {
	docs := sampleDocs()
	merged := Merge(Build(docs[:1]), Build(docs[1:]), nil)
	assert.True(t, Equal(Build(docs), merged))
}

func TestNewSnapshotDerivesUniverse(t *testing.T) {
	orig := Build(sampleDocs())
	rebuilt := NewSnapshot(orig.Version, orig.BuiltAt, orig.Inverted, orig.Positional, nil)
	assert.True(t, Equal(orig, rebuilt))
}

func TestStats(t *testing.T) {
	st := Build(sampleDocs()).Stats()
	assert.Equal(t, 3, st.Terms)
	assert.Equal(t, 3, st.Documents)
	assert.Equal(t, 6, st.Postings)
	assert.Equal(t, 6, st.Positions)
}

func TestBitmapRoundTrip(t *testing.T) {
	docs := []DocID{1, 7, 300000}
	assert.Equal(t, docs, DocsOf(BitmapOf(docs)))
}

func BenchmarkBuilderAdd(b *testing.B) {
	terms := []string{"distribut", "search", "engin", "index", "queri", "process", "search"}
	builder := NewBuilder()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		builder.Add(DocID(i+1), terms)
	}
}

func BenchmarkSnapshotDocs(b *testing.B) {
	docs := make([]Document, 10000)
	for i := range docs {
		docs[i] = Document{ID: DocID(i + 1), Terms: []string{"search", fmt.Sprintf("t%d", i%100)}}
	}
	snap := Build(docs)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = snap.Docs("search")
		}
	})
}
