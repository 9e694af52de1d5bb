package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("The quick cats; state-of-the-art connections!")

	assert.Equal(t, []Token{
		{Term: "quick", Position: 0},
		{Term: "cat", Position: 1},
		{Term: "state", Position: 2},
		{Term: "art", Position: 3},
		{Term: "connect", Position: 4},
	}, tokens)
}

func TestNormalizeDropsNonLetters(t *testing.T) {
	assert.Equal(t, []string{"dog", "cat"}, Normalize("1999 dogs ... (cats)"))
	assert.Empty(t, Normalize("   "))
	assert.Empty(t, Normalize("the and of 42"))
}

func TestStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Running", "run"},
		{"cats", "cat"},
		{"(cat)", "cat"},
		{"connected", "connect"},
		{"the", "the"},
		{"123", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Stem(tt.in))
		})
	}
}

func TestStemMatchesIndexNormalization(t *testing.T) {
	for _, word := range []string{"Retrieval", "indexes", "queried", "proximity"} {
		assert.Equal(t, Normalize(word), []string{Stem(word)}, word)
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := `Information retrieval systems combine tokenization, stemming, and stop word
	removal to normalize text into searchable terms. The inverted index maps each
	term to the documents containing it, along with positional information for
	proximity queries.`
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		_ = Tokenize(text)
	}
}
