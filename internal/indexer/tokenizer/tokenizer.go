// Package tokenizer turns raw document and query text into normalized terms.
// It splits on whitespace and the '-' and ';' separators, strips everything
// that is not an ASCII letter, lower-cases, removes stop-words and applies
// the Porter stemmer. Index-time and query-time normalization must share
// this package or lookups silently miss.
package tokenizer

import (
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
)

var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "all": {},
	"am": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "because": {}, "been": {}, "before": {}, "being": {}, "below": {},
	"between": {}, "both": {}, "but": {}, "by": {}, "can": {}, "did": {},
	"do": {}, "does": {}, "doing": {}, "down": {}, "during": {}, "each": {},
	"few": {}, "for": {}, "from": {}, "further": {}, "had": {}, "has": {},
	"have": {}, "having": {}, "he": {}, "her": {}, "here": {}, "hers": {},
	"him": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "itself": {}, "me": {}, "more": {},
	"most": {}, "my": {}, "no": {}, "nor": {}, "not": {}, "of": {}, "off": {},
	"on": {}, "once": {}, "only": {}, "or": {}, "other": {}, "our": {},
	"out": {}, "over": {}, "own": {}, "same": {}, "she": {}, "should": {},
	"so": {}, "some": {}, "such": {}, "than": {}, "that": {}, "the": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "to": {}, "too": {}, "under": {},
	"until": {}, "up": {}, "very": {}, "was": {}, "we": {}, "were": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "while": {}, "who": {},
	"whom": {}, "why": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// Token is a normalized term and its 0-based offset among the kept tokens of
// the text it came from.
type Token struct {
	Term     string
	Position int
}

// Tokenize normalizes text into positioned tokens. Positions count only
// tokens that survive stop-word removal, so they are dense.
func Tokenize(text string) []Token {
	words := strings.FieldsFunc(text, isSeparator)
	tokens := make([]Token, 0, len(words))
	for _, word := range words {
		term := normalizeWord(word)
		if term == "" {
			continue
		}
		tokens = append(tokens, Token{Term: term, Position: len(tokens)})
	}
	return tokens
}

// Normalize is Tokenize without positions: the ordered term sequence the
// index builder consumes.
func Normalize(text string) []string {
	tokens := Tokenize(text)
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = tok.Term
	}
	return terms
}

// Stem normalizes a single query word exactly the way document words are
// normalized, except that stop-words are kept (they simply miss in the
// index). It returns "" when nothing of the word survives letter stripping.
func Stem(word string) string {
	cleaned := lettersOnly(word)
	if cleaned == "" {
		return ""
	}
	return porterstemmer.StemString(cleaned)
}

// IsStopWord reports whether a lower-cased word is dropped at index time.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

func normalizeWord(word string) string {
	cleaned := lettersOnly(word)
	if cleaned == "" || IsStopWord(cleaned) {
		return ""
	}
	return porterstemmer.StemString(cleaned)
}

// lettersOnly drops every byte outside [a-zA-Z] and lower-cases the rest.
func lettersOnly(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', '-', ';':
		return true
	}
	return false
}
