package executor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/searcher/parser"
	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
)

// QueryKind is the route a query takes through the engine.
type QueryKind int

const (
	KindEmpty QueryKind = iota
	KindTerm
	KindProximity
	KindBoolean
)

func (k QueryKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindTerm:
		return "term"
	case KindProximity:
		return "proximity"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

func (k QueryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *QueryKind) UnmarshalText(text []byte) error {
	for _, kind := range []QueryKind{KindEmpty, KindTerm, KindProximity, KindBoolean} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown query kind %q", text)
}

// ValidationError reports a structurally valid query with a bad argument.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// Classify picks the route for a tokenized, lower-cased query. Any boolean
// operator or parenthesis makes the query boolean regardless of length.
func Classify(tokens []string) QueryKind {
	if len(tokens) == 0 {
		return KindEmpty
	}
	for _, tok := range tokens {
		if parser.IsOperator(tok) || tok == parser.LeftParen || tok == parser.RightParen {
			return KindBoolean
		}
	}
	if len(tokens) == 1 {
		return KindTerm
	}
	return KindProximity
}

// ProximityQuery is a parsed proximity search. Terms are raw query words;
// the caller stems them.
type ProximityQuery struct {
	Term1    string
	Term2    string
	Distance int
}

// ParseProximity reads one of the accepted proximity forms:
//
//	t1 t2            distance defaultDistance
//	t1 near/k t2
//	t1 t2 /k
//	t1 t2 / k
//
// Anything else is a ValidationError, as is a non-numeric or negative k.
func ParseProximity(tokens []string, defaultDistance int) (ProximityQuery, error) {
	switch len(tokens) {
	case 2:
		if defaultDistance < 0 {
			return ProximityQuery{}, &ValidationError{Field: "distance", Reason: "must not be negative"}
		}
		return ProximityQuery{Term1: tokens[0], Term2: tokens[1], Distance: defaultDistance}, nil

	case 3:
		if k, ok := strings.CutPrefix(tokens[1], "near/"); ok {
			d, err := parseDistance(k)
			if err != nil {
				return ProximityQuery{}, err
			}
			return ProximityQuery{Term1: tokens[0], Term2: tokens[2], Distance: d}, nil
		}
		if k, ok := strings.CutPrefix(tokens[2], "/"); ok {
			d, err := parseDistance(k)
			if err != nil {
				return ProximityQuery{}, err
			}
			return ProximityQuery{Term1: tokens[0], Term2: tokens[1], Distance: d}, nil
		}

	case 4:
		if tokens[2] == "/" {
			d, err := parseDistance(tokens[3])
			if err != nil {
				return ProximityQuery{}, err
			}
			return ProximityQuery{Term1: tokens[0], Term2: tokens[1], Distance: d}, nil
		}
	}
	return ProximityQuery{}, &ValidationError{
		Field:  "query",
		Reason: "must be 't1 t2', 't1 near/k t2', 't1 t2 /k' or a boolean expression",
	}
}

func parseDistance(s string) (int, error) {
	d, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Field: "distance", Reason: fmt.Sprintf("%q is not a number", s)}
	}
	if d < 0 {
		return 0, &ValidationError{Field: "distance", Reason: "must not be negative"}
	}
	return d, nil
}
