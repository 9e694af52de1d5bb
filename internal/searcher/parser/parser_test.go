package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
)

func TestToPostfix(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"single term", "a", []string{"a"}},
		{"and", "a and b", []string{"a", "b", "and"}},
		{"grouped or", "( a or b ) and c", []string{"a", "b", "or", "c", "and"}},
		{"glued parens", "(a or b) and c", []string{"a", "b", "or", "c", "and"}},
		{"and binds tighter than or", "a or b and c", []string{"a", "b", "c", "and", "or"}},
		{"left associative", "a and b and c", []string{"a", "b", "and", "c", "and"}},
		{"not applies to next operand", "not a and b", []string{"a", "not", "b", "and"}},
		{"double not", "not not a", []string{"a", "not", "not"}},
		{"not group", "not (a or b)", []string{"a", "b", "or", "not"}},
		{"and not", "a and not b", []string{"a", "b", "not", "and"}},
		{"nested", "((a))", []string{"a"}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToPostfix(SplitTokens(tt.query))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToPostfixUnbalanced(t *testing.T) {
	for _, query := range []string{"a )", "a and b )", "( a and b", "((a)", ")("} {
		t.Run(query, func(t *testing.T) {
			_, err := ToPostfix(SplitTokens(query))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrParse)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "unbalanced parentheses", pe.Reason)
		})
	}
}

func TestToPostfixStrayRightParenPosition(t *testing.T) {
	_, err := ToPostfix([]string{"a", ")", "b"})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Pos)
	assert.Equal(t, ")", pe.Token)
}

func TestToPostfixRejectsProximitySyntax(t *testing.T) {
	_, err := ToPostfix(SplitTokens("a near/2 b and c"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "unrecognized operator", pe.Reason)
	assert.Equal(t, "near/2", pe.Token)
}

func TestSplitTokens(t *testing.T) {
	assert.Equal(t, []string{"(", "a", "or", "b", ")", "and", "c"}, SplitTokens("(a or b)and c"))
	assert.Empty(t, SplitTokens("   "))
}

func TestOperator(t *testing.T) {
	assert.Equal(t, OpNot, LookupOperator("not"))
	assert.Equal(t, OpNone, LookupOperator("NOT"))
	assert.Equal(t, 1, OpNot.Arity())
	assert.Equal(t, 2, OpAnd.Arity())
	assert.Equal(t, 2, OpOr.Arity())
	assert.Greater(t, OpNot.Precedence(), OpAnd.Precedence())
	assert.Greater(t, OpAnd.Precedence(), OpOr.Precedence())
	assert.Equal(t, "and", OpAnd.String())
}
