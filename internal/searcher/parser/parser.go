// Package parser converts boolean query text into postfix (reverse Polish)
// form using the shunting-yard algorithm. Terms pass through untouched;
// stemming and lookup happen at evaluation time.
package parser

import (
	"fmt"
	"strings"

	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
)

const (
	LeftParen  = "("
	RightParen = ")"
)

// ParseError describes a malformed boolean expression. Pos is the index of
// the offending token, or -1 when the problem is detected at end of input.
type ParseError struct {
	Token  string
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("parse error: %s", e.Reason)
	}
	return fmt.Sprintf("parse error at token %d (%q): %s", e.Pos, e.Token, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return apperrors.ErrParse
}

// SplitTokens splits query on whitespace, first detaching parentheses glued
// to neighbouring words so "(a" becomes "(" and "a".
func SplitTokens(query string) []string {
	query = strings.ReplaceAll(query, LeftParen, " "+LeftParen+" ")
	query = strings.ReplaceAll(query, RightParen, " "+RightParen+" ")
	return strings.Fields(query)
}

// ToPostfix reorders infix tokens into postfix. Tokens are expected to be
// lower-cased. Binary operators are left-associative; not is a unary prefix
// operator and binds right, so "not not a" yields "a not not" and
// "not a and b" means "(not a) and b".
func ToPostfix(tokens []string) ([]string, error) {
	output := make([]string, 0, len(tokens))
	stack := make([]string, 0, len(tokens)/2)

	for i, tok := range tokens {
		switch {
		case tok == LeftParen:
			stack = append(stack, tok)

		case tok == RightParen:
			matched := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top == LeftParen {
					matched = true
					break
				}
				output = append(output, top)
			}
			if !matched {
				return nil, &ParseError{Token: tok, Pos: i, Reason: "unbalanced parentheses"}
			}

		case IsOperator(tok):
			op := LookupOperator(tok)
			if op.Arity() == 2 {
				for len(stack) > 0 {
					top := stack[len(stack)-1]
					if top == LeftParen || LookupOperator(top).Precedence() < op.Precedence() {
						break
					}
					output = append(output, top)
					stack = stack[:len(stack)-1]
				}
			}
			stack = append(stack, tok)

		case isReservedSyntax(tok):
			return nil, &ParseError{Token: tok, Pos: i, Reason: "unrecognized operator"}

		default:
			output = append(output, tok)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top == LeftParen {
			return nil, &ParseError{Token: top, Pos: -1, Reason: "unbalanced parentheses"}
		}
		output = append(output, top)
	}
	return output, nil
}

// isReservedSyntax reports tokens that belong to the proximity grammar and
// have no meaning inside a boolean expression.
func isReservedSyntax(tok string) bool {
	return tok == "/" || strings.HasPrefix(tok, "near/") || (strings.HasPrefix(tok, "/") && len(tok) > 1)
}
