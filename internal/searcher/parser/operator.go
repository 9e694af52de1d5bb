package parser

// Operator is a boolean query operator.
type Operator int

const (
	OpNone Operator = iota
	OpOr
	OpAnd
	OpNot
)

var operatorNames = map[string]Operator{
	"or":  OpOr,
	"and": OpAnd,
	"not": OpNot,
}

// LookupOperator returns the operator spelled by tok, or OpNone.
func LookupOperator(tok string) Operator {
	return operatorNames[tok]
}

// IsOperator reports whether tok is and, or, or not.
func IsOperator(tok string) bool {
	return LookupOperator(tok) != OpNone
}

// Arity is the number of operands the operator consumes.
func (o Operator) Arity() int {
	switch o {
	case OpNot:
		return 1
	case OpAnd, OpOr:
		return 2
	default:
		return 0
	}
}

// Precedence orders operators: not binds tightest, then and, then or.
func (o Operator) Precedence() int {
	switch o {
	case OpNot:
		return 3
	case OpAnd:
		return 2
	case OpOr:
		return 1
	default:
		return 0
	}
}

func (o Operator) String() string {
	switch o {
	case OpOr:
		return "or"
	case OpAnd:
		return "and"
	case OpNot:
		return "not"
	default:
		return ""
	}
}
