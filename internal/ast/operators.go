package ast

import "fmt"

type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	default:
		panic(fmt.Sprintf("UnaryOp.String(): received illegal operator: %d", op))
	}
}

type ArithmeticOp int

const (
	Add ArithmeticOp = iota
	Sub
	Mul
	Div
)

func (op ArithmeticOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		panic(fmt.Sprintf("ArithmeticOp.String(): received illegal operator: %d", op))
	}
}

type RelationalOp int

const (
	Less RelationalOp = iota
	LessEqual
	Equal
	NotEqual
	Greater
	GreaterEqual
)

func (op RelationalOp) String() string {
	switch op {
	case Less:
		return "<"
	case LessEqual:
		return "<="
	case Equal:
		return "="
	case NotEqual:
		return "<>"
	case Greater:
		return ">"
	case GreaterEqual:
		return ">="
	default:
		panic(fmt.Sprintf("RelationalOp.String(): received illegal operator: %d", op))
	}
}

// Negate returns the operator that holds exactly when op does not.
func (op RelationalOp) Negate() RelationalOp {
	switch op {
	case Less:
		return GreaterEqual
	case LessEqual:
		return Greater
	case Equal:
		return NotEqual
	case NotEqual:
		return Equal
	case Greater:
		return LessEqual
	case GreaterEqual:
		return Less
	default:
		panic(fmt.Sprintf("RelationalOp.Negate(): received illegal operator: %d", op))
	}
}

// Eval applies op to two integers.
func (op RelationalOp) Eval(left, right int64) bool {
	switch op {
	case Less:
		return left < right
	case LessEqual:
		return left <= right
	case Equal:
		return left == right
	case NotEqual:
		return left != right
	case Greater:
		return left > right
	case GreaterEqual:
		return left >= right
	default:
		panic(fmt.Sprintf("RelationalOp.Eval(): received illegal operator: %d", op))
	}
}

// RelationalOpFromSymbol maps REL_OP token text to an operator.
func RelationalOpFromSymbol(symbol string) (RelationalOp, bool) {
	switch symbol {
	case "<":
		return Less, true
	case "<=":
		return LessEqual, true
	case "=":
		return Equal, true
	case "<>", "><":
		return NotEqual, true
	case ">":
		return Greater, true
	case ">=":
		return GreaterEqual, true
	}

	return 0, false
}
