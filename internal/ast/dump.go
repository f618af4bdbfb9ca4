package ast

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sanity-io/litter"
)

var dumpOptions = litter.Options{
	FieldExclusions:   regexp.MustCompile(`^StartToken$`),
	StripPackageNames: true,
	HidePrivateFields: true,
}

// Dump renders a node tree without source positions.
func Dump(node any) string {
	return dumpOptions.Sdump(node)
}

// ExprString renders an expression back to source form, fully parenthesised.
func ExprString(e Expr) string {
	switch e := e.(type) {
	case *NumberExpr:
		return strconv.FormatInt(e.Value, 10)
	case *IdentExpr:
		return string(e.Name)
	case *StringExpr:
		return `"` + e.Value + `"`
	case *UnaryExpr:
		return e.Op.String() + ExprString(e.Operand)
	case *ArithmeticExpr:
		return "(" + ExprString(e.Left) + " " + e.Op.String() + " " + ExprString(e.Right) + ")"
	case *RelationalExpr:
		return ExprString(e.Left) + " " + e.Op.String() + " " + ExprString(e.Right)
	default:
		panic(fmt.Sprintf("ExprString(): unknown expression %T", e))
	}
}

// StmtString renders a statement back to source form.
func StmtString(s Stmt) string {
	switch s := s.(type) {
	case *LetStmt:
		return "LET " + string(s.Target.Name) + " = " + ExprString(s.Value)
	case *PrintStmt:
		items := make([]string, len(s.Items))
		for i, item := range s.Items {
			items[i] = ExprString(item)
		}
		return "PRINT " + strings.Join(items, ", ")
	case *IfStmt:
		return "IF " + ExprString(s.Cond) + " THEN " + StmtString(s.Then)
	case *GotoStmt:
		return "GOTO " + strconv.Itoa(s.Target)
	case *GoSubStmt:
		return "GOSUB " + strconv.Itoa(s.Target)
	case *ReturnStmt:
		return "RETURN"
	case *EndStmt:
		return "END"
	case *InputStmt:
		names := make([]string, len(s.Targets))
		for i, target := range s.Targets {
			names[i] = string(target.Name)
		}
		return "INPUT " + strings.Join(names, ", ")
	default:
		panic(fmt.Sprintf("StmtString(): unknown statement %T", s))
	}
}
