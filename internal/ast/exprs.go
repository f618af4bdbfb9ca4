package ast

import "github.com/kievzenit/tinybasic/internal/lexer"

type NumberExpr struct {
	StartToken *lexer.Token

	Value int64
}

// IdentExpr names one of the 26 variables, always an upper case letter.
type IdentExpr struct {
	StartToken *lexer.Token

	Name byte
}

// StringExpr holds the literal text between the quotes, escapes untouched.
type StringExpr struct {
	StartToken *lexer.Token

	Value string
}

type UnaryExpr struct {
	StartToken *lexer.Token

	Op      UnaryOp
	Operand Expr
}

type ArithmeticExpr struct {
	StartToken *lexer.Token

	Op    ArithmeticOp
	Left  Expr
	Right Expr
}

type RelationalExpr struct {
	StartToken *lexer.Token

	Op    RelationalOp
	Left  Expr
	Right Expr
}

// Slot returns the zero based variable index of the identifier.
func (e *IdentExpr) Slot() int {
	return int(e.Name - 'A')
}

func (NumberExpr) AstNode()     {}
func (IdentExpr) AstNode()      {}
func (StringExpr) AstNode()     {}
func (UnaryExpr) AstNode()      {}
func (ArithmeticExpr) AstNode() {}
func (RelationalExpr) AstNode() {}

func (e *NumberExpr) FirstToken() *lexer.Token     { return e.StartToken }
func (e *IdentExpr) FirstToken() *lexer.Token      { return e.StartToken }
func (e *StringExpr) FirstToken() *lexer.Token     { return e.StartToken }
func (e *UnaryExpr) FirstToken() *lexer.Token      { return e.StartToken }
func (e *ArithmeticExpr) FirstToken() *lexer.Token { return e.StartToken }
func (e *RelationalExpr) FirstToken() *lexer.Token { return e.StartToken }

func (NumberExpr) ExprNode()     {}
func (IdentExpr) ExprNode()      {}
func (StringExpr) ExprNode()     {}
func (UnaryExpr) ExprNode()      {}
func (ArithmeticExpr) ExprNode() {}
func (RelationalExpr) ExprNode() {}
