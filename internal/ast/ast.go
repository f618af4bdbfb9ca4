package ast

import "github.com/kievzenit/tinybasic/internal/lexer"

type AstNode interface {
	AstNode()
	FirstToken() *lexer.Token
}

type Stmt interface {
	AstNode
	StmtNode()
}

type Expr interface {
	AstNode
	ExprNode()
}

// Program is the root of a parsed source file.
type Program struct {
	Name  string
	Lines []*Line
}

type Line struct {
	StartToken *lexer.Token

	Number int
	Stmt   Stmt
}

// Numbers returns the line numbers in program order.
func (p *Program) Numbers() []int {
	numbers := make([]int, len(p.Lines))
	for i, line := range p.Lines {
		numbers[i] = line.Number
	}
	return numbers
}

func (l *Line) AstNode() {}
func (l *Line) FirstToken() *lexer.Token {
	return l.StartToken
}
