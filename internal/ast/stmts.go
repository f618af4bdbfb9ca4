package ast

import "github.com/kievzenit/tinybasic/internal/lexer"

type LetStmt struct {
	StartToken *lexer.Token

	Target *IdentExpr
	Value  Expr
}

// PrintStmt items are either *StringExpr or arithmetic expressions.
type PrintStmt struct {
	StartToken *lexer.Token

	Items []Expr
}

type IfStmt struct {
	StartToken *lexer.Token

	Cond *RelationalExpr
	Then Stmt
}

type GotoStmt struct {
	StartToken *lexer.Token

	Target int
}

type GoSubStmt struct {
	StartToken *lexer.Token

	Target int
}

type ReturnStmt struct {
	StartToken *lexer.Token
}

type EndStmt struct {
	StartToken *lexer.Token
}

type InputStmt struct {
	StartToken *lexer.Token

	Targets []*IdentExpr
}

// IsCompound reports whether the statement prints more than one item.
func (s *PrintStmt) IsCompound() bool {
	return len(s.Items) > 1
}

func (LetStmt) AstNode()    {}
func (PrintStmt) AstNode()  {}
func (IfStmt) AstNode()     {}
func (GotoStmt) AstNode()   {}
func (GoSubStmt) AstNode()  {}
func (ReturnStmt) AstNode() {}
func (EndStmt) AstNode()    {}
func (InputStmt) AstNode()  {}

func (s *LetStmt) FirstToken() *lexer.Token    { return s.StartToken }
func (s *PrintStmt) FirstToken() *lexer.Token  { return s.StartToken }
func (s *IfStmt) FirstToken() *lexer.Token     { return s.StartToken }
func (s *GotoStmt) FirstToken() *lexer.Token   { return s.StartToken }
func (s *GoSubStmt) FirstToken() *lexer.Token  { return s.StartToken }
func (s *ReturnStmt) FirstToken() *lexer.Token { return s.StartToken }
func (s *EndStmt) FirstToken() *lexer.Token    { return s.StartToken }
func (s *InputStmt) FirstToken() *lexer.Token  { return s.StartToken }

func (LetStmt) StmtNode()    {}
func (PrintStmt) StmtNode()  {}
func (IfStmt) StmtNode()     {}
func (GotoStmt) StmtNode()   {}
func (GoSubStmt) StmtNode()  {}
func (ReturnStmt) StmtNode() {}
func (EndStmt) StmtNode()    {}
func (InputStmt) StmtNode()  {}
