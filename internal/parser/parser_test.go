package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/kievzenit/tinybasic/internal/ast"
	"github.com/kievzenit/tinybasic/internal/lexer"
)

func parse(src string) (*ast.Program, error) {
	tokens, err := lexer.NewLexer("test.bas", []byte(src), nil).Tokenize()
	if err != nil {
		return nil, err
	}

	return Parse("test.bas", "test", tokens)
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()

	program, err := parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return program
}

func num(v int64) *ast.NumberExpr { return &ast.NumberExpr{Value: v} }
func ident(c byte) *ast.IdentExpr { return &ast.IdentExpr{Name: c} }
func arith(op ast.ArithmeticOp, l, r ast.Expr) *ast.ArithmeticExpr {
	return &ast.ArithmeticExpr{Op: op, Left: l, Right: r}
}

func assertAST(t *testing.T, got, expected any) {
	t.Helper()

	if ast.Dump(got) != ast.Dump(expected) {
		t.Fatalf("unexpected tree:\n%s\nexpected:\n%s", ast.Dump(got), ast.Dump(expected))
	}
}

func TestParseProgram(t *testing.T) {
	program := mustParse(t, "10 LET B = 6\n20 PRINT B*B + (B-1)*10\n30 IF B > B THEN END\n40 END\n")

	expected := &ast.Program{
		Name: "test",
		Lines: []*ast.Line{
			{Number: 10, Stmt: &ast.LetStmt{Target: ident('B'), Value: num(6)}},
			{Number: 20, Stmt: &ast.PrintStmt{Items: []ast.Expr{
				arith(ast.Add,
					arith(ast.Mul, ident('B'), ident('B')),
					arith(ast.Mul, arith(ast.Sub, ident('B'), num(1)), num(10))),
			}}},
			{Number: 30, Stmt: &ast.IfStmt{
				Cond: &ast.RelationalExpr{Op: ast.Greater, Left: ident('B'), Right: ident('B')},
				Then: &ast.EndStmt{},
			}},
			{Number: 40, Stmt: &ast.EndStmt{}},
		},
	}

	assertAST(t, program, expected)
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected ast.Stmt
	}{
		{
			name:     "goto",
			src:      "10 GOTO 50",
			expected: &ast.GotoStmt{Target: 50},
		},
		{
			name:     "gosub and lowercase keyword",
			src:      "10 gosub 100",
			expected: &ast.GoSubStmt{Target: 100},
		},
		{
			name:     "return",
			src:      "10 RETURN",
			expected: &ast.ReturnStmt{},
		},
		{
			name:     "input list with lowercase identifier",
			src:      "10 INPUT a, B",
			expected: &ast.InputStmt{Targets: []*ast.IdentExpr{ident('A'), ident('B')}},
		},
		{
			name: "compound print",
			src:  `10 PRINT "X=", X, "\n"`,
			expected: &ast.PrintStmt{Items: []ast.Expr{
				&ast.StringExpr{Value: "X="}, ident('X'), &ast.StringExpr{Value: `\n`},
			}},
		},
		{
			name: "unary operators nest",
			src:  "10 LET A = -+-3",
			expected: &ast.LetStmt{Target: ident('A'), Value: &ast.UnaryExpr{
				Op: ast.UnaryMinus,
				Operand: &ast.UnaryExpr{
					Op:      ast.UnaryPlus,
					Operand: &ast.UnaryExpr{Op: ast.UnaryMinus, Operand: num(3)},
				},
			}},
		},
		{
			name: "left associativity",
			src:  "10 LET A = 8 - 4 - 2 / 2 / 1",
			expected: &ast.LetStmt{Target: ident('A'), Value: arith(ast.Sub,
				arith(ast.Sub, num(8), num(4)),
				arith(ast.Div, arith(ast.Div, num(2), num(2)), num(1)),
			)},
		},
		{
			name: "if with not equal spelled backwards",
			src:  "10 IF A >< 1 THEN GOTO 10",
			expected: &ast.IfStmt{
				Cond: &ast.RelationalExpr{Op: ast.NotEqual, Left: ident('A'), Right: num(1)},
				Then: &ast.GotoStmt{Target: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := mustParse(t, tt.src)
			if len(program.Lines) != 1 {
				t.Fatalf("expected one line, got %d", len(program.Lines))
			}
			assertAST(t, program.Lines[0].Stmt, tt.expected)
		})
	}
}

func TestParseSkipsBlankLines(t *testing.T) {
	program := mustParse(t, "\n10 END\n\n\n20 END\n")

	if len(program.Lines) != 2 || program.Lines[1].Number != 20 {
		t.Fatalf("unexpected lines: %s", ast.Dump(program.Lines))
	}
}

func TestParseKeepsTokenPositions(t *testing.T) {
	program := mustParse(t, "10 END\n20 LET A = 1")

	let := program.Lines[1].Stmt.(*ast.LetStmt)
	if let.FirstToken().Metadata.Line != 2 || let.FirstToken().Metadata.Column != 4 {
		t.Fatalf("unexpected LET position: %+v", let.FirstToken().Metadata)
	}
	if let.Target.FirstToken().Metadata.Column != 8 {
		t.Fatalf("unexpected identifier position: %+v", let.Target.FirstToken().Metadata)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target any
		line   int
		column int
	}{
		{"missing line number", "LET A = 1", new(*UnexpectedTokenTypeError), 1, 1},
		{"unknown command", "10 PRINTX", new(*UnrecognisedCommandError), 1, 4},
		{"let without equals", "10 LET A < 1", new(*UnexpectedTokenValueError), 1, 10},
		{"if without then", "10 IF A = 1 GOTO 10", new(*UnexpectedTokenValueError), 1, 13},
		{"goto expression", "10 GOTO A", new(*UnexpectedTokenTypeError), 1, 9},
		{"bad relational operator", "10 IF A => 1 THEN END", new(*UnexpectedTokenValueError), 1, 9},
		{"trailing tokens", "10 END END", new(*UnexpectedTokenTypeError), 1, 8},
		{"unclosed paren", "10 LET A = (1 + 2", new(*UnexpectedEndOfInputError), 1, 18},
		{"dangling operator", "10 LET A = 1 +\n20 END", new(*UnexpectedTokenTypeError), 1, 15},
		{"missing statement", "10", new(*UnexpectedEndOfInputError), 1, 3},
		{"number overflow", "10 LET A = 99999999999999999999", new(*UnexpectedTokenValueError), 1, 12},
		{"print without items", "10 PRINT", new(*UnexpectedEndOfInputError), 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.src)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.As(err, tt.target) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}

			positioned, ok := err.(interface {
				GetLine() int
				GetColumn() int
			})
			if !ok {
				t.Fatalf("error %T carries no position", err)
			}
			if positioned.GetLine() != tt.line || positioned.GetColumn() != tt.column {
				t.Fatalf("expected position %d:%d, got %d:%d (%v)",
					tt.line, tt.column, positioned.GetLine(), positioned.GetColumn(), err)
			}
		})
	}
}

func TestParseRejectsNonLetterIdentifiers(t *testing.T) {
	patterns, err := lexer.LoadPatterns("identifiers.txt", strings.NewReader(
		"NEWLINE: \\n\n"+
			"NUMBER: [0-9]+\n"+
			"KEYWORD: [A-Za-z][A-Za-z]+\n"+
			"IDENTIFIER: [A-Za-z_]\n"+
			"STRING: \"[^\"\\n]*\"\n"+
			"REL_OP: [<>=]+\n"+
			"PLUS: \\+\n"+
			"MINUS: -\n"+
			"MULTIPLY: \\*\n"+
			"DIV: /\n"+
			"COMMA: ,\n"+
			"L_PAREN: \\(\n"+
			"R_PAREN: \\)\n",
	))
	if err != nil {
		t.Fatalf("unexpected pattern error: %v", err)
	}

	tests := []struct {
		name   string
		src    string
		column int
	}{
		{"let target", "10 LET _ = 1\n20 END", 8},
		{"operand", "10 LET A = _ + 1\n20 END", 12},
		{"input target", "10 INPUT A, _\n20 END", 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lexer.NewLexer("test.bas", []byte(tt.src), patterns).Tokenize()
			if err != nil {
				t.Fatalf("unexpected lexer error: %v", err)
			}

			_, err = Parse("test.bas", "test", tokens)

			var valueErr *UnexpectedTokenValueError
			if !errors.As(err, &valueErr) {
				t.Fatalf("expected UnexpectedTokenValueError, got %v", err)
			}
			if valueErr.Value != "_" || valueErr.Line != 1 || valueErr.Column != tt.column {
				t.Fatalf("unexpected error: %v", valueErr)
			}
		})
	}
}

func TestPrintCompound(t *testing.T) {
	program := mustParse(t, "10 PRINT A\n20 PRINT \"A=\", A")

	if program.Lines[0].Stmt.(*ast.PrintStmt).IsCompound() {
		t.Fatalf("single item print should be simple")
	}
	if !program.Lines[1].Stmt.(*ast.PrintStmt).IsCompound() {
		t.Fatalf("two item print should be compound")
	}
}
