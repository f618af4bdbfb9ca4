package optimizer

import (
	"errors"
	"testing"

	"github.com/kievzenit/tinybasic/internal/ast"
	"github.com/kievzenit/tinybasic/internal/lexer"
	"github.com/kievzenit/tinybasic/internal/parser"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()

	tokens, err := lexer.NewLexer("test.bas", []byte("10 LET Z = "+src), nil).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}

	program, err := parser.Parse("test.bas", "test", tokens)
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}

	return program.Lines[0].Stmt.(*ast.LetStmt).Value
}

func TestFoldLiteralArithmetic(t *testing.T) {
	tests := []struct {
		src      string
		expected int64
	}{
		{"(6*6)+((6-1)*10)", 86},
		{"1 + 2 * 3", 7},
		{"7 / 2", 3},
		{"-7 / 2", -3},
		{"7 / -2", -3},
		{"-(2 - 5)", 3},
		{"+4", 4},
		{"--4", 4},
		{"100 - 10 - 1", 89},
		{"2 * (3 + 4) / 7", 2},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			folded, err := FoldExpr(parseExpr(t, tt.src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			number, ok := folded.(*ast.NumberExpr)
			if !ok {
				t.Fatalf("expected a number, got %s", ast.ExprString(folded))
			}
			if number.Value != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, number.Value)
			}
		})
	}
}

func TestFoldPartial(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{"A + 2 * 3", "(A + 6)"},
		{"(1 + 1) * A - (4 / 2)", "((2 * A) - 2)"},
		{"-A", "-A"},
		{"-(3 * 3) + A", "(-9 + A)"},
		{"A", "A"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			folded, err := FoldExpr(parseExpr(t, tt.src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ast.ExprString(folded); got != tt.expected {
				t.Fatalf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestFoldIsIdempotent(t *testing.T) {
	sources := []string{
		"(6*6)+((6-1)*10)",
		"A * (2 + 3) - B / (1 - 0)",
		"-(-(A))",
		"1",
	}

	for _, src := range sources {
		once, err := FoldExpr(parseExpr(t, src))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", src, err)
		}

		twice, err := FoldExpr(once)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", src, err)
		}

		if ast.Dump(once) != ast.Dump(twice) {
			t.Fatalf("%s: folding is not idempotent:\n%s\n%s", src, ast.Dump(once), ast.Dump(twice))
		}
	}
}

func TestFoldDivisionByZero(t *testing.T) {
	_, err := FoldExpr(parseExpr(t, "1 + 4 / (2 - 2)"))

	var divErr *DivisionByZeroError
	if !errors.As(err, &divErr) {
		t.Fatalf("expected DivisionByZeroError, got %v", err)
	}
	if divErr.Line != 1 || divErr.Column != 16 {
		t.Fatalf("expected position 1:16, got %d:%d", divErr.Line, divErr.Column)
	}
	if divErr.FileName != "test.bas" {
		t.Fatalf("expected file name test.bas, got %q", divErr.FileName)
	}
}

func TestFoldDivisionByVariableZeroIsLeftAlone(t *testing.T) {
	folded, err := FoldExpr(parseExpr(t, "4 / A"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ast.ExprString(folded) != "(4 / A)" {
		t.Fatalf("unexpected fold: %s", ast.ExprString(folded))
	}
}

func TestFoldProgramLeavesInputUntouched(t *testing.T) {
	tokens, err := lexer.NewLexer("test.bas", []byte("10 LET A = 2 * 3\n20 IF A > 1 + 1 THEN PRINT \"X\", 3 - 1\n30 END"), nil).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	program, err := parser.Parse("test.bas", "test", tokens)
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}
	before := ast.Dump(program)

	folded, err := FoldProgram(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ast.Dump(program) != before {
		t.Fatalf("input program was modified")
	}

	expected := []string{
		"LET A = 6",
		`IF A > 2 THEN PRINT "X", 2`,
		"END",
	}
	for i, line := range folded.Lines {
		if got := ast.StmtString(line.Stmt); got != expected[i] {
			t.Errorf("line %d: expected %s, got %s", line.Number, expected[i], got)
		}
	}
}
