package graph

import (
	"testing"

	"github.com/kievzenit/tinybasic/internal/lexer"
	"github.com/kievzenit/tinybasic/internal/parser"
)

func TestBuildDOT(t *testing.T) {
	tokens, err := lexer.NewLexer("test.bas", []byte("10 LET A = -1 + B\n20 PRINT \"A\", A\n30 IF A < 2 THEN GOTO 10"), nil).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	program, err := parser.Parse("test.bas", "demo", tokens)
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}

	expected := `digraph "demo" {
	N0 [label="Program demo"]
	N1 [label="Line 10"]
	N2 [label="LET"]
	N3 [label="Identifier A"]
	N4 [label="Arithmetic +"]
	N5 [label="Unary -"]
	N6 [label="Number 1"]
	N7 [label="Identifier B"]
	N8 [label="Line 20"]
	N9 [label="PRINT"]
	N10 [label="String \"A\""]
	N11 [label="Identifier A"]
	N12 [label="Line 30"]
	N13 [label="IF"]
	N14 [label="Relational <"]
	N15 [label="Identifier A"]
	N16 [label="Number 2"]
	N17 [label="GOTO 10"]
	N0 -> N1
	N0 -> N8
	N0 -> N12
	N1 -> N2
	N2 -> N3
	N2 -> N4
	N4 -> N5
	N4 -> N7
	N5 -> N6
	N8 -> N9
	N9 -> N10
	N9 -> N11
	N12 -> N13
	N13 -> N14
	N13 -> N17
	N14 -> N15
	N14 -> N16
}
`

	if got := Build(program).String(); got != expected {
		t.Fatalf("unexpected graph:\n%s\nexpected:\n%s", got, expected)
	}
}

func TestIdenticalSubtreesGetDistinctNodes(t *testing.T) {
	tokens, err := lexer.NewLexer("test.bas", []byte("10 PRINT 1, 1"), nil).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	program, err := parser.Parse("test.bas", "p", tokens)
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}

	g := Build(program)
	printNode := g.Nodes[2]
	if len(printNode.Children) != 2 || printNode.Children[0] == printNode.Children[1] {
		t.Fatalf("expected two distinct children, got %v", printNode.Children)
	}
}
