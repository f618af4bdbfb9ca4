package lexer

import (
	"errors"
	"strings"
	"testing"
)

type expectedToken struct {
	kind  TokenKind
	value string
}

func tokenize(t *testing.T, src string, patterns *PatternTable) []Token {
	t.Helper()

	tokens, err := NewLexer("test", []byte(src), patterns).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return tokens
}

func assertTokens(t *testing.T, got []Token, expected []expectedToken) {
	t.Helper()

	if len(got) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(got), got)
	}

	for i, e := range expected {
		if got[i].Kind != e.kind || got[i].Value != e.value {
			t.Errorf("token %d: expected %s(%q), got %s(%q)", i, e.kind, e.value, got[i].Kind, got[i].Value)
		}
	}
}

var letProgram = []expectedToken{
	{NUMBER, "10"},
	{KEYWORD, "LET"},
	{IDENTIFIER, "N"},
	{REL_OP, "="},
	{NUMBER, "5"},
	{NEWLINE, "\n"},
	{NUMBER, "20"},
	{KEYWORD, "PRINT"},
	{IDENTIFIER, "N"},
}

func TestTokenizeLetPrint(t *testing.T) {
	tokens := tokenize(t, "10 LET N = 5\n20 PRINT N", nil)
	assertTokens(t, tokens, letProgram)
}

func TestTokenizeWithLoadedPatterns(t *testing.T) {
	patterns, err := LoadPatternsFile("testdata/tokens.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokens := tokenize(t, "10 LET N = 5\n20 PRINT N", patterns)
	assertTokens(t, tokens, letProgram)
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []expectedToken
	}{
		{
			name: "arithmetic",
			src:  "(A+1)*B/2-C",
			expected: []expectedToken{
				{L_PAREN, "("}, {IDENTIFIER, "A"}, {PLUS, "+"}, {NUMBER, "1"}, {R_PAREN, ")"},
				{MULTIPLY, "*"}, {IDENTIFIER, "B"}, {DIV, "/"}, {NUMBER, "2"},
				{MINUS, "-"}, {IDENTIFIER, "C"},
			},
		},
		{
			name: "relational operators",
			src:  "A<=B <> C >< D >= E",
			expected: []expectedToken{
				{IDENTIFIER, "A"}, {REL_OP, "<="}, {IDENTIFIER, "B"},
				{REL_OP, "<>"}, {IDENTIFIER, "C"},
				{REL_OP, "><"}, {IDENTIFIER, "D"},
				{REL_OP, ">="}, {IDENTIFIER, "E"},
			},
		},
		{
			name: "string keeps quotes",
			src:  `PRINT "HI, THERE", X`,
			expected: []expectedToken{
				{KEYWORD, "PRINT"}, {STRING, `"HI, THERE"`}, {COMMA, ","}, {IDENTIFIER, "X"},
			},
		},
		{
			name: "string ends at first quote",
			src:  `PRINT "\", "C:\DIR"`,
			expected: []expectedToken{
				{KEYWORD, "PRINT"}, {STRING, `"\"`}, {COMMA, ","}, {STRING, `"C:\DIR"`},
			},
		},
		{
			name: "lowercase keyword and identifier",
			src:  "let x",
			expected: []expectedToken{
				{KEYWORD, "let"}, {IDENTIFIER, "x"},
			},
		},
		{
			name: "tabs and carriage returns are skipped",
			src:  "10\tEND\r\n",
			expected: []expectedToken{
				{NUMBER, "10"}, {KEYWORD, "END"}, {NEWLINE, "\n"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tokenize(t, tt.src, nil), tt.expected)
		})
	}
}

func TestTokenPositions(t *testing.T) {
	tokens := tokenize(t, "10 LET N = 5\n20 PRINT N", nil)

	positions := [][2]int{
		{1, 1}, {1, 4}, {1, 8}, {1, 10}, {1, 12}, {1, 13},
		{2, 1}, {2, 4}, {2, 10},
	}
	for i, pos := range positions {
		if tokens[i].Metadata.Line != pos[0] || tokens[i].Metadata.Column != pos[1] {
			t.Errorf("token %d (%s): expected %d:%d, got %d:%d",
				i, tokens[i].String(), pos[0], pos[1], tokens[i].Metadata.Line, tokens[i].Metadata.Column)
		}
	}

	if tokens[1].Metadata.Length != 3 {
		t.Errorf("expected LET length 3, got %d", tokens[1].Metadata.Length)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		column  int
		message string
	}{
		{"stray symbol", "10 LET A = 1\n20 PRINT A # B", 2, 12, `unexpected character: "#"`},
		{"non ascii letter", "10 LET Ä = 1", 1, 8, "unexpected character"},
		{"unterminated string", "10 PRINT \"ABC\n20 END", 1, 10, "unterminated string literal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer("test", []byte(tt.src), nil).Tokenize()

			var lexErr *UnexpectedCharacterError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected UnexpectedCharacterError, got %v", err)
			}
			if lexErr.Line != tt.line || lexErr.Column != tt.column {
				t.Fatalf("expected position %d:%d, got %d:%d", tt.line, tt.column, lexErr.Line, lexErr.Column)
			}
			if !strings.HasPrefix(lexErr.GetMessage(), tt.message) {
				t.Fatalf("expected message starting with %q, got %q", tt.message, lexErr.GetMessage())
			}
		})
	}
}

func TestLoadPatternsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing separator", "NUMBER [0-9]+\n"},
		{"unknown kind", "FLOAT: [0-9]+\\.[0-9]+\n"},
		{"bad regex", "NUMBER: [0-9\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPatterns("inline", strings.NewReader(tt.input))

			var fileErr *PatternFileError
			if !errors.As(err, &fileErr) {
				t.Fatalf("expected PatternFileError, got %v", err)
			}
			if fileErr.LineNo != 1 {
				t.Fatalf("expected error on line 1, got %d", fileErr.LineNo)
			}
		})
	}
}

func TestLoadPatternsRequiresEveryKind(t *testing.T) {
	_, err := LoadPatterns("inline", strings.NewReader("NUMBER: [0-9]+\n"))

	var missing *MissingTokenPatternError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingTokenPatternError, got %v", err)
	}
	if missing.Kind != PLUS {
		t.Fatalf("expected first missing kind PLUS, got %s", missing.Kind)
	}
}

func TestTokenScanner(t *testing.T) {
	scanner := NewTokenScanner(tokenize(t, "10 END", nil))

	if scanner.Peek().Value != "10" {
		t.Fatalf("peek should not consume")
	}
	if scanner.Read().Value != "10" {
		t.Fatalf("expected 10")
	}
	scanner.Unread()
	scanner.Read()
	if scanner.Read().Value != "END" {
		t.Fatalf("expected END")
	}
	if scanner.HasTokens() || scanner.Read() != nil {
		t.Fatalf("expected exhausted scanner")
	}
}
