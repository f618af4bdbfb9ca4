package lexer

import (
	"fmt"
	"strings"
)

type TokenKind int

const (
	PLUS     TokenKind = iota // +
	MINUS                     // -
	MULTIPLY                  // *
	DIV                       // /

	REL_OP // <, <=, =, <>, ><, >, >=

	KEYWORD
	IDENTIFIER
	NUMBER
	STRING

	COMMA   // ,
	L_PAREN // (
	R_PAREN // )

	NEWLINE
)

// TokenKinds lists every kind in declaration order.
var TokenKinds = []TokenKind{
	PLUS, MINUS, MULTIPLY, DIV,
	REL_OP,
	KEYWORD, IDENTIFIER, NUMBER, STRING,
	COMMA, L_PAREN, R_PAREN,
	NEWLINE,
}

func (tk TokenKind) String() string {
	switch tk {
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case MULTIPLY:
		return "MULTIPLY"
	case DIV:
		return "DIV"
	case REL_OP:
		return "REL_OP"
	case KEYWORD:
		return "KEYWORD"
	case IDENTIFIER:
		return "IDENTIFIER"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case COMMA:
		return "COMMA"
	case L_PAREN:
		return "L_PAREN"
	case R_PAREN:
		return "R_PAREN"
	case NEWLINE:
		return "NEWLINE"
	default:
		panic(fmt.Sprintf("TokenKind.String(): received illegal token kind: %d", tk))
	}
}

// ParseTokenKind is the inverse of TokenKind.String, case-insensitive.
func ParseTokenKind(name string) (TokenKind, bool) {
	for _, kind := range TokenKinds {
		if strings.EqualFold(kind.String(), name) {
			return kind, true
		}
	}

	return 0, false
}

type Metadata struct {
	FileName string
	Line     int
	Column   int
	Length   int
}

type Token struct {
	Kind  TokenKind
	Value string

	Metadata Metadata
}

func (t *Token) hasActualValue() bool {
	switch t.Kind {
	case REL_OP, KEYWORD, IDENTIFIER, NUMBER, STRING:
		return true
	}

	return false
}

func (t *Token) String() string {
	if !t.hasActualValue() {
		return fmt.Sprintf("%s()", t.Kind)
	}

	return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
}
