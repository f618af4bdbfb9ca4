package parser

import (
	"fmt"
	"strings"

	"github.com/kievzenit/tinybasic/internal/lexer"
)

type Position struct {
	FileName string
	Line     int
	Column   int
	Length   int
}

func positionOf(fileName string, token *lexer.Token) Position {
	return Position{
		FileName: fileName,
		Line:     token.Metadata.Line,
		Column:   token.Metadata.Column,
		Length:   token.Metadata.Length,
	}
}

func (p Position) GetFileName() string {
	return p.FileName
}

func (p Position) GetLine() int {
	return p.Line
}

func (p Position) GetColumn() int {
	return p.Column
}

func (p Position) GetLength() int {
	return p.Length
}

func kindNames(kinds []lexer.TokenKind) string {
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = kind.String()
	}
	return strings.Join(names, ", ")
}

type UnexpectedTokenTypeError struct {
	Position

	Unexpected lexer.TokenKind
	Value      string
	Expected   []lexer.TokenKind
}

func (e *UnexpectedTokenTypeError) GetMessage() string {
	if len(e.Expected) == 1 {
		return fmt.Sprintf("unexpected token: '%s', expected: '%s'", e.Unexpected, e.Expected[0])
	}
	return fmt.Sprintf("unexpected token: '%s', expected one of: '%s'", e.Unexpected, kindNames(e.Expected))
}

func (e *UnexpectedTokenTypeError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.GetMessage())
}

type UnexpectedTokenValueError struct {
	Position

	Kind     lexer.TokenKind
	Value    string
	Expected string
}

func (e *UnexpectedTokenValueError) GetMessage() string {
	return fmt.Sprintf("unexpected %s '%s', expected: %s", e.Kind, e.Value, e.Expected)
}

func (e *UnexpectedTokenValueError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.GetMessage())
}

type UnrecognisedCommandError struct {
	Position

	Command string
}

func (e *UnrecognisedCommandError) GetMessage() string {
	return fmt.Sprintf("unrecognised command: '%s'", e.Command)
}

func (e *UnrecognisedCommandError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.GetMessage())
}

type UnexpectedEndOfInputError struct {
	Position

	Expected []lexer.TokenKind
}

func (e *UnexpectedEndOfInputError) GetMessage() string {
	return fmt.Sprintf("unexpected end of input, expected: '%s'", kindNames(e.Expected))
}

func (e *UnexpectedEndOfInputError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.GetMessage())
}
