package lexer

import (
	"fmt"
)

type UnexpectedCharacterError struct {
	Char    byte
	Message string

	FileName string
	Line     int
	Column   int
}

func newUnexpectedCharacterError(fileName string, char byte, line, col int) *UnexpectedCharacterError {
	return &UnexpectedCharacterError{
		Char:     char,
		Message:  fmt.Sprintf("unexpected character: %q", string(char)),
		FileName: fileName,
		Line:     line,
		Column:   col,
	}
}

func newUnterminatedStringError(fileName string, line, col int) *UnexpectedCharacterError {
	return &UnexpectedCharacterError{
		Char:     '"',
		Message:  "unterminated string literal",
		FileName: fileName,
		Line:     line,
		Column:   col,
	}
}

func (e *UnexpectedCharacterError) GetMessage() string {
	return e.Message
}

func (e *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func (e *UnexpectedCharacterError) GetFileName() string {
	return e.FileName
}

func (e *UnexpectedCharacterError) GetLine() int {
	return e.Line
}

func (e *UnexpectedCharacterError) GetColumn() int {
	return e.Column
}

type Lexer struct {
	fileName string
	src      string
	pos      int

	line, col int

	patterns *PatternTable
}

// NewLexer creates a lexer over buf. A nil pattern table selects DefaultPatterns.
func NewLexer(fileName string, buf []byte, patterns *PatternTable) *Lexer {
	if patterns == nil {
		patterns = DefaultPatterns()
	}

	return &Lexer{
		fileName: fileName,
		src:      string(buf),
		pos:      0,

		line: 1,
		col:  1,

		patterns: patterns,
	}
}

func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0)

	for l.hasChars() {
		if isHorizontalSpace(l.read()) {
			l.advance(1)
			continue
		}

		kind, length, ok := l.patterns.Longest(l.src[l.pos:])
		if !ok {
			if l.read() == '"' {
				return nil, newUnterminatedStringError(l.fileName, l.line, l.col)
			}
			return nil, newUnexpectedCharacterError(l.fileName, l.read(), l.line, l.col)
		}

		tokens = append(tokens, Token{
			Kind:  kind,
			Value: l.src[l.pos : l.pos+length],
			Metadata: Metadata{
				FileName: l.fileName,
				Line:     l.line,
				Column:   l.col,
				Length:   length,
			},
		})

		l.advance(length)
	}

	return tokens, nil
}

func (l *Lexer) hasChars() bool {
	return l.pos < len(l.src)
}

func (l *Lexer) read() byte {
	return l.src[l.pos]
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.read() == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}
