package lexer

type TokenScanner interface {
	HasTokens() bool
	Read() *Token
	Peek() *Token
	Unread()
}

type SimpleTokenScanner struct {
	tokens []Token

	pos int
}

func NewTokenScanner(tokens []Token) TokenScanner {
	return &SimpleTokenScanner{
		tokens: tokens,
	}
}

func (s *SimpleTokenScanner) HasTokens() bool {
	return s.pos < len(s.tokens)
}

// Read returns the next token and advances, or nil when the stream is exhausted.
func (s *SimpleTokenScanner) Read() *Token {
	if !s.HasTokens() {
		return nil
	}

	token := &s.tokens[s.pos]
	s.pos++

	return token
}

func (s *SimpleTokenScanner) Peek() *Token {
	if !s.HasTokens() {
		return nil
	}

	return &s.tokens[s.pos]
}

func (s *SimpleTokenScanner) Unread() {
	if s.pos > 0 {
		s.pos--
	}
}
