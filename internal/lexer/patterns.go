package lexer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Matcher reports how many leading bytes of src belong to a token, 0 for no match.
type Matcher func(src string) int

type Pattern struct {
	Kind  TokenKind
	Match Matcher
}

// PatternTable is an ordered list of recognition rules. On equal match
// lengths the earlier pattern wins.
type PatternTable struct {
	patterns []Pattern
}

func NewPatternTable(patterns ...Pattern) *PatternTable {
	return &PatternTable{patterns: patterns}
}

func (pt *PatternTable) Patterns() []Pattern {
	return pt.patterns
}

// Longest returns the kind and length of the longest match at the start of src.
func (pt *PatternTable) Longest(src string) (TokenKind, int, bool) {
	var (
		bestKind TokenKind
		bestLen  int
	)

	for _, pattern := range pt.patterns {
		n := pattern.Match(src)
		if n > bestLen {
			bestKind, bestLen = pattern.Kind, n
		}
	}

	return bestKind, bestLen, bestLen > 0
}

func DefaultPatterns() *PatternTable {
	return NewPatternTable(
		Pattern{NEWLINE, literal("\n")},
		Pattern{NUMBER, run(isDigit)},
		Pattern{KEYWORD, minRun(isLetter, 2)},
		Pattern{IDENTIFIER, single(isLetter)},
		Pattern{STRING, matchString},
		Pattern{REL_OP, run(isRelChar)},
		Pattern{PLUS, literal("+")},
		Pattern{MINUS, literal("-")},
		Pattern{MULTIPLY, literal("*")},
		Pattern{DIV, literal("/")},
		Pattern{COMMA, literal(",")},
		Pattern{L_PAREN, literal("(")},
		Pattern{R_PAREN, literal(")")},
	)
}

func literal(text string) Matcher {
	return func(src string) int {
		if strings.HasPrefix(src, text) {
			return len(text)
		}
		return 0
	}
}

func run(accept func(byte) bool) Matcher {
	return minRun(accept, 1)
}

func minRun(accept func(byte) bool, least int) Matcher {
	return func(src string) int {
		n := 0
		for n < len(src) && accept(src[n]) {
			n++
		}

		if n < least {
			return 0
		}
		return n
	}
}

func single(accept func(byte) bool) Matcher {
	return func(src string) int {
		if len(src) > 0 && accept(src[0]) {
			return 1
		}
		return 0
	}
}

// matchString accepts a double-quoted literal on a single line. The literal
// ends at the first closing quote.
func matchString(src string) int {
	if len(src) == 0 || src[0] != '"' {
		return 0
	}

	for i := 1; i < len(src); i++ {
		switch src[i] {
		case '\n':
			return 0
		case '"':
			return i + 1
		}
	}

	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isRelChar(c byte) bool {
	return c == '<' || c == '>' || c == '='
}

func isHorizontalSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}

type PatternFileError struct {
	Source  string
	LineNo  int
	Message string
}

func (e *PatternFileError) GetMessage() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.LineNo, e.Message)
}

func (e *PatternFileError) Error() string {
	return e.GetMessage()
}

type MissingTokenPatternError struct {
	Source string
	Kind   TokenKind
}

func (e *MissingTokenPatternError) GetMessage() string {
	return fmt.Sprintf("%s: no pattern defined for token kind %s", e.Source, e.Kind)
}

func (e *MissingTokenPatternError) Error() string {
	return e.GetMessage()
}

// LoadPatternsFile reads a pattern table from path, see LoadPatterns.
func LoadPatternsFile(path string) (*PatternTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pattern file: %w", err)
	}
	defer file.Close()

	return LoadPatterns(path, file)
}

// LoadPatterns parses lines of the form "KIND: REGEX". Blank lines and lines
// starting with '#' are ignored. Every token kind must be defined.
func LoadPatterns(source string, r io.Reader) (*PatternTable, error) {
	table := NewPatternTable()
	defined := make(map[TokenKind]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, expr, found := strings.Cut(line, ":")
		if !found {
			return nil, &PatternFileError{source, lineNo, "expected 'KIND: REGEX'"}
		}

		kind, ok := ParseTokenKind(strings.TrimSpace(name))
		if !ok {
			return nil, &PatternFileError{source, lineNo, fmt.Sprintf("unknown token kind '%s'", strings.TrimSpace(name))}
		}

		expr = strings.TrimSpace(expr)
		if expr == "" {
			return nil, &PatternFileError{source, lineNo, fmt.Sprintf("empty pattern for %s", kind)}
		}

		re, err := regexp.Compile(`^(?:` + expr + `)`)
		if err != nil {
			return nil, &PatternFileError{source, lineNo, err.Error()}
		}

		table.patterns = append(table.patterns, Pattern{kind, regexMatcher(re)})
		defined[kind] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}

	for _, kind := range TokenKinds {
		if !defined[kind] {
			return nil, &MissingTokenPatternError{source, kind}
		}
	}

	return table, nil
}

func regexMatcher(re *regexp.Regexp) Matcher {
	return func(src string) int {
		loc := re.FindStringIndex(src)
		if loc == nil {
			return 0
		}
		return loc[1]
	}
}
