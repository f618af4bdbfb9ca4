package parser

import (
	"slices"
	"strconv"
	"strings"

	"github.com/kievzenit/tinybasic/internal/ast"
	"github.com/kievzenit/tinybasic/internal/lexer"
)

type Parser struct {
	fileName    string
	programName string

	scanner lexer.TokenScanner

	curr *lexer.Token
	last *lexer.Token
}

var factorStartKinds = []lexer.TokenKind{
	lexer.PLUS,
	lexer.MINUS,
	lexer.L_PAREN,
	lexer.NUMBER,
	lexer.IDENTIFIER,
}

func NewParser(fileName, programName string, scanner lexer.TokenScanner) *Parser {
	p := &Parser{
		fileName:    fileName,
		programName: programName,
		scanner:     scanner,
	}
	p.read()

	return p
}

// Parse builds the program from the whole token stream. Blank lines are skipped.
func (p *Parser) Parse() (*ast.Program, error) {
	lines := make([]*ast.Line, 0)

	for p.curr != nil {
		if p.curr.Kind == lexer.NEWLINE {
			p.read()
			continue
		}

		line, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return &ast.Program{
		Name:  p.programName,
		Lines: lines,
	}, nil
}

func (p *Parser) parseLine() (*ast.Line, error) {
	startToken := p.curr

	number, err := p.parseLineNumber()
	if err != nil {
		return nil, err
	}

	stmt, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	if p.curr != nil {
		if err := p.expect(lexer.NEWLINE); err != nil {
			return nil, err
		}
		p.read()
	}

	return &ast.Line{
		StartToken: startToken,

		Number: number,
		Stmt:   stmt,
	}, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	if err := p.expect(lexer.KEYWORD); err != nil {
		return nil, err
	}

	switch strings.ToUpper(p.curr.Value) {
	case "LET":
		return p.parseLetStmt()
	case "PRINT":
		return p.parsePrintStmt()
	case "IF":
		return p.parseIfStmt()
	case "GOTO":
		return p.parseGotoStmt()
	case "GOSUB":
		return p.parseGoSubStmt()
	case "RETURN":
		startToken := p.curr
		p.read()
		return &ast.ReturnStmt{StartToken: startToken}, nil
	case "END":
		startToken := p.curr
		p.read()
		return &ast.EndStmt{StartToken: startToken}, nil
	case "INPUT":
		return p.parseInputStmt()
	}

	return nil, &UnrecognisedCommandError{
		Position: positionOf(p.fileName, p.curr),
		Command:  p.curr.Value,
	}
}

func (p *Parser) parseLetStmt() (*ast.LetStmt, error) {
	startToken := p.curr
	p.read()

	target, err := p.parseIdentExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expectValue(lexer.REL_OP, "="); err != nil {
		return nil, err
	}
	p.read()

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.LetStmt{
		StartToken: startToken,

		Target: target,
		Value:  value,
	}, nil
}

func (p *Parser) parsePrintStmt() (*ast.PrintStmt, error) {
	startToken := p.curr
	p.read()

	items := make([]ast.Expr, 0)
	for {
		item, err := p.parsePrintItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if p.curr == nil || p.curr.Kind != lexer.COMMA {
			break
		}
		p.read()
	}

	return &ast.PrintStmt{
		StartToken: startToken,

		Items: items,
	}, nil
}

func (p *Parser) parsePrintItem() (ast.Expr, error) {
	if p.curr != nil && p.curr.Kind == lexer.STRING {
		return p.parseStringExpr(), nil
	}

	return p.parseExpr()
}

func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	startToken := p.curr
	p.read()

	cond, err := p.parseRelationalExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expectValue(lexer.KEYWORD, "THEN"); err != nil {
		return nil, err
	}
	p.read()

	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	return &ast.IfStmt{
		StartToken: startToken,

		Cond: cond,
		Then: then,
	}, nil
}

func (p *Parser) parseGotoStmt() (*ast.GotoStmt, error) {
	startToken := p.curr
	p.read()

	target, err := p.parseLineNumber()
	if err != nil {
		return nil, err
	}

	return &ast.GotoStmt{
		StartToken: startToken,

		Target: target,
	}, nil
}

func (p *Parser) parseGoSubStmt() (*ast.GoSubStmt, error) {
	startToken := p.curr
	p.read()

	target, err := p.parseLineNumber()
	if err != nil {
		return nil, err
	}

	return &ast.GoSubStmt{
		StartToken: startToken,

		Target: target,
	}, nil
}

func (p *Parser) parseInputStmt() (*ast.InputStmt, error) {
	startToken := p.curr
	p.read()

	targets := make([]*ast.IdentExpr, 0)
	for {
		target, err := p.parseIdentExpr()
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)

		if p.curr == nil || p.curr.Kind != lexer.COMMA {
			break
		}
		p.read()
	}

	return &ast.InputStmt{
		StartToken: startToken,

		Targets: targets,
	}, nil
}

func (p *Parser) parseRelationalExpr() (*ast.RelationalExpr, error) {
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expect(lexer.REL_OP); err != nil {
		return nil, err
	}
	op, ok := ast.RelationalOpFromSymbol(p.curr.Value)
	if !ok {
		return nil, &UnexpectedTokenValueError{
			Position: positionOf(p.fileName, p.curr),
			Kind:     p.curr.Kind,
			Value:    p.curr.Value,
			Expected: "one of <, <=, =, <>, >, >=",
		}
	}
	p.read()

	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.RelationalExpr{
		StartToken: left.FirstToken(),

		Op:    op,
		Left:  left,
		Right: right,
	}, nil
}

// parseExpr parses Term (('+'|'-') Term)*.
func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.curr != nil && p.isCurrAny(lexer.PLUS, lexer.MINUS) {
		op := ast.Add
		if p.curr.Kind == lexer.MINUS {
			op = ast.Sub
		}
		p.read()

		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		left = &ast.ArithmeticExpr{
			StartToken: left.FirstToken(),

			Op:    op,
			Left:  left,
			Right: right,
		}
	}

	return left, nil
}

// parseTerm parses Factor (('*'|'/') Factor)*.
func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.curr != nil && p.isCurrAny(lexer.MULTIPLY, lexer.DIV) {
		op := ast.Mul
		if p.curr.Kind == lexer.DIV {
			op = ast.Div
		}
		p.read()

		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		left = &ast.ArithmeticExpr{
			StartToken: left.FirstToken(),

			Op:    op,
			Left:  left,
			Right: right,
		}
	}

	return left, nil
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	if err := p.expectAny(factorStartKinds...); err != nil {
		return nil, err
	}

	switch p.curr.Kind {
	case lexer.PLUS, lexer.MINUS:
		startToken := p.curr
		op := ast.UnaryPlus
		if p.curr.Kind == lexer.MINUS {
			op = ast.UnaryMinus
		}
		p.read()

		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		return &ast.UnaryExpr{
			StartToken: startToken,

			Op:      op,
			Operand: operand,
		}, nil

	case lexer.L_PAREN:
		p.read()

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if err := p.expect(lexer.R_PAREN); err != nil {
			return nil, err
		}
		p.read()

		return expr, nil

	case lexer.NUMBER:
		return p.parseNumberExpr()

	default:
		return p.parseIdentExpr()
	}
}

func (p *Parser) parseNumberExpr() (*ast.NumberExpr, error) {
	if err := p.expect(lexer.NUMBER); err != nil {
		return nil, err
	}

	value, err := strconv.ParseInt(p.curr.Value, 10, 64)
	if err != nil {
		return nil, &UnexpectedTokenValueError{
			Position: positionOf(p.fileName, p.curr),
			Kind:     p.curr.Kind,
			Value:    p.curr.Value,
			Expected: "a 64-bit integer",
		}
	}

	startToken := p.curr
	p.read()

	return &ast.NumberExpr{
		StartToken: startToken,

		Value: value,
	}, nil
}

func (p *Parser) parseLineNumber() (int, error) {
	if err := p.expect(lexer.NUMBER); err != nil {
		return 0, err
	}

	number, err := strconv.Atoi(p.curr.Value)
	if err != nil {
		return 0, &UnexpectedTokenValueError{
			Position: positionOf(p.fileName, p.curr),
			Kind:     p.curr.Kind,
			Value:    p.curr.Value,
			Expected: "a line number",
		}
	}
	p.read()

	return number, nil
}

func (p *Parser) parseIdentExpr() (*ast.IdentExpr, error) {
	if err := p.expect(lexer.IDENTIFIER); err != nil {
		return nil, err
	}

	if !isVariableName(p.curr.Value) {
		return nil, &UnexpectedTokenValueError{
			Position: positionOf(p.fileName, p.curr),
			Kind:     p.curr.Kind,
			Value:    p.curr.Value,
			Expected: "a single letter A-Z",
		}
	}

	startToken := p.curr
	p.read()

	return &ast.IdentExpr{
		StartToken: startToken,

		Name: strings.ToUpper(startToken.Value)[0],
	}, nil
}

func isVariableName(name string) bool {
	if len(name) != 1 {
		return false
	}

	c := name[0]
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

func (p *Parser) parseStringExpr() *ast.StringExpr {
	startToken := p.curr
	p.read()

	return &ast.StringExpr{
		StartToken: startToken,

		Value: strings.TrimSuffix(strings.TrimPrefix(startToken.Value, `"`), `"`),
	}
}

func (p *Parser) read() *lexer.Token {
	if p.curr != nil {
		p.last = p.curr
	}
	p.curr = p.scanner.Read()
	return p.curr
}

func (p *Parser) expect(kind lexer.TokenKind) error {
	return p.expectAny(kind)
}

func (p *Parser) expectAny(kinds ...lexer.TokenKind) error {
	if p.curr == nil {
		return p.endOfInput(kinds)
	}

	if p.isCurrAny(kinds...) {
		return nil
	}

	return &UnexpectedTokenTypeError{
		Position:   positionOf(p.fileName, p.curr),
		Unexpected: p.curr.Kind,
		Value:      p.curr.Value,
		Expected:   kinds,
	}
}

// expectValue checks both kind and, case-insensitively, the token text.
func (p *Parser) expectValue(kind lexer.TokenKind, value string) error {
	if err := p.expect(kind); err != nil {
		return err
	}

	if !strings.EqualFold(p.curr.Value, value) {
		return &UnexpectedTokenValueError{
			Position: positionOf(p.fileName, p.curr),
			Kind:     p.curr.Kind,
			Value:    p.curr.Value,
			Expected: "'" + value + "'",
		}
	}

	return nil
}

func (p *Parser) isCurrAny(kinds ...lexer.TokenKind) bool {
	return slices.Contains(kinds, p.curr.Kind)
}

func (p *Parser) endOfInput(expected []lexer.TokenKind) error {
	pos := Position{FileName: p.fileName, Line: 1, Column: 1}
	if p.last != nil {
		pos.Line = p.last.Metadata.Line
		pos.Column = p.last.Metadata.Column + p.last.Metadata.Length
	}

	return &UnexpectedEndOfInputError{
		Position: pos,
		Expected: expected,
	}
}

// Parse is a shorthand for parsing an already tokenized source.
func Parse(fileName, programName string, tokens []lexer.Token) (*ast.Program, error) {
	return NewParser(fileName, programName, lexer.NewTokenScanner(tokens)).Parse()
}
