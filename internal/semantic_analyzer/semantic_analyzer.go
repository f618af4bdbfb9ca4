package semantic_analyzer

import (
	"fmt"

	"github.com/kievzenit/tinybasic/internal/ast"
	"github.com/kievzenit/tinybasic/internal/lexer"
)

type SemanticErrorKind int

const (
	DuplicateLineNumber SemanticErrorKind = iota
	DisorderedLineNumbers
	InvalidLineNumber
	UndeclaredVariable
	InvalidBranchTarget
	UnbalancedGoSub
	MissingEnd
)

func (k SemanticErrorKind) String() string {
	switch k {
	case DuplicateLineNumber:
		return "DuplicateLineNumber"
	case DisorderedLineNumbers:
		return "DisorderedLineNumbers"
	case InvalidLineNumber:
		return "InvalidLineNumber"
	case UndeclaredVariable:
		return "UndeclaredVariable"
	case InvalidBranchTarget:
		return "InvalidBranchTarget"
	case UnbalancedGoSub:
		return "UnbalancedGoSub"
	case MissingEnd:
		return "MissingEnd"
	default:
		panic(fmt.Sprintf("SemanticErrorKind.String(): received illegal kind: %d", k))
	}
}

type SemanticError struct {
	Kind    SemanticErrorKind
	message string

	// LineNumber is the BASIC line the error belongs to, 0 if none.
	LineNumber int
	Variable   byte
	Target     int

	fileName string
	line     int
	column   int
}

func (se *SemanticError) GetMessage() string  { return se.message }
func (se *SemanticError) GetFileName() string { return se.fileName }
func (se *SemanticError) GetLine() int        { return se.line }
func (se *SemanticError) GetColumn() int      { return se.column }
func (se *SemanticError) GetLength() int      { return 0 }

func (se *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", se.Kind, se.message)
}

func (sa *SemanticAnalyzer) newSemanticError(
	kind SemanticErrorKind,
	token *lexer.Token,
	format string,
	args ...any,
) *SemanticError {
	err := &SemanticError{
		Kind:     kind,
		message:  fmt.Sprintf(format, args...),
		fileName: sa.fileName,
	}

	if token != nil {
		err.line = token.Metadata.Line
		err.column = token.Metadata.Column
	}

	return err
}

type branch struct {
	stmt   ast.Stmt
	target int
	line   int
}

// SemanticAnalyzer validates program level invariants in one forward walk.
type SemanticAnalyzer struct {
	fileName string
	program  *ast.Program

	declaredLines map[int]bool
	previousLine  int
	currentLine   int

	branches   []branch
	returnOwed bool
	lastGoSub  *branch
	boundVars  [26]bool
	hasEnd     bool
}

func NewSemanticAnalyzer(fileName string, program *ast.Program) *SemanticAnalyzer {
	return &SemanticAnalyzer{
		fileName: fileName,
		program:  program,

		declaredLines: make(map[int]bool),
		branches:      make([]branch, 0),
	}
}

// Validate runs the analyzer and hands the program back unchanged on success.
func Validate(fileName string, program *ast.Program) (*ast.Program, error) {
	if err := NewSemanticAnalyzer(fileName, program).Analyze(); err != nil {
		return nil, err
	}

	return program, nil
}

func (sa *SemanticAnalyzer) Analyze() error {
	for i, line := range sa.program.Lines {
		if err := sa.analyzeLineNumber(i, line); err != nil {
			return err
		}

		if err := sa.analyzeStmt(line.Stmt); err != nil {
			return err
		}
	}

	if sa.returnOwed {
		return sa.newSemanticError(
			UnbalancedGoSub,
			sa.lastGoSub.stmt.FirstToken(),
			"GOSUB %d on line %d has no matching RETURN",
			sa.lastGoSub.target,
			sa.lastGoSub.line,
		).withLine(sa.lastGoSub.line)
	}

	for _, b := range sa.branches {
		if !sa.declaredLines[b.target] {
			err := sa.newSemanticError(
				InvalidBranchTarget,
				b.stmt.FirstToken(),
				"line %d branches to undefined line %d",
				b.line,
				b.target,
			).withLine(b.line)
			err.Target = b.target
			return err
		}
	}

	if !sa.hasEnd {
		return sa.newSemanticError(MissingEnd, nil, "program has no END statement")
	}

	return nil
}

func (se *SemanticError) withLine(number int) *SemanticError {
	se.LineNumber = number
	return se
}

func (sa *SemanticAnalyzer) analyzeLineNumber(index int, line *ast.Line) error {
	number := line.Number

	if sa.declaredLines[number] {
		return sa.newSemanticError(
			DuplicateLineNumber,
			line.FirstToken(),
			"line number %d is declared more than once",
			number,
		).withLine(number)
	}

	if index > 0 && sa.previousLine > number {
		return sa.newSemanticError(
			DisorderedLineNumbers,
			line.FirstToken(),
			"line number %d follows line %d",
			number,
			sa.previousLine,
		).withLine(number)
	}

	if number <= 0 || number%10 != 0 {
		return sa.newSemanticError(
			InvalidLineNumber,
			line.FirstToken(),
			"line number %d is not a positive multiple of 10",
			number,
		).withLine(number)
	}

	sa.declaredLines[number] = true
	sa.previousLine = number
	sa.currentLine = number

	return nil
}

func (sa *SemanticAnalyzer) analyzeStmt(stmt ast.Stmt) error {
	switch stmt := stmt.(type) {
	case *ast.LetStmt:
		if err := sa.analyzeExpr(stmt.Value); err != nil {
			return err
		}
		sa.bind(stmt.Target)

	case *ast.InputStmt:
		for _, target := range stmt.Targets {
			sa.bind(target)
		}

	case *ast.PrintStmt:
		for _, item := range stmt.Items {
			if err := sa.analyzeExpr(item); err != nil {
				return err
			}
		}

	case *ast.IfStmt:
		if err := sa.analyzeExpr(stmt.Cond); err != nil {
			return err
		}
		return sa.analyzeStmt(stmt.Then)

	case *ast.GotoStmt:
		sa.branches = append(sa.branches, branch{stmt: stmt, target: stmt.Target, line: sa.currentLine})

	case *ast.GoSubStmt:
		b := branch{stmt: stmt, target: stmt.Target, line: sa.currentLine}
		sa.branches = append(sa.branches, b)
		sa.returnOwed = true
		sa.lastGoSub = &b

	case *ast.ReturnStmt:
		sa.returnOwed = false

	case *ast.EndStmt:
		sa.hasEnd = true

	default:
		panic(fmt.Sprintf("analyzeStmt(): unknown statement %T", stmt))
	}

	return nil
}

func (sa *SemanticAnalyzer) analyzeExpr(expr ast.Expr) error {
	switch expr := expr.(type) {
	case *ast.NumberExpr, *ast.StringExpr:
		return nil

	case *ast.IdentExpr:
		if !sa.boundVars[expr.Slot()] {
			err := sa.newSemanticError(
				UndeclaredVariable,
				expr.FirstToken(),
				"variable %c is used on line %d before it is assigned",
				expr.Name,
				sa.currentLine,
			).withLine(sa.currentLine)
			err.Variable = expr.Name
			return err
		}
		return nil

	case *ast.UnaryExpr:
		return sa.analyzeExpr(expr.Operand)

	case *ast.ArithmeticExpr:
		if err := sa.analyzeExpr(expr.Left); err != nil {
			return err
		}
		return sa.analyzeExpr(expr.Right)

	case *ast.RelationalExpr:
		if err := sa.analyzeExpr(expr.Left); err != nil {
			return err
		}
		return sa.analyzeExpr(expr.Right)

	default:
		panic(fmt.Sprintf("analyzeExpr(): unknown expression %T", expr))
	}
}

func (sa *SemanticAnalyzer) bind(ident *ast.IdentExpr) {
	sa.boundVars[ident.Slot()] = true
}
