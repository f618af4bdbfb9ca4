// Package optimizer rewrites literal arithmetic into single number literals.
package optimizer

import (
	"fmt"

	"github.com/kievzenit/tinybasic/internal/ast"
	"github.com/kievzenit/tinybasic/internal/lexer"
)

// DivisionByZeroError is raised when a folded divisor is the literal 0.
type DivisionByZeroError struct {
	Expr string

	FileName string
	Line     int
	Column   int
}

func newDivisionByZeroError(expr *ast.ArithmeticExpr) *DivisionByZeroError {
	err := &DivisionByZeroError{Expr: ast.ExprString(expr)}

	if token := expr.FirstToken(); token != nil {
		err.FileName = token.Metadata.FileName
		err.Line = token.Metadata.Line
		err.Column = token.Metadata.Column
	}

	return err
}

func (e *DivisionByZeroError) GetMessage() string {
	return fmt.Sprintf("division by zero in constant expression %s", e.Expr)
}

func (e *DivisionByZeroError) Error() string {
	return e.GetMessage()
}

func (e *DivisionByZeroError) GetFileName() string { return e.FileName }
func (e *DivisionByZeroError) GetLine() int        { return e.Line }
func (e *DivisionByZeroError) GetColumn() int      { return e.Column }

// FoldProgram returns a copy of program with every expression folded.
// Nodes without foldable arithmetic are shared with the input.
func FoldProgram(program *ast.Program) (*ast.Program, error) {
	lines := make([]*ast.Line, len(program.Lines))

	for i, line := range program.Lines {
		stmt, err := FoldStmt(line.Stmt)
		if err != nil {
			return nil, err
		}

		lines[i] = &ast.Line{
			StartToken: line.StartToken,

			Number: line.Number,
			Stmt:   stmt,
		}
	}

	return &ast.Program{
		Name:  program.Name,
		Lines: lines,
	}, nil
}

func FoldStmt(stmt ast.Stmt) (ast.Stmt, error) {
	switch stmt := stmt.(type) {
	case *ast.LetStmt:
		value, err := FoldExpr(stmt.Value)
		if err != nil {
			return nil, err
		}

		return &ast.LetStmt{
			StartToken: stmt.StartToken,

			Target: stmt.Target,
			Value:  value,
		}, nil

	case *ast.PrintStmt:
		items := make([]ast.Expr, len(stmt.Items))
		for i, item := range stmt.Items {
			folded, err := FoldExpr(item)
			if err != nil {
				return nil, err
			}
			items[i] = folded
		}

		return &ast.PrintStmt{
			StartToken: stmt.StartToken,

			Items: items,
		}, nil

	case *ast.IfStmt:
		cond, err := FoldExpr(stmt.Cond)
		if err != nil {
			return nil, err
		}

		then, err := FoldStmt(stmt.Then)
		if err != nil {
			return nil, err
		}

		return &ast.IfStmt{
			StartToken: stmt.StartToken,

			Cond: cond.(*ast.RelationalExpr),
			Then: then,
		}, nil

	case *ast.GotoStmt, *ast.GoSubStmt, *ast.ReturnStmt, *ast.EndStmt, *ast.InputStmt:
		return stmt, nil

	default:
		panic(fmt.Sprintf("FoldStmt(): unknown statement %T", stmt))
	}
}

// FoldExpr evaluates every arithmetic subtree whose leaves are all literals.
// Relational expressions keep their shape with folded operands.
func FoldExpr(expr ast.Expr) (ast.Expr, error) {
	switch expr := expr.(type) {
	case *ast.NumberExpr, *ast.IdentExpr, *ast.StringExpr:
		return expr, nil

	case *ast.UnaryExpr:
		operand, err := FoldExpr(expr.Operand)
		if err != nil {
			return nil, err
		}

		if number, ok := operand.(*ast.NumberExpr); ok {
			if expr.Op == ast.UnaryMinus {
				return newNumber(expr.StartToken, -number.Value), nil
			}
			return newNumber(expr.StartToken, number.Value), nil
		}

		return &ast.UnaryExpr{
			StartToken: expr.StartToken,

			Op:      expr.Op,
			Operand: operand,
		}, nil

	case *ast.ArithmeticExpr:
		left, err := FoldExpr(expr.Left)
		if err != nil {
			return nil, err
		}

		right, err := FoldExpr(expr.Right)
		if err != nil {
			return nil, err
		}

		l, lok := left.(*ast.NumberExpr)
		r, rok := right.(*ast.NumberExpr)
		if lok && rok {
			value, err := evalArithmetic(expr, l.Value, r.Value)
			if err != nil {
				return nil, err
			}
			return newNumber(expr.StartToken, value), nil
		}

		return &ast.ArithmeticExpr{
			StartToken: expr.StartToken,

			Op:    expr.Op,
			Left:  left,
			Right: right,
		}, nil

	case *ast.RelationalExpr:
		left, err := FoldExpr(expr.Left)
		if err != nil {
			return nil, err
		}

		right, err := FoldExpr(expr.Right)
		if err != nil {
			return nil, err
		}

		return &ast.RelationalExpr{
			StartToken: expr.StartToken,

			Op:    expr.Op,
			Left:  left,
			Right: right,
		}, nil

	default:
		panic(fmt.Sprintf("FoldExpr(): unknown expression %T", expr))
	}
}

// evalArithmetic uses wrapping 64-bit arithmetic and truncating division.
func evalArithmetic(expr *ast.ArithmeticExpr, left, right int64) (int64, error) {
	switch expr.Op {
	case ast.Add:
		return left + right, nil
	case ast.Sub:
		return left - right, nil
	case ast.Mul:
		return left * right, nil
	case ast.Div:
		if right == 0 {
			return 0, newDivisionByZeroError(expr)
		}
		return left / right, nil
	default:
		panic(fmt.Sprintf("evalArithmetic(): unknown operator %d", expr.Op))
	}
}

func newNumber(token *lexer.Token, value int64) *ast.NumberExpr {
	return &ast.NumberExpr{
		StartToken: token,

		Value: value,
	}
}
