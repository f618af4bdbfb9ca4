// Package codegen translates a validated program into x86-64 NASM assembly
// for the Linux system call interface.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kievzenit/tinybasic/internal/ast"
)

const (
	indent = "    "

	frameSizePlaceholder = "_local_var_size_"
)

type Options struct {
	// HelpersInclude, when set, makes the output %include this file instead
	// of carrying the conversion routines inline.
	HelpersInclude string

	// MaxVariables caps the number of distinct variables, at most 26.
	MaxVariables int

	// Comments annotates every line label with its source statement.
	Comments bool
}

// Generator holds the state of a single traversal. Generate resets it, so
// a Generator may be reused but not shared between goroutines.
type Generator struct {
	opts Options

	text      strings.Builder
	data      *DataSection
	variables *variableTable

	lineLabels map[int]string
	nextLine   map[int]string

	needsDecimalToASCII bool
	needsASCIIToDecimal bool
}

func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Generate compiles program with default options.
func Generate(program *ast.Program) (string, error) {
	return NewGenerator(Options{}).Generate(program)
}

func (g *Generator) reset(program *ast.Program) {
	g.text.Reset()
	g.data = NewDataSection()
	g.variables = newVariableTable(g.opts.MaxVariables)
	g.needsDecimalToASCII = false
	g.needsASCIIToDecimal = false

	g.lineLabels = make(map[int]string, len(program.Lines))
	g.nextLine = make(map[int]string, len(program.Lines))
	for i, line := range program.Lines {
		g.lineLabels[line.Number] = lineLabel(line.Number)
		if i+1 < len(program.Lines) {
			g.nextLine[line.Number] = lineLabel(program.Lines[i+1].Number)
		} else {
			g.nextLine[line.Number] = endLabel(line.Number)
		}
	}
}

func (g *Generator) Generate(program *ast.Program) (string, error) {
	g.reset(program)

	g.line("section .text")
	g.instr("global _start")
	g.label("_start")
	g.instr("push rbp")
	g.instr("mov rbp, rsp")
	g.instr("sub rsp, %s", frameSizePlaceholder)

	for _, line := range program.Lines {
		g.label(g.lineLabels[line.Number])
		if g.opts.Comments {
			g.comment("%d %s", line.Number, ast.StmtString(line.Stmt))
		}

		if err := g.emitStmt(line.Number, line.Stmt, true); err != nil {
			return "", err
		}
	}

	if needsExit(program) {
		g.emitExit(0)
	}

	if g.opts.HelpersInclude == "" {
		if g.needsDecimalToASCII {
			g.line("")
			g.text.WriteString(decimalToASCII)
		}
		if g.needsASCIIToDecimal {
			g.line("")
			g.text.WriteString(asciiToDecimal)
		}
	}

	var out strings.Builder
	if g.opts.HelpersInclude != "" && (g.needsDecimalToASCII || g.needsASCIIToDecimal) {
		fmt.Fprintf(&out, "%%include \"%s\"\n\n", g.opts.HelpersInclude)
	}
	g.data.render(&out)
	out.WriteString("\n")
	out.WriteString(strings.Replace(
		g.text.String(),
		frameSizePlaceholder,
		strconv.Itoa(g.variables.frameSize()),
		1,
	))

	return out.String(), nil
}

// needsExit reports whether control can run past the last line.
func needsExit(program *ast.Program) bool {
	if len(program.Lines) == 0 {
		return true
	}

	switch program.Lines[len(program.Lines)-1].Stmt.(type) {
	case *ast.EndStmt, *ast.GotoStmt:
		return false
	}

	return true
}

func (g *Generator) emitStmt(lineNumber int, stmt ast.Stmt, topLevel bool) error {
	switch stmt := stmt.(type) {
	case *ast.LetStmt:
		return g.emitLet(stmt)

	case *ast.PrintStmt:
		return g.emitPrint(stmt)

	case *ast.IfStmt:
		return g.emitIf(lineNumber, stmt, topLevel)

	case *ast.GotoStmt:
		g.instr("jmp %s", lineLabel(stmt.Target))

	case *ast.GoSubStmt:
		g.instr("call %s", lineLabel(stmt.Target))

	case *ast.ReturnStmt:
		g.instr("ret")

	case *ast.EndStmt:
		g.emitExit(0)

	case *ast.InputStmt:
		return g.emitInput(stmt)

	default:
		panic(fmt.Sprintf("emitStmt(): unknown statement %T", stmt))
	}

	return nil
}

func (g *Generator) emitLet(stmt *ast.LetStmt) error {
	if err := g.emitExpr(stmt.Value); err != nil {
		return err
	}

	offset, err := g.variables.offset(stmt.Target.Name)
	if err != nil {
		return err
	}

	g.instr("pop rax")
	g.instr("mov [rbp - %d], rax", offset)

	return nil
}

func (g *Generator) emitPrint(stmt *ast.PrintStmt) error {
	for _, item := range stmt.Items {
		if str, ok := item.(*ast.StringExpr); ok {
			g.emitPrintString(str)
			continue
		}

		if err := g.emitExpr(item); err != nil {
			return err
		}

		g.needsDecimalToASCII = true
		g.instr("call %s", decimalToASCIILabel)
		g.emitWrite("rsp", "rcx")
		g.instr("pop rax")
	}

	g.emitWrite(newLineLabel, "1")

	return nil
}

func (g *Generator) emitPrintString(str *ast.StringExpr) {
	data := DecodeString(str.Value)
	if len(data) == 0 {
		return
	}

	label := g.data.Add(EncodeBytes(data))
	g.emitWrite(label, strconv.Itoa(len(data)))
}

// emitIf evaluates the condition and skips the nested statement with the
// negated jump. The skip target is the following line, or a label placed
// right after the statement when the IF is on the last line. A nested IF
// shares the skip target of the outer one.
func (g *Generator) emitIf(lineNumber int, stmt *ast.IfStmt, topLevel bool) error {
	if err := g.emitCondition(stmt.Cond); err != nil {
		return err
	}

	skip := g.nextLine[lineNumber]
	g.instr("%s %s", jumpFor(stmt.Cond.Op.Negate()), skip)

	if err := g.emitStmt(lineNumber, stmt.Then, false); err != nil {
		return err
	}

	if topLevel && skip == endLabel(lineNumber) {
		g.label(skip)
	}

	return nil
}

func (g *Generator) emitCondition(cond *ast.RelationalExpr) error {
	if err := g.emitExpr(cond.Left); err != nil {
		return err
	}
	if err := g.emitExpr(cond.Right); err != nil {
		return err
	}

	g.instr("pop rax")
	g.instr("pop rbx")
	g.instr("cmp rbx, rax")

	return nil
}

func (g *Generator) emitInput(stmt *ast.InputStmt) error {
	for _, target := range stmt.Targets {
		offset, err := g.variables.offset(target.Name)
		if err != nil {
			return err
		}

		g.needsASCIIToDecimal = true
		g.instr("mov qword [rbp - %d], 0", offset)
		g.instr("lea r8, [rbp - %d]", offset)
		g.emitRead("r8", "8")
		g.instr("mov rax, [rbp - %d]", offset)
		g.instr("push rax")
		g.instr("call %s", asciiToDecimalLabel)
		g.instr("pop rax")
		g.instr("mov [rbp - %d], rax", offset)
	}

	return nil
}

func (g *Generator) emitExpr(expr ast.Expr) error {
	switch expr := expr.(type) {
	case *ast.NumberExpr:
		if expr.Value >= -1<<31 && expr.Value < 1<<31 {
			g.instr("push %d", expr.Value)
		} else {
			g.instr("mov rax, %d", expr.Value)
			g.instr("push rax")
		}

	case *ast.IdentExpr:
		offset, err := g.variables.offset(expr.Name)
		if err != nil {
			return err
		}
		g.instr("mov rax, [rbp - %d]", offset)
		g.instr("push rax")

	case *ast.UnaryExpr:
		if err := g.emitExpr(expr.Operand); err != nil {
			return err
		}
		if expr.Op == ast.UnaryMinus {
			g.instr("pop rbx")
			g.instr("mov rax, 0")
			g.instr("sub rax, rbx")
			g.instr("push rax")
		}

	case *ast.ArithmeticExpr:
		if err := g.emitExpr(expr.Left); err != nil {
			return err
		}
		if err := g.emitExpr(expr.Right); err != nil {
			return err
		}
		g.emitArithmetic(expr.Op)

	case *ast.StringExpr, *ast.RelationalExpr:
		panic(fmt.Sprintf("emitExpr(): %T is not an arithmetic expression", expr))

	default:
		panic(fmt.Sprintf("emitExpr(): unknown expression %T", expr))
	}

	return nil
}

func (g *Generator) emitArithmetic(op ast.ArithmeticOp) {
	g.instr("pop rbx")
	g.instr("pop rax")

	switch op {
	case ast.Add:
		g.instr("add rax, rbx")
	case ast.Sub:
		g.instr("sub rax, rbx")
	case ast.Mul:
		g.instr("imul rbx")
	case ast.Div:
		g.instr("cqo")
		g.instr("idiv rbx")
	default:
		panic(fmt.Sprintf("emitArithmetic(): unknown operator %d", op))
	}

	g.instr("push rax")
}

func jumpFor(op ast.RelationalOp) string {
	switch op {
	case ast.Less:
		return "jl"
	case ast.LessEqual:
		return "jle"
	case ast.Equal:
		return "je"
	case ast.NotEqual:
		return "jne"
	case ast.Greater:
		return "jg"
	case ast.GreaterEqual:
		return "jge"
	default:
		panic(fmt.Sprintf("jumpFor(): unknown operator %d", op))
	}
}

func lineLabel(number int) string {
	return "_line_" + strconv.Itoa(number)
}

func endLabel(number int) string {
	return lineLabel(number) + "_end"
}

func (g *Generator) line(format string, args ...any) {
	fmt.Fprintf(&g.text, format+"\n", args...)
}

func (g *Generator) instr(format string, args ...any) {
	g.line(indent+format, args...)
}

func (g *Generator) label(name string) {
	g.line("%s:", name)
}

func (g *Generator) comment(format string, args ...any) {
	g.instr("; "+format, args...)
}
