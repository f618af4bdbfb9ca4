// Package graph builds a Graphviz description of a program's syntax tree.
package graph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kievzenit/tinybasic/internal/ast"
)

type Node struct {
	Label    string
	Children []int
}

// Graph stores nodes in an arena, edges refer to nodes by index.
type Graph struct {
	Name  string
	Nodes []Node
}

func Build(program *ast.Program) *Graph {
	g := &Graph{Name: program.Name}

	root := g.add(-1, "Program "+program.Name)
	for _, line := range program.Lines {
		lineNode := g.add(root, "Line "+strconv.Itoa(line.Number))
		g.addStmt(lineNode, line.Stmt)
	}

	return g
}

func (g *Graph) add(parent int, label string) int {
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{Label: label})

	if parent >= 0 {
		g.Nodes[parent].Children = append(g.Nodes[parent].Children, id)
	}

	return id
}

func (g *Graph) addStmt(parent int, stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.LetStmt:
		id := g.add(parent, "LET")
		g.addExpr(id, stmt.Target)
		g.addExpr(id, stmt.Value)

	case *ast.PrintStmt:
		id := g.add(parent, "PRINT")
		for _, item := range stmt.Items {
			g.addExpr(id, item)
		}

	case *ast.IfStmt:
		id := g.add(parent, "IF")
		g.addExpr(id, stmt.Cond)
		g.addStmt(id, stmt.Then)

	case *ast.GotoStmt:
		g.add(parent, "GOTO "+strconv.Itoa(stmt.Target))

	case *ast.GoSubStmt:
		g.add(parent, "GOSUB "+strconv.Itoa(stmt.Target))

	case *ast.ReturnStmt:
		g.add(parent, "RETURN")

	case *ast.EndStmt:
		g.add(parent, "END")

	case *ast.InputStmt:
		id := g.add(parent, "INPUT")
		for _, target := range stmt.Targets {
			g.addExpr(id, target)
		}

	default:
		panic(fmt.Sprintf("addStmt(): unknown statement %T", stmt))
	}
}

func (g *Graph) addExpr(parent int, expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.NumberExpr:
		g.add(parent, "Number "+strconv.FormatInt(expr.Value, 10))

	case *ast.IdentExpr:
		g.add(parent, "Identifier "+string(expr.Name))

	case *ast.StringExpr:
		g.add(parent, `String "`+expr.Value+`"`)

	case *ast.UnaryExpr:
		id := g.add(parent, "Unary "+expr.Op.String())
		g.addExpr(id, expr.Operand)

	case *ast.ArithmeticExpr:
		id := g.add(parent, "Arithmetic "+expr.Op.String())
		g.addExpr(id, expr.Left)
		g.addExpr(id, expr.Right)

	case *ast.RelationalExpr:
		id := g.add(parent, "Relational "+expr.Op.String())
		g.addExpr(id, expr.Left)
		g.addExpr(id, expr.Right)

	default:
		panic(fmt.Sprintf("addExpr(): unknown expression %T", expr))
	}
}

// WriteDOT writes the graph in the dot language, node declarations first.
func (g *Graph) WriteDOT(w io.Writer) error {
	var out strings.Builder

	fmt.Fprintf(&out, "digraph \"%s\" {\n", escape(g.Name))
	for id, node := range g.Nodes {
		fmt.Fprintf(&out, "\tN%d [label=\"%s\"]\n", id, escape(node.Label))
	}
	for id, node := range g.Nodes {
		for _, child := range node.Children {
			fmt.Fprintf(&out, "\tN%d -> N%d\n", id, child)
		}
	}
	out.WriteString("}\n")

	_, err := io.WriteString(w, out.String())
	return err
}

func (g *Graph) String() string {
	var out strings.Builder
	_ = g.WriteDOT(&out)
	return out.String()
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
