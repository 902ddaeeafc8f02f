package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders a parsed Function tree as an indented, parenthesized
// text form, backing `vif print --ast`.
type Printer struct {
	Output io.Writer
}

// Print writes top's tree to p.Output.
func (p Printer) Print(top *Function) error {
	var b strings.Builder
	printFunction(&b, top, 0)
	_, err := io.WriteString(p.Output, b.String())
	return err
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func printFunction(b *strings.Builder, fn *Function, depth int) {
	indent(b, depth)
	name := fn.Name
	if name == "" {
		name = "<top-level>"
	}
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
	}
	fmt.Fprintf(b, "(def %s (%s)\n", name, strings.Join(params, " "))
	for _, s := range fn.Body {
		printStmt(b, s, depth+1)
	}
	indent(b, depth)
	b.WriteString(")\n")
}

func printStmt(b *strings.Builder, s Stmt, depth int) {
	indent(b, depth)
	switch s := s.(type) {
	case *Function:
		printFunction(b, s, depth)
	case *VarStmt:
		mut := ""
		if s.Mutable {
			mut = "mut "
		}
		fmt.Fprintf(b, "(var %s%s %s)\n", mut, s.Name, printExpr(s.Value))
	case *ExpressionStmt:
		fmt.Fprintf(b, "%s\n", printExpr(s.Expr))
	case *BlockStmt:
		b.WriteString("(block\n")
		for _, sub := range s.Stmts {
			printStmt(b, sub, depth+1)
		}
		indent(b, depth)
		b.WriteString(")\n")
	case *ConditionStmt:
		fmt.Fprintf(b, "(if %s\n", printExpr(s.Cond))
		for _, sub := range s.Then {
			printStmt(b, sub, depth+1)
		}
		if len(s.Else) > 0 {
			indent(b, depth)
			b.WriteString("(else\n")
			for _, sub := range s.Else {
				printStmt(b, sub, depth+1)
			}
			indent(b, depth)
			b.WriteString(")\n")
		}
		indent(b, depth)
		b.WriteString(")\n")
	case *WhileStmt:
		fmt.Fprintf(b, "(while %s\n", printExpr(s.Cond))
		for _, sub := range s.Body {
			printStmt(b, sub, depth+1)
		}
		indent(b, depth)
		b.WriteString(")\n")
	case *ReturnStmt:
		if s.Value != nil {
			fmt.Fprintf(b, "(return %s)\n", printExpr(s.Value))
		} else {
			b.WriteString("(return)\n")
		}
	case *AssertStmt:
		fmt.Fprintf(b, "(assert %s)\n", printExpr(s.Value))
	case *BadStmt:
		b.WriteString("(bad)\n")
	}
}

func printExpr(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch b := e.Body.(type) {
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", b.Op, printExpr(b.Left), printExpr(b.Right))
	case *UnaryExpr:
		return fmt.Sprintf("(%s %s)", b.Op, printExpr(b.Right))
	case *GroupingExpr:
		return printExpr(b.Inner)
	case *LogicalExpr:
		op := "and"
		if b.Kind == LogicalOr {
			op = "or"
		}
		return fmt.Sprintf("(%s %s %s)", op, printExpr(b.Left), printExpr(b.Right))
	case *AssignExpr:
		return fmt.Sprintf("(= %s %s)", printExpr(b.Target), printExpr(b.Value))
	case *CallExpr:
		args := make([]string, len(b.Args))
		for i, a := range b.Args {
			args[i] = printExpr(a)
		}
		return fmt.Sprintf("(call %s %s)", printExpr(b.Callee), strings.Join(args, " "))
	case *ValueExpr:
		return printValue(b)
	case *LoopKeywordExpr:
		if b.Kind == LoopBreak {
			return "break"
		}
		return "continue"
	default:
		return "?"
	}
}

func printValue(v *ValueExpr) string {
	switch v.Kind {
	case ValInteger:
		return fmt.Sprintf("%d", v.Int)
	case ValFloat:
		return fmt.Sprintf("%g", v.Float)
	case ValString:
		return fmt.Sprintf("%q", v.Str)
	case ValTrue:
		return "True"
	case ValFalse:
		return "False"
	case ValNone:
		return "None"
	case ValVariable:
		return v.Name
	default:
		return "?"
	}
}
