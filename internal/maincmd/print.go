package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/vif-lang/vif/lang/ast"
	"github.com/vif-lang/vif/lang/compiler"
)

// Print implements `vif print --ast|--assembly <file>`.
func (c *Cmd) Print(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	if c.AST {
		top, err := astOnly(src)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		return (ast.Printer{Output: stdio.Stdout}).Print(top)
	}

	_, fn, globals, err := compileSource(src)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	fmt.Fprint(stdio.Stdout, compiler.DisassembleProgram(fn, globals))
	return nil
}
