package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mna/mainer"

	"github.com/vif-lang/vif/lang/ast"
	"github.com/vif-lang/vif/lang/compiler"
	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/parser"
	"github.com/vif-lang/vif/lang/static"
)

// astOnly runs just the parser, for `print --ast`: it prints the tree
// before any resolution pass runs.
func astOnly(src []byte) (*ast.Function, error) {
	return parser.Build(src)
}

// compileSource runs the scanner/parser, the static pass and the compiler
// over src in sequence, short-circuiting on the first phase to fail. Every
// subcommand that needs a compiled program goes through this.
func compileSource(src []byte) (*ast.Function, *objects.Function, *objects.GlobalStore, error) {
	top, err := parser.Build(src)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := static.Check(top); err != nil {
		return nil, nil, nil, err
	}
	fn, globals, err := compiler.Compile(top)
	if err != nil {
		return nil, nil, nil, err
	}
	return top, fn, globals, nil
}

// Compile implements `vif compile`: read Vif source from stdin, write its
// disassembled bytecode listing to stdout. Unlike Build it never touches
// the filesystem, matching the bare `compile` subcommand (no file
// argument).
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := io.ReadAll(bufio.NewReader(stdio.Stdin))
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	_, fn, globals, err := compileSource(src)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	fmt.Fprint(stdio.Stdout, compiler.DisassembleProgram(fn, globals))
	return nil
}

// Build implements `vif build <file>`: compile <file> and write its
// disassembled bytecode listing to <file>.vifasm next to it, without
// executing it.
func (c *Cmd) Build(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	_, fn, globals, err := compileSource(src)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	out := strings.TrimSuffix(args[0], ".vif") + ".vifasm"
	if err := os.WriteFile(out, []byte(compiler.DisassembleProgram(fn, globals)), 0o644); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	fmt.Fprintf(stdio.Stdout, "wrote %s\n", out)
	return nil
}
