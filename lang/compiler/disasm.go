package compiler

import (
	"fmt"
	"strings"

	"github.com/vif-lang/vif/lang/objects"
)

// Disassemble renders fn's chunk in a one-line-per-instruction textual
// format: `offset  lineno  OP_NAME operand`, under a `function <name>:`
// header. Only fn's own chunk is rendered; DisassembleProgram also renders
// the nested Function globals.
func Disassemble(fn *objects.Function) string {
	var b strings.Builder
	disasmFunction(&b, fn, fn.Name)
	return b.String()
}

func disasmFunction(b *strings.Builder, fn *objects.Function, name string) {
	if name == "" {
		name = "<top-level>"
	}
	fmt.Fprintf(b, "function %s:\n", name)
	for offset, op := range fn.Chunk {
		line := 0
		if op.Span.IsValid() {
			line = op.Span.Line
		}
		fmt.Fprintf(b, "%4d %4d %s\n", offset, line, op.String())
	}
}

// DisassembleProgram renders the implicit top-level function plus every
// nested Function global reachable from it, each under its own header.
func DisassembleProgram(top *objects.Function, globals *objects.GlobalStore) string {
	var b strings.Builder
	disasmFunction(&b, top, "")
	for _, g := range globals.All() {
		if g.Kind == objects.GlobalFunction {
			b.WriteString("\n")
			disasmFunction(&b, g.Function, g.Name())
		}
	}
	return b.String()
}
