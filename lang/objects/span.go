// Package objects defines the data types shared across the scanner, parser,
// static pass, compiler and VM: spans, typing, opcodes, globals, the runtime
// function representation and the VM's stack and call-frame types.
package objects

import "strings"

// Span identifies a position in the original source: a 1-based line number
// and a 0-based byte index into the source. It is attached to tokens, AST
// nodes and opcodes, and is used solely for error formatting.
type Span struct {
	Line  int
	Index int
}

// IsValid reports whether the span was set (as opposed to the zero value
// used by synthetic nodes that have no source position).
func (s Span) IsValid() bool { return s.Line > 0 }

// SourceLine returns the text of the line s points into, without its
// trailing newline. If the line cannot be found, it returns "".
func (s Span) SourceLine(src string) string {
	lines := strings.Split(src, "\n")
	if s.Line < 1 || s.Line > len(lines) {
		return ""
	}
	return lines[s.Line-1]
}
