// Package machine implements the stack-based virtual machine that executes
// a compiled objects.Function against an objects.GlobalStore.
//
// A Thread carries execution limits, a dispatch loop counting steps against
// MaxSteps, and deferred panic recovery around native calls. Stack
// discipline, call dispatch, and the closure soft-trunc mechanism are
// described in machine.go and thread.go's inline comments.
package machine

import (
	"io"
	"os"

	"github.com/dolthub/swiss"

	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/viferr"
)

// MaxCallStackDepth is the maximum number of saved previous frames; a call
// made at this depth fails with a FunctionCall error.
const MaxCallStackDepth = 100

// softTrunc is the deferred-truncation bookkeeping for return with closure
// preservation: when a returning function's value is itself a Function,
// its defining frame's stack slice must survive so the escaped closure's
// inherited locals keep resolving. pos is the absolute stack index of the
// callee slot that would otherwise have been reclaimed.
type softTrunc struct {
	pos  int
	name string
}

// Thread owns all mutable state for one program execution: the operand
// stack, the call stack, and the global variable bindings. It carries no
// concurrency primitives; execution is strictly single-threaded.
type Thread struct {
	// Stdout is where the print native writes; os.Stdout if nil.
	Stdout io.Writer

	// MaxSteps bounds the number of dispatched opcodes before execution is
	// aborted with a cooperative-cancellation error. A value <= 0 means no
	// limit. The language itself has no suspend points; this exists purely
	// so an embedding host can bound a runaway script.
	MaxSteps int64

	stack     *objects.Stack
	frames    []*objects.CallFrame
	globals   *objects.GlobalStore
	variables *swiss.Map[string, objects.StackValue]
	soft      *softTrunc
	steps     int64
	stdout    io.Writer
}

// NewThread returns a ready-to-use Thread for executing against globals.
func NewThread(globals *objects.GlobalStore) *Thread {
	return &Thread{
		stack:     objects.NewStack(objects.MinStackCapacity),
		frames:    make([]*objects.CallFrame, 0, MaxCallStackDepth),
		globals:   globals,
		variables: swiss.NewMap[string, objects.StackValue](64),
	}
}

func (th *Thread) out() io.Writer {
	if th.Stdout != nil {
		return th.Stdout
	}
	return os.Stdout
}

// Run executes top to completion, returning any VM error encountered. top
// is normally the implicit program-level Function returned by
// compiler.Compile.
func Run(th *Thread, top *objects.Function) error {
	th.frames = append(th.frames, &objects.CallFrame{Function: top, StackPosition: th.stack.Top()})
	_, err := th.loop()
	return err
}

func (th *Thread) currentFrame() *objects.CallFrame { return th.frames[len(th.frames)-1] }

// cancelled reports whether the step budget has been exhausted.
func (th *Thread) cancelled() bool {
	return th.MaxSteps > 0 && th.steps >= th.MaxSteps
}

func vmErr(kind viferr.Kind, span objects.Span, format string, args ...any) error {
	return viferr.New(kind, span, format, args...)
}
