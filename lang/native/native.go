// Package native implements Vif's three built-in functions: print, get_time
// and sleep. They are pre-declared in the global namespace by the compiler
// (see compiler.Compile's seedNatives) rather than being reachable through
// any user-level import system, matching the "no import system" non-goal.
package native

import (
	"fmt"
	"io"
	"time"

	"github.com/vif-lang/vif/lang/objects"
)

// Print implements print(x...): infinite arity, writes a space-separated
// representation of each argument followed by a newline, returns None.
var Print = &objects.NativeFunction{
	Name:  "print",
	Arity: objects.InfiniteArity(),
	Fn: func(out io.Writer, args []objects.StackValue) (objects.StackValue, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprint(out, a.String())
		}
		fmt.Fprintln(out)
		return objects.NoneValue(), nil
	},
}

// GetTime implements get_time(): returns the current wall-clock timestamp
// in microseconds as an Integer.
var GetTime = &objects.NativeFunction{
	Name:  "get_time",
	Arity: objects.FixedArity(0),
	Fn: func(out io.Writer, args []objects.StackValue) (objects.StackValue, error) {
		return objects.IntValue(time.Now().UnixMicro()), nil
	},
}

// Sleep implements sleep(seconds): blocks the calling goroutine (the VM's
// single thread of execution) for the given duration, accepting either an
// Integer or Float number of seconds.
var Sleep = &objects.NativeFunction{
	Name:  "sleep",
	Arity: objects.FixedArity(1),
	Fn: func(out io.Writer, args []objects.StackValue) (objects.StackValue, error) {
		var seconds float64
		switch args[0].Kind {
		case objects.SVInteger, objects.SVIndex:
			seconds = float64(args[0].Int)
		case objects.SVFloat:
			seconds = args[0].Float
		default:
			return objects.StackValue{}, fmt.Errorf("sleep expects an int or float argument, got %s", args[0].TypeName())
		}
		time.Sleep(time.Duration(seconds * float64(time.Second)))
		return objects.NoneValue(), nil
	},
}

var builtins = map[string]*objects.NativeFunction{
	"print":    Print,
	"get_time": GetTime,
	"sleep":    Sleep,
}

// Names lists every native in a stable order, for seeding a fresh
// GlobalStore.
func Names() []string { return []string{"print", "get_time", "sleep"} }

// Lookup returns the native registered under name, if any.
func Lookup(name string) (*objects.NativeFunction, bool) {
	nf, ok := builtins[name]
	return nf, ok
}
