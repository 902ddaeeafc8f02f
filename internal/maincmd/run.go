package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/vif-lang/vif/lang/machine"
)

// Run implements `vif run <file>`: parse, statically check, compile and
// execute the program, with print output going to stdio.Stdout.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	log := newLogger(cfg, stdio.Stdout, stdio.Stderr)

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
	log.Debug("compiled", "file", args[0], "globals", globals.Len())

	th := machine.NewThread(globals)
	th.Stdout = stdio.Stdout
	if err := machine.Run(th, fn); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
