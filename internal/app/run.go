package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/dig"

	"github.com/dinosandi/Mobile-Driver/internal/apperr"
	"github.com/dinosandi/Mobile-Driver/internal/service/workflow"
)

// MustRun executes the command named on the command line and exits non-zero
// on failure.
func MustRun(container *dig.Container) {
	code, err := run(container, pflag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "run error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func run(container *dig.Container, args []string) (int, error) {
	var code int
	err := container.Invoke(func(r *Runner, ctx context.Context, out io.Writer) {
		code = exitCode(out, r.Run(ctx, args))
	})
	return code, err
}

// exitCode maps a command error onto a message and a process exit code. A
// declined confirmation is a clean exit: nothing was sent.
func exitCode(out io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, workflow.ErrDeclined):
		fmt.Fprintln(out, "aborted")
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, errUsage):
		fmt.Fprintln(out, err)
		return 2
	case errors.Is(err, apperr.AuthExpired):
		fmt.Fprintln(out, err)
		return 1
	case errors.Is(err, apperr.Network):
		fmt.Fprintln(out, "cannot reach the server, check your connection")
		return 1
	default:
		fmt.Fprintln(out, err)
		return 1
	}
}
