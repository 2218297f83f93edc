package app

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/dinosandi/Mobile-Driver/internal/apperr"
	"github.com/dinosandi/Mobile-Driver/internal/service/workflow"
)

// resetFlags isolates the global flag set the config loader registers on.
func resetFlags(t *testing.T) {
	t.Helper()
	oldCmd := pflag.CommandLine
	oldArgs := os.Args
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	os.Args = []string{"driverctl"}
	t.Cleanup(func() {
		pflag.CommandLine = oldCmd
		os.Args = oldArgs
	})
}

func TestContainerBuild(t *testing.T) {
	resetFlags(t)

	container, err := NewContainerBuilder().
		WithStdio(strings.NewReader(""), &bytes.Buffer{}).
		build(context.Background())
	require.NoError(t, err)

	err = container.Invoke(func(r *Runner) {
		require.NotNil(t, r)
	})
	require.NoError(t, err)
}

func TestTerminalConfirmer(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"", false}, // EOF counts as a decline
	}
	for _, tc := range cases {
		var out bytes.Buffer
		c := terminalConfirmer{in: bufio.NewReader(strings.NewReader(tc.in)), out: &out}
		require.Equal(t, tc.want, c.Confirm("Proceed?"), "input %q", tc.in)
		require.Contains(t, out.String(), "Proceed? [y/N]:")
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{workflow.ErrDeclined, 0},
		{errUsage, 2},
		{apperr.AuthExpired, 1},
		{apperr.Network, 1},
		{errors.New("boom"), 1},
		{context.Canceled, 130},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		require.Equal(t, tc.want, exitCode(&out, tc.err), "error %v", tc.err)
	}
}
