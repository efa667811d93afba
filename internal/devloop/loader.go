// SPDX-License-Identifier: MPL-2.0

package devloop

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultRunCommand is the command used to launch the application
// entrypoint when the project does not configure one. The entrypoint path
// is appended as its final argument.
const DefaultRunCommand = "deno run -A"

type (
	// EntrypointLoader launches the application entrypoint module and
	// returns once its top-level evaluation completes. It is invoked exactly
	// once per cycle, after all manifest work has settled.
	EntrypointLoader interface {
		Load(ctx context.Context, entrypoint string) error
	}

	// ShellLoader runs the entrypoint with a configured runner command line
	// executed by the embedded shell interpreter.
	ShellLoader struct {
		// RunCommand is the command prefix (e.g. "deno run -A"); the quoted
		// entrypoint path is appended.
		RunCommand string
		// Dir is the working directory; empty means the process directory.
		Dir string
		// Stdin, Stdout, and Stderr are inherited from the process when nil.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// Load implements EntrypointLoader.
func (l *ShellLoader) Load(ctx context.Context, entrypoint string) error {
	runCmd := l.RunCommand
	if runCmd == "" {
		runCmd = DefaultRunCommand
	}

	quoted, err := syntax.Quote(entrypoint, syntax.LangBash)
	if err != nil {
		return fmt.Errorf("quote entrypoint %q: %w", entrypoint, err)
	}
	cmdline := runCmd + " " + quoted

	prog, err := syntax.NewParser().Parse(strings.NewReader(cmdline), "run_cmd")
	if err != nil {
		return fmt.Errorf("parse run command %q: %w", cmdline, err)
	}

	stdin := l.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := l.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := l.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	opts := []interp.RunnerOption{
		interp.StdIO(stdin, stdout, stderr),
		interp.Env(expand.ListEnviron(os.Environ()...)),
	}
	if l.Dir != "" {
		opts = append(opts, interp.Dir(l.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("create entrypoint interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		return fmt.Errorf("run entrypoint %q: %w", entrypoint, err)
	}
	return nil
}
