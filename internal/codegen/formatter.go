// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultFormatCommand is the formatter invoked when the project does not
// configure one. It reads the artifact on stdin and writes the formatted
// text to stdout.
const DefaultFormatCommand = "deno fmt --ext ts -"

type (
	// Formatter turns raw generated source into its final formatted form.
	Formatter interface {
		Format(ctx context.Context, src []byte) ([]byte, error)
	}

	// Identity is a Formatter that returns the source unchanged. Used by
	// tests and by --no-format.
	Identity struct{}

	// ShellFormatter pipes the source through a shell command line
	// (stdin in, stdout out) executed with the embedded shell interpreter,
	// so no host shell is required.
	ShellFormatter struct {
		// Command is the command line to run, e.g. "deno fmt --ext ts -".
		Command string
		// Dir is the working directory for the command. Empty means the
		// process working directory.
		Dir string
	}
)

// Format implements Formatter.
func (Identity) Format(_ context.Context, src []byte) ([]byte, error) {
	return src, nil
}

// Format implements Formatter by running the configured command line with
// src on stdin and returning its stdout.
func (f *ShellFormatter) Format(ctx context.Context, src []byte) ([]byte, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(f.Command), "format_cmd")
	if err != nil {
		return nil, fmt.Errorf("parse format command %q: %w", f.Command, err)
	}

	var stdout, stderr bytes.Buffer
	opts := []interp.RunnerOption{
		interp.StdIO(bytes.NewReader(src), &stdout, &stderr),
		interp.Env(expand.ListEnviron(os.Environ()...)),
	}
	if f.Dir != "" {
		opts = append(opts, interp.Dir(f.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create format interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("format command %q: %w: %s", f.Command, err, msg)
		}
		return nil, fmt.Errorf("format command %q: %w", f.Command, err)
	}

	return stdout.Bytes(), nil
}
