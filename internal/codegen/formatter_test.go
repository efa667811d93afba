// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"context"
	"strings"
	"testing"
)

func TestIdentityFormat(t *testing.T) {
	src := []byte("const x = 1;\n")
	got, err := Identity{}.Format(context.Background(), src)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if string(got) != string(src) {
		t.Errorf("Format() = %q, want %q", got, src)
	}
}

func TestShellFormatterPipesStdinToStdout(t *testing.T) {
	// The embedded interpreter runs the pipeline itself; only `tr` must
	// exist on the host.
	f := &ShellFormatter{Command: "tr 'a' 'b'"}
	got, err := f.Format(context.Background(), []byte("banana\n"))
	if err != nil {
		t.Skipf("host tool unavailable: %v", err)
	}
	if string(got) != "bbnbnb\n" {
		t.Errorf("Format() = %q, want %q", got, "bbnbnb\n")
	}
}

func TestShellFormatterBuiltinOnly(t *testing.T) {
	// cat is a shell-external tool, but `while read` is handled entirely by
	// the embedded interpreter and works without any host binaries.
	f := &ShellFormatter{Command: `while IFS= read -r line; do echo "$line"; done`}
	got, err := f.Format(context.Background(), []byte("one\ntwo\n"))
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if string(got) != "one\ntwo\n" {
		t.Errorf("Format() = %q, want %q", got, "one\ntwo\n")
	}
}

func TestShellFormatterReportsFailure(t *testing.T) {
	f := &ShellFormatter{Command: "echo broken >&2; exit 3"}
	_, err := f.Format(context.Background(), []byte("x"))
	if err == nil {
		t.Fatal("expected error from failing format command")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error should carry stderr output, got: %v", err)
	}
}

func TestShellFormatterRejectsInvalidSyntax(t *testing.T) {
	f := &ShellFormatter{Command: "if then fi ((("}
	if _, err := f.Format(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected parse error for invalid command syntax")
	}
}
