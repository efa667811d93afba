// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reef-cli/internal/manifest"
	"reef-cli/pkg/modpath"
)

func testManifest() manifest.Manifest {
	return manifest.Manifest{
		Routes:  []modpath.ModulePath{"/a.tsx", "/b.tsx"},
		Islands: []modpath.ModulePath{"/Counter.tsx"},
	}
}

func TestRender(t *testing.T) {
	got := string(New().Render(testManifest()))

	want := banner + `
import * as $0 from "./routes/a.tsx";
import * as $1 from "./routes/b.tsx";
import * as $$0 from "./islands/Counter.tsx";

const manifest = {
  routes: {
    "./routes/a.tsx": $0,
    "./routes/b.tsx": $1,
  },
  islands: {
    "./islands/Counter.tsx": $$0,
  },
  baseUrl: import.meta.url,
};

export default manifest;
`
	if got != want {
		t.Errorf("Render() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderEmptyManifest(t *testing.T) {
	got := string(New().Render(manifest.Empty()))

	if !strings.HasPrefix(got, banner) {
		t.Error("rendered artifact must start with the generated-file banner")
	}
	if strings.Contains(got, "import ") {
		t.Error("empty manifest must not emit imports")
	}
	for _, key := range []string{"routes: {", "islands: {", "baseUrl: import.meta.url"} {
		if !strings.Contains(got, key) {
			t.Errorf("rendered artifact missing %q", key)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	g := New()
	m := testManifest()
	first := g.Render(m)
	second := g.Render(m)
	if string(first) != string(second) {
		t.Error("two renderings of the same manifest differ")
	}
}

func TestRenderEscapesKeys(t *testing.T) {
	m := manifest.Manifest{Routes: []modpath.ModulePath{`/we"ird.tsx`}}
	got := string(New().Render(m))
	if !strings.Contains(got, `"./routes/we\"ird.tsx"`) {
		t.Errorf("expected escaped key in output:\n%s", got)
	}
}

func TestRenderCustomDirectoryNames(t *testing.T) {
	g := New(WithRoutesDir("pages"), WithIslandsDir("components"))
	got := string(g.Render(testManifest()))

	if !strings.Contains(got, `"./pages/a.tsx"`) {
		t.Errorf("expected pages key in output:\n%s", got)
	}
	if !strings.Contains(got, `"./components/Counter.tsx"`) {
		t.Errorf("expected components key in output:\n%s", got)
	}
}

func TestWriteOverwritesArtifact(t *testing.T) {
	dir := t.TempDir()
	g := New()

	stale := []byte("// stale content that must disappear\n")
	if err := os.WriteFile(g.Path(dir), stale, 0o644); err != nil {
		t.Fatalf("failed to seed stale artifact: %v", err)
	}

	if err := g.Write(context.Background(), dir, testManifest()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, DefaultGenFile))
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if string(got) != string(g.Render(testManifest())) {
		t.Error("artifact was not fully overwritten with the rendered text")
	}
}

// failingFormatter always fails, exercising the unformatted-output fallback.
type failingFormatter struct{}

func (failingFormatter) Format(context.Context, []byte) ([]byte, error) {
	return nil, errors.New("formatter exploded")
}

func TestWriteFallsBackWhenFormatterFails(t *testing.T) {
	dir := t.TempDir()
	g := New(WithFormatter(failingFormatter{}))

	if err := g.Write(context.Background(), dir, testManifest()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := os.ReadFile(g.Path(dir))
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if string(got) != string(g.Render(testManifest())) {
		t.Error("expected raw rendered text when the formatter fails")
	}
}

func TestWriteFailsOnUnwritableTarget(t *testing.T) {
	dir := t.TempDir()
	// Use a directory as the artifact path to force a write failure.
	g := New(WithGenFile("occupied"))
	if err := os.Mkdir(filepath.Join(dir, "occupied"), 0o755); err != nil {
		t.Fatalf("failed to create blocking dir: %v", err)
	}

	if err := g.Write(context.Background(), dir, testManifest()); err == nil {
		t.Fatal("expected write error")
	}
}

func TestUpToDate(t *testing.T) {
	dir := t.TempDir()
	g := New()
	m := testManifest()
	ctx := context.Background()

	fresh, err := g.UpToDate(ctx, dir, m)
	if err != nil {
		t.Fatalf("UpToDate() error: %v", err)
	}
	if fresh {
		t.Error("missing artifact should be stale")
	}

	if err := g.Write(ctx, dir, m); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	fresh, err = g.UpToDate(ctx, dir, m)
	if err != nil {
		t.Fatalf("UpToDate() error: %v", err)
	}
	if !fresh {
		t.Error("freshly written artifact should be up to date")
	}

	changed := manifest.Manifest{Routes: []modpath.ModulePath{"/a.tsx"}}
	fresh, err = g.UpToDate(ctx, dir, changed)
	if err != nil {
		t.Fatalf("UpToDate() error: %v", err)
	}
	if fresh {
		t.Error("artifact should be stale after the manifest changed")
	}
}
