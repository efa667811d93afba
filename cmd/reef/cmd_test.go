// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reef-cli/internal/codegen"
)

// testProjectConfig keeps command tests hermetic: the entrypoint launch is a
// shell no-op and formatting is disabled so no host toolchain is needed.
const testProjectConfig = `run_cmd: "true"
format_cmd: ""
`

// newTestApp builds an App writing to in-memory buffers.
func newTestApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Stdout: &stdout, Stderr: &stderr})
	return app, &stdout, &stderr
}

// scaffoldProject creates a temp project directory with the hermetic test
// config plus the given files (paths relative to the project root).
func scaffoldProject(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	writeProjectFile(t, dir, "reef.config.cue", testProjectConfig)
	for name, content := range files {
		writeProjectFile(t, dir, name, content)
	}
	return dir
}

func writeProjectFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%q) failed: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) failed: %v", path, err)
	}
}

func TestRunManifest(t *testing.T) {
	t.Parallel()

	t.Run("writes the registry", func(t *testing.T) {
		t.Parallel()

		dir := scaffoldProject(t, map[string]string{
			"routes/index.tsx":       "export default () => null;",
			"routes/blog/[slug].tsx": "export default () => null;",
			"islands/Counter.tsx":    "export default () => null;",
		})
		app, stdout, _ := newTestApp()

		err := runManifest(context.Background(), app, manifestOptions{
			scope: projectScope{projectDir: dir},
		})
		if err != nil {
			t.Fatalf("runManifest() failed: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dir, codegen.DefaultGenFile))
		if err != nil {
			t.Fatalf("reading generated file failed: %v", err)
		}
		for _, want := range []string{`"./routes/index.tsx"`, `"./routes/blog/[slug].tsx"`, `"./islands/Counter.tsx"`} {
			if !strings.Contains(string(data), want) {
				t.Errorf("generated file missing %s", want)
			}
		}
		if !strings.Contains(stdout.String(), "2 routes, 1 islands") {
			t.Errorf("stdout = %q, want route/island summary", stdout.String())
		}
	})

	t.Run("check fails with exit code 1 when stale", func(t *testing.T) {
		t.Parallel()

		dir := scaffoldProject(t, map[string]string{
			"routes/index.tsx": "export default () => null;",
		})
		app, _, _ := newTestApp()

		err := runManifest(context.Background(), app, manifestOptions{
			scope: projectScope{projectDir: dir},
			check: true,
		})
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("runManifest(--check) error = %v, want *ExitError", err)
		}
		if exitErr.Code != 1 {
			t.Errorf("ExitError.Code = %d, want 1", exitErr.Code)
		}
	})

	t.Run("check passes after a write", func(t *testing.T) {
		t.Parallel()

		dir := scaffoldProject(t, map[string]string{
			"routes/index.tsx": "export default () => null;",
		})
		app, stdout, _ := newTestApp()

		if err := runManifest(context.Background(), app, manifestOptions{
			scope: projectScope{projectDir: dir},
		}); err != nil {
			t.Fatalf("runManifest() failed: %v", err)
		}
		if err := runManifest(context.Background(), app, manifestOptions{
			scope: projectScope{projectDir: dir},
			check: true,
		}); err != nil {
			t.Fatalf("runManifest(--check) failed after write: %v", err)
		}
		if !strings.Contains(stdout.String(), "up to date") {
			t.Errorf("stdout = %q, want up-to-date confirmation", stdout.String())
		}
	})

	t.Run("invalid config fails with the config card", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeProjectFile(t, dir, "reef.config.cue", `not_a_field: true`)
		app, _, stderr := newTestApp()

		err := runManifest(context.Background(), app, manifestOptions{
			scope: projectScope{projectDir: dir},
		})
		if err == nil {
			t.Fatal("runManifest() succeeded with an invalid config")
		}
		if !strings.Contains(stderr.String(), "reef.config.cue") {
			t.Errorf("stderr = %q, want the config issue card", stderr.String())
		}
	})

	t.Run("reports island subdirectory diagnostics", func(t *testing.T) {
		t.Parallel()

		dir := scaffoldProject(t, map[string]string{
			"islands/Counter.tsx":     "export default () => null;",
			"islands/nested/Deep.tsx": "export default () => null;",
		})
		app, _, stderr := newTestApp()

		if err := runManifest(context.Background(), app, manifestOptions{
			scope: projectScope{projectDir: dir},
		}); err != nil {
			t.Fatalf("runManifest() failed: %v", err)
		}
		if !strings.Contains(stderr.String(), "nested") {
			t.Errorf("stderr = %q, want island subdirectory diagnostic", stderr.String())
		}
	})
}

func TestRunRoutes(t *testing.T) {
	t.Parallel()

	t.Run("lists routes and islands", func(t *testing.T) {
		t.Parallel()

		dir := scaffoldProject(t, map[string]string{
			"routes/index.tsx":    "export default () => null;",
			"islands/Counter.tsx": "export default () => null;",
		})
		app, stdout, _ := newTestApp()

		if err := runRoutes(context.Background(), app, projectScope{projectDir: dir}); err != nil {
			t.Fatalf("runRoutes() failed: %v", err)
		}

		out := stdout.String()
		for _, want := range []string{"/index.tsx", "/Counter.tsx", "Routes", "Islands"} {
			if !strings.Contains(out, want) {
				t.Errorf("stdout = %q, want it to contain %q", out, want)
			}
		}
	})

	t.Run("warns about route conflicts", func(t *testing.T) {
		t.Parallel()

		dir := scaffoldProject(t, map[string]string{
			"routes/blog/[slug].tsx": "export default () => null;",
			"routes/blog/about.tsx":  "export default () => null;",
		})
		app, _, stderr := newTestApp()

		if err := runRoutes(context.Background(), app, projectScope{projectDir: dir}); err != nil {
			t.Fatalf("runRoutes() failed: %v", err)
		}
		if !strings.Contains(stderr.String(), "ambiguity between dynamic and static routes") {
			t.Errorf("stderr = %q, want conflict warning", stderr.String())
		}
	})

	t.Run("empty project lists nothing", func(t *testing.T) {
		t.Parallel()

		dir := scaffoldProject(t, nil)
		app, stdout, _ := newTestApp()

		if err := runRoutes(context.Background(), app, projectScope{projectDir: dir}); err != nil {
			t.Fatalf("runRoutes() failed: %v", err)
		}
		if !strings.Contains(stdout.String(), "(none)") {
			t.Errorf("stdout = %q, want empty-category markers", stdout.String())
		}
	})
}

func TestRunDevOnce(t *testing.T) {
	t.Parallel()

	t.Run("generates and launches in one cycle", func(t *testing.T) {
		t.Parallel()

		dir := scaffoldProject(t, map[string]string{
			"routes/index.tsx": "export default () => null;",
			"main.ts":          "// entrypoint",
		})
		app, _, _ := newTestApp()

		err := runDev(context.Background(), app, devOptions{
			scope: projectScope{projectDir: dir},
			once:  true,
		})
		if err != nil {
			t.Fatalf("runDev(--once) failed: %v", err)
		}

		if _, err := os.Stat(filepath.Join(dir, codegen.DefaultGenFile)); err != nil {
			t.Errorf("generated file missing after dev cycle: %v", err)
		}
	})

	t.Run("entrypoint failure surfaces as an error with its card", func(t *testing.T) {
		t.Parallel()

		dir := scaffoldProject(t, map[string]string{
			"routes/index.tsx": "export default () => null;",
		})
		// Override the hermetic no-op runner with one that always fails.
		writeProjectFile(t, dir, "reef.config.cue", `run_cmd: "false"
format_cmd: ""
`)
		app, _, stderr := newTestApp()

		err := runDev(context.Background(), app, devOptions{
			scope: projectScope{projectDir: dir},
			once:  true,
		})
		if err == nil {
			t.Fatal("runDev(--once) succeeded, want entrypoint failure")
		}
		if !strings.Contains(stderr.String(), "entrypoint") {
			t.Errorf("stderr = %q, want the entrypoint issue card", stderr.String())
		}
	})

	t.Run("missing project markers show the project card", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		app, _, stderr := newTestApp()

		// The cycle outcome depends on the host's default runner; only the
		// up-front project detection is under test here.
		_ = runDev(context.Background(), app, devOptions{
			scope: projectScope{projectDir: dir},
			once:  true,
		})
		if !strings.Contains(stderr.String(), "No reef project") {
			t.Errorf("stderr = %q, want the no-project issue card", stderr.String())
		}
	})

	t.Run("scan failure aborts the cycle", func(t *testing.T) {
		t.Parallel()

		dir := scaffoldProject(t, nil)
		// A regular file where the routes directory should be makes the
		// readiness probe fail with a non-NotExist error.
		writeProjectFile(t, dir, "routes", "not a directory")
		app, _, _ := newTestApp()

		err := runDev(context.Background(), app, devOptions{
			scope: projectScope{projectDir: dir},
			once:  true,
		})
		if err == nil {
			t.Fatal("runDev(--once) succeeded, want scan failure")
		}
		if _, statErr := os.Stat(filepath.Join(dir, codegen.DefaultGenFile)); statErr == nil {
			t.Error("generated file written despite scan failure")
		}
	})
}

func TestRunInit(t *testing.T) {
	t.Parallel()

	t.Run("scaffolds a working project", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		app, stdout, _ := newTestApp()

		if err := runInit(context.Background(), app, dir, false); err != nil {
			t.Fatalf("runInit() failed: %v", err)
		}

		for _, name := range []string{
			"reef.config.cue",
			"routes/index.tsx",
			"islands/Counter.tsx",
			"main.ts",
			codegen.DefaultGenFile,
		} {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err != nil {
				t.Errorf("scaffold missing %s: %v", name, err)
			}
		}

		data, err := os.ReadFile(filepath.Join(dir, codegen.DefaultGenFile))
		if err != nil {
			t.Fatalf("reading generated file failed: %v", err)
		}
		if !strings.Contains(string(data), `"./routes/index.tsx"`) {
			t.Error("initial registry does not include the sample route")
		}
		if !strings.Contains(stdout.String(), "Created reef project") {
			t.Errorf("stdout = %q, want creation confirmation", stdout.String())
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		app, _, _ := newTestApp()

		if err := runInit(context.Background(), app, dir, false); err != nil {
			t.Fatalf("first runInit() failed: %v", err)
		}
		if err := runInit(context.Background(), app, dir, false); err == nil {
			t.Fatal("second runInit() succeeded, want already-exists error")
		}
		if err := runInit(context.Background(), app, dir, true); err != nil {
			t.Fatalf("runInit(force) failed: %v", err)
		}
	})
}

func TestShowConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeProjectFile(t, dir, "reef.config.cue", `routes_dir: "pages"
entrypoint: "serve.ts"
`)
	app, stdout, _ := newTestApp()

	if err := showConfig(context.Background(), app, projectScope{projectDir: dir}); err != nil {
		t.Fatalf("showConfig() failed: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "pages") {
		t.Errorf("stdout = %q, want overridden routes_dir", out)
	}
	if !strings.Contains(out, "serve.ts") {
		t.Errorf("stdout = %q, want overridden entrypoint", out)
	}
	if !strings.Contains(out, "islands") {
		t.Errorf("stdout = %q, want default islands_dir", out)
	}
}
