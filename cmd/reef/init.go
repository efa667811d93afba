// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"reef-cli/internal/codegen"
	"reef-cli/internal/config"
	"reef-cli/internal/manifest"

	"github.com/spf13/cobra"
)

// Scaffold file contents for `reef init`. The config file ships fully
// commented out so a fresh project runs on the built-in defaults until the
// user opts into an override.
const (
	initConfigFile = `// reef project configuration. All fields are optional; the commented
// values below are the defaults.
//
// routes_dir:  "routes"
// islands_dir: "islands"
// gen_file:    "reef.gen.ts"
// entrypoint:  "main.ts"
// run_cmd:     "deno run -A"
// format_cmd:  "deno fmt --ext ts -"
// watch: {
// 	debounce_ms: 200
// 	ignore: []
// }
// ui: verbose: false
`

	initIndexRoute = `export default function Home() {
  return (
    <main>
      <h1>Welcome to reef</h1>
      <p>Edit routes/index.tsx to change this page.</p>
    </main>
  );
}
`

	initCounterIsland = `import { useState } from "preact/hooks";

export default function Counter() {
  const [count, setCount] = useState(0);
  return (
    <div>
      <p>{count}</p>
      <button onClick={() => setCount(count + 1)}>+1</button>
    </div>
  );
}
`

	initEntrypoint = `import manifest from "./reef.gen.ts";

const routes = Object.keys(manifest.routes).length;
const islands = Object.keys(manifest.islands).length;
console.log("reef project loaded:", routes, "routes,", islands, "islands");
`
)

// newInitCommand creates the `reef init` command.
func newInitCommand(app *App) *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a new reef project",
		Long: `Scaffold a new reef project with a sample route, a sample island, an
application entrypoint, and a commented configuration file, then
generate the initial module registry.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd.Context(), app, dir, force)
		},
	}

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")

	return initCmd
}

func runInit(ctx context.Context, app *App, dir string, force bool) error {
	files := map[string]string{
		config.ConfigFileName:                   initConfigFile,
		filepath.Join("routes", "index.tsx"):    initIndexRoute,
		filepath.Join("islands", "Counter.tsx"): initCounterIsland,
		config.DefaultConfig().Entrypoint:       initEntrypoint,
	}

	for name := range files {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("file '%s' already exists. Use --force to overwrite", path)
		}
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	// Seed the registry so the entrypoint's import resolves on first run.
	// The scaffold skips formatting; the first dev cycle formats it.
	collector := manifest.New(dir)
	generator := codegen.New(codegen.WithFormatter(codegen.Identity{}))
	current, _, err := collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan scaffold: %w", err)
	}
	if err := generator.Write(ctx, dir, current); err != nil {
		return fmt.Errorf("failed to generate registry: %w", err)
	}

	absPath, _ := filepath.Abs(dir)
	fmt.Fprintf(app.stdout, "%s Created reef project in %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintln(app.stdout, "  1. Add route modules under routes/ and island modules under islands/")
	fmt.Fprintln(app.stdout, "  2. Run 'reef dev' to start the development loop")
	fmt.Fprintln(app.stdout, "  3. Run 'reef routes' to inspect the discovered modules")

	return nil
}
