// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"reef-cli/internal/manifest"
)

// DefaultGenFile is the conventional name of the generated artifact,
// overwritten in full in the project root on every regeneration.
const DefaultGenFile = "reef.gen.ts"

// banner is the fixed header of every generated artifact.
const banner = `// DO NOT EDIT. This file is generated by reef.
// This file SHOULD be checked into source version control.
// It is updated automatically while a development server is running.
`

type (
	// Generator renders a Manifest into the registration artifact and
	// writes it to the project root.
	Generator struct {
		formatter  Formatter
		logger     *log.Logger
		routesDir  string
		islandsDir string
		genFile    string
	}

	// Option customizes a Generator.
	Option func(*Generator)
)

// WithFormatter overrides the Formatter (default Identity).
func WithFormatter(f Formatter) Option {
	return func(g *Generator) { g.formatter = f }
}

// WithLogger overrides the logger used for formatting warnings.
func WithLogger(logger *log.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithRoutesDir overrides the routes directory name used in import keys.
func WithRoutesDir(name string) Option {
	return func(g *Generator) { g.routesDir = name }
}

// WithIslandsDir overrides the islands directory name used in import keys.
func WithIslandsDir(name string) Option {
	return func(g *Generator) { g.islandsDir = name }
}

// WithGenFile overrides the artifact filename.
func WithGenFile(name string) Option {
	return func(g *Generator) { g.genFile = name }
}

// New creates a Generator. Without options it renders the conventional
// layout (routes/, islands/, reef.gen.ts) and performs no formatting.
func New(opts ...Option) *Generator {
	g := &Generator{
		formatter:  Identity{},
		logger:     log.Default(),
		routesDir:  manifest.DefaultRoutesDir,
		islandsDir: manifest.DefaultIslandsDir,
		genFile:    DefaultGenFile,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Path returns the artifact location for a project directory.
func (g *Generator) Path(projectDir string) string {
	return filepath.Join(projectDir, g.genFile)
}

// Render produces the artifact text for a manifest: the fixed banner, one
// positionally numbered import per route ($0, $1, ...) and per island
// ($$0, $$1, ...), and a default-exported object whose routes/islands maps
// key each imported binding by its "./routes<path>" / "./islands<path>"
// string, in manifest order.
func (g *Generator) Render(m manifest.Manifest) []byte {
	var b bytes.Buffer
	b.WriteString(banner)
	b.WriteByte('\n')

	for i, route := range m.Routes {
		fmt.Fprintf(&b, "import * as $%d from %s;\n", i, g.routeKey(route.String()))
	}
	for i, island := range m.Islands {
		fmt.Fprintf(&b, "import * as $$%d from %s;\n", i, g.islandKey(island.String()))
	}

	b.WriteString("\nconst manifest = {\n")
	b.WriteString("  routes: {\n")
	for i, route := range m.Routes {
		fmt.Fprintf(&b, "    %s: $%d,\n", g.routeKey(route.String()), i)
	}
	b.WriteString("  },\n")
	b.WriteString("  islands: {\n")
	for i, island := range m.Islands {
		fmt.Fprintf(&b, "    %s: $$%d,\n", g.islandKey(island.String()), i)
	}
	b.WriteString("  },\n")
	b.WriteString("  baseUrl: import.meta.url,\n")
	b.WriteString("};\n\nexport default manifest;\n")

	return b.Bytes()
}

func (g *Generator) routeKey(path string) string {
	return strconv.Quote("./" + g.routesDir + path)
}

func (g *Generator) islandKey(path string) string {
	return strconv.Quote("./" + g.islandsDir + path)
}

// Write renders, formats, and fully overwrites the artifact in projectDir.
// A formatter failure is downgraded to a warning and the unformatted text is
// written instead, so generation never depends on an installed formatter.
// A write failure is returned as an error.
func (g *Generator) Write(ctx context.Context, projectDir string, m manifest.Manifest) error {
	out := g.rendered(ctx, m)
	path := g.Path(projectDir)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write generated manifest %q: %w", path, err)
	}
	return nil
}

// UpToDate reports whether the artifact on disk is byte-identical to what
// Write would produce for m. A missing artifact is simply stale, not an
// error.
func (g *Generator) UpToDate(ctx context.Context, projectDir string, m manifest.Manifest) (bool, error) {
	want := g.rendered(ctx, m)

	got, err := os.ReadFile(g.Path(projectDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read generated manifest: %w", err)
	}

	return bytes.Equal(got, want), nil
}

// rendered applies the formatter to the rendered text, falling back to the
// raw rendering when formatting fails.
func (g *Generator) rendered(ctx context.Context, m manifest.Manifest) []byte {
	src := g.Render(m)
	formatted, err := g.formatter.Format(ctx, src)
	if err != nil {
		g.logger.Warn("formatting generated manifest failed, writing unformatted output", "err", err)
		return src
	}
	return formatted
}
