// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"reef-cli/pkg/modpath"
)

const (
	// DefaultRoutesDir is the conventional routes directory name.
	DefaultRoutesDir = "routes"
	// DefaultIslandsDir is the conventional islands directory name.
	DefaultIslandsDir = "islands"
)

// moduleExtensions is the fixed allow-list of module file extensions.
// Files with any other extension are silently skipped in both categories.
var moduleExtensions = []string{".tsx", ".jsx", ".ts", ".js"}

// hasModuleExtension reports whether name ends in an allow-listed extension.
func hasModuleExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, allowed := range moduleExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

type (
	// Collector discovers route and island modules under a project directory.
	Collector struct {
		projectDir string
		routesDir  string
		islandsDir string
		logger     *log.Logger
	}

	// Option customizes a Collector.
	Option func(*Collector)
)

// WithRoutesDir overrides the conventional routes directory name.
func WithRoutesDir(name string) Option {
	return func(c *Collector) { c.routesDir = name }
}

// WithIslandsDir overrides the conventional islands directory name.
func WithIslandsDir(name string) Option {
	return func(c *Collector) { c.islandsDir = name }
}

// WithLogger overrides the logger used for scan tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Collector) { c.logger = logger }
}

// New creates a Collector rooted at projectDir.
func New(projectDir string, opts ...Option) *Collector {
	c := &Collector{
		projectDir: projectDir,
		routesDir:  DefaultRoutesDir,
		islandsDir: DefaultIslandsDir,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RoutesRoot returns the absolute-or-relative path of the routes directory.
func (c *Collector) RoutesRoot() string {
	return filepath.Join(c.projectDir, c.routesDir)
}

// IslandsRoot returns the path of the islands directory.
func (c *Collector) IslandsRoot() string {
	return filepath.Join(c.projectDir, c.islandsDir)
}

// Collect scans both category directories and returns a fresh Manifest plus
// any non-fatal diagnostics. A missing routes or islands directory yields an
// empty list for that category; any other filesystem failure is returned as
// an error and no partial manifest is produced.
func (c *Collector) Collect(ctx context.Context) (Manifest, []Diagnostic, error) {
	select {
	case <-ctx.Done():
		return Manifest{}, nil, fmt.Errorf("collect manifest canceled: %w", ctx.Err())
	default:
	}

	routes, err := c.collectRoutes()
	if err != nil {
		return Manifest{}, nil, err
	}

	islands, diagnostics, err := c.collectIslands()
	if err != nil {
		return Manifest{}, nil, err
	}

	c.logger.Debug("collected manifest",
		"routes", len(routes), "islands", len(islands))

	return Manifest{Routes: routes, Islands: islands}, diagnostics, nil
}

// collectRoutes recursively enumerates module files under the routes root.
// Subdirectories are permitted and become part of the ModulePath
// (e.g. "/blog/[slug].tsx").
func (c *Collector) collectRoutes() ([]modpath.ModulePath, error) {
	root := c.RoutesRoot()

	// Readiness probe: a single listing surfaces "not found" consistently
	// before the walk starts. It performs no filtering.
	if _, err := os.ReadDir(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list routes directory %q: %w", root, err)
	}

	var paths []modpath.ModulePath
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !hasModuleExtension(d.Name()) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		paths = append(paths, modpath.FromRel(rel))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk routes directory %q: %w", root, walkErr)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths, nil
}

// collectIslands enumerates only the immediate entries of the islands root.
// A subdirectory is a project-layout violation: it produces an
// "island_subdirectory" diagnostic and is excluded, while sibling island
// files are still collected.
func (c *Collector) collectIslands() ([]modpath.ModulePath, []Diagnostic, error) {
	root := c.IslandsRoot()

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("list islands directory %q: %w", root, err)
	}

	var (
		paths       []modpath.ModulePath
		diagnostics []Diagnostic
	)
	for _, entry := range entries {
		if entry.IsDir() {
			diagnostics = append(diagnostics, Diagnostic{
				Severity: SeverityError,
				Code:     "island_subdirectory",
				Message: fmt.Sprintf(
					"found directory %q in %s/: islands must be flat files, subdirectories are not supported",
					entry.Name(), c.islandsDir),
				Path: filepath.Join(root, entry.Name()),
			})
			continue
		}
		if !hasModuleExtension(entry.Name()) {
			continue
		}
		paths = append(paths, modpath.ModulePath("/"+entry.Name()))
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths, diagnostics, nil
}
