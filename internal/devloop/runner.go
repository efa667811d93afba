// SPDX-License-Identifier: MPL-2.0

package devloop

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"reef-cli/internal/codegen"
	"reef-cli/internal/manifest"
)

type (
	// GenerationError reports that the artifact could not be persisted
	// during a cycle. Callers branch on it with errors.As.
	GenerationError struct {
		// Path is the artifact location that could not be written.
		Path string
		Err  error
	}

	// EntrypointError reports that launching the application entrypoint
	// failed after all manifest work had settled.
	EntrypointError struct {
		Entrypoint string
		Err        error
	}
)

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying write error.
func (e *GenerationError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *EntrypointError) Error() string {
	return fmt.Sprintf("load entrypoint %q: %v", e.Entrypoint, e.Err)
}

// Unwrap returns the underlying launch error.
func (e *EntrypointError) Unwrap() error { return e.Err }

// Runner drives development-loop cycles over a project directory. All
// collaborators are injected; the zero value is not usable.
type Runner struct {
	// Collector scans the project tree.
	Collector *manifest.Collector
	// Generator renders and persists the artifact when the manifest is stale.
	Generator *codegen.Generator
	// Loader launches the application entrypoint. nil skips the launch
	// (used by one-shot generation).
	Loader EntrypointLoader
	// Logger receives cycle progress and warnings. nil uses log.Default().
	Logger *log.Logger

	// ProjectDir is the project root containing the artifact.
	ProjectDir string
	// Entrypoint is the module handed to the Loader, e.g. "main.ts".
	Entrypoint string
}

// Cycle runs one full development cycle against prev, the manifest from the
// previous cycle (manifest.Empty() on the first run), and returns the
// freshly scanned manifest for the caller to carry into the next cycle.
//
// The pipeline is strictly sequential: collect, compare, regenerate when
// stale, report diagnostics and route conflicts, launch the entrypoint. A
// missing routes or islands directory is absorbed as an empty category; any
// other I/O failure aborts the cycle before the entrypoint is launched.
// Once collection has succeeded, the returned manifest is always the current
// one, even when a later step fails, so the next cycle diffs against what
// was actually on disk.
func (r *Runner) Cycle(ctx context.Context, prev manifest.Manifest) (manifest.Manifest, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}

	current, diagnostics, err := r.Collector.Collect(ctx)
	if err != nil {
		return prev, err
	}

	for _, d := range diagnostics {
		if d.Severity == manifest.SeverityError {
			logger.Error(d.Message, "path", d.Path)
		} else {
			logger.Warn(d.Message, "path", d.Path)
		}
	}

	if manifest.Equal(prev, current) {
		logger.Debug("manifest unchanged, skipping generation")
	} else {
		if err := r.Generator.Write(ctx, r.ProjectDir, current); err != nil {
			return current, &GenerationError{Path: r.Generator.Path(r.ProjectDir), Err: err}
		}
		logger.Info("regenerated " + r.Generator.Path(r.ProjectDir))
	}

	if conflicts := manifest.FindConflicts(current.Routes); len(conflicts) > 0 {
		logger.Warn("an ambiguity between dynamic and static routes was detected",
			"directories", strings.Join(conflicts, ", "))
	}

	logger.Info(fmt.Sprintf("%d routes, %d islands", len(current.Routes), len(current.Islands)))

	if r.Loader != nil {
		if err := r.Loader.Load(ctx, r.Entrypoint); err != nil {
			return current, &EntrypointError{Entrypoint: r.Entrypoint, Err: err}
		}
	}

	return current, nil
}
