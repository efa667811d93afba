// SPDX-License-Identifier: MPL-2.0

// Package watch drives repeated development-loop cycles by monitoring a
// project's module directories. It is deliberately narrow: only events under
// the configured category directories (routes and islands by convention)
// trigger the callback, and rapid event bursts are debounced so an editor
// save fires a single cycle.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last filesystem event before
// the callback fires, coalescing bursts such as an editor writing then
// renaming a temp file.
const DefaultDebounce = 200 * time.Millisecond

// defaultIgnores lists path patterns that never trigger cycles, covering VCS
// metadata, dependency caches, editor swap files, and OS metadata noise.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// ProjectDir is the project root. All registered directories and
		// reported paths are relative to it. Empty defaults to the current
		// working directory.
		ProjectDir string

		// Dirs are the category directory names under ProjectDir whose
		// contents trigger cycles (e.g. "routes", "islands"). Directories
		// that do not exist yet are picked up once created.
		Dirs []string

		// Ignore are additional doublestar glob patterns for paths that
		// should never trigger cycles, merged with the built-in defaults.
		Ignore []string

		// Debounce is the quiet period before the callback fires. Zero or
		// negative values fall back to DefaultDebounce.
		Debounce time.Duration

		// OnChange runs after the debounce window closes. A nil callback is
		// a no-op.
		OnChange func(ctx context.Context) error

		// Stderr receives watcher diagnostics. nil defaults to os.Stderr.
		Stderr io.Writer
	}

	// Watcher monitors the project's module directories and fires a
	// debounced callback when they change. Run must be called exactly once.
	Watcher struct {
		cfg        Config
		fsw        *fsnotify.Watcher
		ignores    []string
		patterns   []string
		stderr     io.Writer
		debounce   time.Duration
		projectDir string
		started    atomic.Bool
	}
)

// New creates a Watcher from the given Config. It resolves ProjectDir to an
// absolute path, initialises the underlying fsnotify watcher, and registers
// the project root plus every existing directory under the configured
// category directories.
func New(cfg Config) (*Watcher, error) {
	projectDir := cfg.ProjectDir
	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		projectDir = wd
	}

	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve project directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// Validate extra ignore globs eagerly so invalid patterns fail at
	// construction time rather than silently never matching.
	for _, pat := range cfg.Ignore {
		if _, matchErr := doublestar.Match(pat, ""); matchErr != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("watch: invalid ignore pattern %q: %w", pat, matchErr)
		}
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	patterns := make([]string, 0, 2*len(cfg.Dirs))
	for _, dir := range cfg.Dirs {
		patterns = append(patterns, dir, dir+"/**")
	}

	w := &Watcher{
		cfg:        cfg,
		fsw:        fsw,
		ignores:    ignores,
		patterns:   patterns,
		stderr:     stderr,
		debounce:   debounce,
		projectDir: absDir,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "watch: close after init failure: %v\n", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean context
// cancellation and propagates fatal watcher errors. Run must be called
// exactly once; a second call returns an error immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending bool
		timer   *time.Timer
		running atomic.Bool
	)

	// fire invokes the OnChange callback once per debounce window. The
	// skip-if-busy guard prevents overlapping cycles when a cycle outlasts
	// the debounce period; a retry is scheduled so the pending change is
	// not lost.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if !pending {
			mu.Unlock()
			return
		}
		pending = false
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx); err != nil {
				fmt.Fprintf(w.stderr, "watch: cycle error: %v\n", err)
			}
		}
	}

	// Ensure the timer channel is drained on exit. The timer is accessed
	// under mu because it is written by the event loop under the same lock.
	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil && !localTimer.Stop() {
			select {
			case <-localTimer.C:
			default:
			}
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			rel, err := filepath.Rel(w.projectDir, evt.Name)
			if err != nil {
				rel = evt.Name
			}

			if w.isIgnored(rel) || !w.matchesDirs(rel) {
				continue
			}

			// Register directories created after startup (including the
			// category roots themselves) so nested events keep flowing.
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			mu.Lock()
			pending = true
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// Resource exhaustion means the watcher is fundamentally broken;
			// isFatalFsnotifyError is platform-specific (watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// addDirectories registers the project root plus every existing directory
// under the configured category directories.
func (w *Watcher) addDirectories() error {
	// The project root itself is watched so that category directories
	// created after startup are noticed.
	if err := w.fsw.Add(w.projectDir); err != nil {
		return fmt.Errorf("watch: add project directory %q: %w", w.projectDir, err)
	}

	for _, dir := range w.cfg.Dirs {
		root := filepath.Join(w.projectDir, dir)
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue // not created yet
		}

		walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, walkDirErr error) error {
			if walkDirErr != nil {
				// Skip inaccessible paths rather than aborting the walk.
				fmt.Fprintf(w.stderr, "watch: skipping inaccessible path %q: %v\n", path, walkDirErr)
				return nil //nolint:nilerr // intentional skip
			}
			if !d.IsDir() {
				return nil
			}

			rel, relErr := filepath.Rel(w.projectDir, path)
			if relErr != nil {
				return nil //nolint:nilerr // skip paths that cannot be made relative
			}
			if w.isIgnored(rel) || w.isIgnored(rel+"/") {
				return filepath.SkipDir
			}

			if addErr := w.fsw.Add(path); addErr != nil {
				return fmt.Errorf("watch: add directory %q: %w", path, addErr)
			}
			return nil
		})
		if walkErr != nil {
			return fmt.Errorf("watch: walk %q: %w", root, walkErr)
		}
	}

	return nil
}

// maybeAddDir registers path with the fsnotify watcher if it is a
// non-ignored directory.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	rel, err := filepath.Rel(w.projectDir, path)
	if err != nil {
		return
	}
	if w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return
	}

	if addErr := w.fsw.Add(path); addErr != nil {
		fmt.Fprintf(w.stderr, "watch: add new directory %q: %v\n", path, addErr)
	}
}

// isIgnored reports whether rel (relative to ProjectDir) matches any ignore
// pattern.
func (w *Watcher) isIgnored(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// matchesDirs reports whether rel falls under one of the watched category
// directories. With no configured directories, everything matches.
func (w *Watcher) matchesDirs(rel string) bool {
	if len(w.patterns) == 0 {
		return true
	}
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.patterns {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	out := make([]string, len(defaultIgnores))
	copy(out, defaultIgnores)
	return out
}
