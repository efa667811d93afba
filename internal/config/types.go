// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"reef-cli/internal/codegen"
	"reef-cli/internal/devloop"
	"reef-cli/internal/manifest"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidDirName is the sentinel error wrapped by InvalidDirNameError.
	ErrInvalidDirName = errors.New("invalid directory name")
	// ErrInvalidFileName is the sentinel error wrapped by InvalidFileNameError.
	ErrInvalidFileName = errors.New("invalid file name")
)

type (
	// Config is the resolved reef project configuration.
	Config struct {
		// RoutesDir is the routes directory name, relative to the project root.
		RoutesDir string `mapstructure:"routes_dir"`
		// IslandsDir is the islands directory name, relative to the project root.
		IslandsDir string `mapstructure:"islands_dir"`
		// GenFile is the generated artifact filename in the project root.
		GenFile string `mapstructure:"gen_file"`
		// Entrypoint is the application module launched after each dev cycle.
		Entrypoint string `mapstructure:"entrypoint"`
		// RunCmd is the command prefix used to launch the entrypoint.
		RunCmd string `mapstructure:"run_cmd"`
		// FormatCmd is the command the generated artifact is piped through.
		// Empty disables formatting.
		FormatCmd string `mapstructure:"format_cmd"`
		// Watch holds development-loop watcher settings.
		Watch WatchConfig `mapstructure:"watch"`
		// UI holds terminal output settings.
		UI UIConfig `mapstructure:"ui"`
	}

	// WatchConfig holds development-loop watcher settings.
	WatchConfig struct {
		// DebounceMs is the quiet period in milliseconds before a changed
		// tree triggers a new cycle. Zero uses the watcher default.
		DebounceMs int `mapstructure:"debounce_ms"`
		// Ignore are extra glob patterns that never trigger cycles.
		Ignore []string `mapstructure:"ignore"`
	}

	// UIConfig holds terminal output settings.
	UIConfig struct {
		// Verbose enables verbose diagnostic output.
		Verbose bool `mapstructure:"verbose"`
	}

	// InvalidConfigError reports a cross-field constraint violation.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		Reason string
	}

	// InvalidDirNameError reports a category directory name that is empty or
	// escapes the project root. It wraps ErrInvalidDirName.
	InvalidDirNameError struct {
		Field string
		Value string
	}

	// InvalidFileNameError reports a filename setting that is empty or
	// contains a path separator. It wraps ErrInvalidFileName.
	InvalidFileNameError struct {
		Field string
		Value string
	}
)

// DefaultEntrypoint is the conventional application entrypoint module.
const DefaultEntrypoint = "main.ts"

// DefaultConfig returns the conventional project configuration. Each default
// is owned by the package that interprets it; config only assembles them.
func DefaultConfig() *Config {
	return &Config{
		RoutesDir:  manifest.DefaultRoutesDir,
		IslandsDir: manifest.DefaultIslandsDir,
		GenFile:    codegen.DefaultGenFile,
		Entrypoint: DefaultEntrypoint,
		RunCmd:     devloop.DefaultRunCommand,
		FormatCmd:  codegen.DefaultFormatCommand,
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", e.Reason)
}

// Unwrap returns the sentinel for errors.Is().
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface.
func (e *InvalidDirNameError) Error() string {
	return fmt.Sprintf("invalid directory name for %s: %q (must be a plain directory name inside the project)", e.Field, e.Value)
}

// Unwrap returns the sentinel for errors.Is().
func (e *InvalidDirNameError) Unwrap() error { return ErrInvalidDirName }

// Error implements the error interface.
func (e *InvalidFileNameError) Error() string {
	return fmt.Sprintf("invalid file name for %s: %q (must be a plain filename in the project root)", e.Field, e.Value)
}

// Unwrap returns the sentinel for errors.Is().
func (e *InvalidFileNameError) Unwrap() error { return ErrInvalidFileName }

// Validate checks the constraints the CUE schema cannot express.
func (c *Config) Validate() error {
	if err := validDirName("routes_dir", c.RoutesDir); err != nil {
		return err
	}
	if err := validDirName("islands_dir", c.IslandsDir); err != nil {
		return err
	}
	if c.RoutesDir == c.IslandsDir {
		return &InvalidConfigError{Reason: "routes_dir and islands_dir must differ"}
	}
	if err := validFileName("gen_file", c.GenFile); err != nil {
		return err
	}
	if strings.TrimSpace(c.Entrypoint) == "" {
		return &InvalidFileNameError{Field: "entrypoint", Value: c.Entrypoint}
	}
	if c.Watch.DebounceMs < 0 {
		return &InvalidConfigError{Reason: "watch.debounce_ms must not be negative"}
	}
	return nil
}

// validDirName requires a plain single-segment directory name.
func validDirName(field, value string) error {
	if strings.TrimSpace(value) == "" ||
		strings.ContainsAny(value, `/\`) ||
		value == "." || value == ".." {
		return &InvalidDirNameError{Field: field, Value: value}
	}
	return nil
}

// validFileName requires a plain filename with no path component.
func validFileName(field, value string) error {
	if strings.TrimSpace(value) == "" || strings.ContainsAny(value, `/\`) {
		return &InvalidFileNameError{Field: field, Value: value}
	}
	return nil
}
