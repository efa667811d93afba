// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"reef-cli/internal/issue"
)

const (
	// ConfigFileName is the optional per-project configuration file, looked
	// up in the project root.
	ConfigFileName = "reef.config.cue"

	// maxConfigFileSize caps config reads; a project config larger than this
	// is certainly a mistake.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// loadWithOptions performs option-driven config loading. Callers that want
// caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("routes_dir", defaults.RoutesDir)
	v.SetDefault("islands_dir", defaults.IslandsDir)
	v.SetDefault("gen_file", defaults.GenFile)
	v.SetDefault("entrypoint", defaults.Entrypoint)
	v.SetDefault("run_cmd", defaults.RunCmd)
	v.SetDefault("format_cmd", defaults.FormatCmd)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	v.SetDefault("watch.ignore", defaults.Watch.Ignore)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	resolvedPath := ""

	// An explicit --config path is used exclusively and must exist; the
	// conventional per-project file is optional.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Omit --config to use the project's " + ConfigFileName).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", wrapParseError(err, opts.ConfigFilePath)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		projectDir := opts.ProjectDir
		if projectDir == "" {
			projectDir = "."
		}
		path := filepath.Join(projectDir, ConfigFileName)
		if fileExists(path) {
			if err := loadCUEIntoViper(v, path); err != nil {
				return nil, "", wrapParseError(err, path)
			}
			resolvedPath = path
		}
		// No config file found: run on defaults, no error.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Directory settings must be plain names inside the project root").
			WithSuggestion("routes_dir and islands_dir must name different directories").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func wrapParseError(err error, path string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the settings match the #Config schema (see 'reef config --help')").
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into viper.
//
// The config decodes to map[string]any (not a struct) so viper can layer it
// over the defaults, and validation uses Concrete(false) because every
// config field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}
	schemaRoot := schemaValue.LookupPath(cue.ParsePath("#Config"))
	if schemaRoot.Err() != nil {
		return fmt.Errorf("internal error: #Config definition not found: %w", schemaRoot.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return fmt.Errorf("failed to parse CUE: %w", userValue.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}

	var settings map[string]any
	if err := unified.Decode(&settings); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	if err := v.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
