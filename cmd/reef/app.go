// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"reef-cli/internal/codegen"
	"reef-cli/internal/config"
	"reef-cli/internal/devloop"
	"reef-cli/internal/issue"
	"reef-cli/internal/manifest"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer — all Cobra command handlers receive an App
	// reference and delegate through its Config provider and output streams.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests supply
	// buffers and fake providers to isolate command behavior.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// projectScope carries the per-invocation source selection resolved
	// from the global flags: which project directory to operate on and
	// which config file to read.
	projectScope struct {
		projectDir string
		configPath string
		verbose    bool
	}
)

// NewApp builds an App, substituting production defaults for nil dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadProjectConfig resolves the effective configuration for a scope. The
// --verbose flag wins over the config file; the config file wins over the
// built-in defaults. A load failure renders the config issue card before
// the error travels up the normal RunE path.
func (app *App) loadProjectConfig(ctx context.Context, scope projectScope) (*config.Config, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: scope.configPath,
		ProjectDir:     scope.projectDir,
	})
	if err != nil {
		app.renderIssueCard(issue.ConfigInvalidId)
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the structured logger all commands report through. Verbose
// mode lowers the level to debug so skipped-generation cycles become visible.
func (app *App) newLogger(scope projectScope, cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(app.stderr, log.Options{
		ReportTimestamp: true,
	})
	if scope.verbose || (cfg != nil && cfg.UI.Verbose) {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// newCollector builds the project scanner for the resolved configuration.
func newCollector(scope projectScope, cfg *config.Config, logger *log.Logger) *manifest.Collector {
	return manifest.New(scope.projectDir,
		manifest.WithRoutesDir(cfg.RoutesDir),
		manifest.WithIslandsDir(cfg.IslandsDir),
		manifest.WithLogger(logger),
	)
}

// newGenerator builds the artifact generator for the resolved configuration.
// Formatting is skipped when noFormat is set or the config disables it.
func newGenerator(scope projectScope, cfg *config.Config, logger *log.Logger, noFormat bool) *codegen.Generator {
	var formatter codegen.Formatter = codegen.Identity{}
	if !noFormat && cfg.FormatCmd != "" {
		formatter = &codegen.ShellFormatter{Command: cfg.FormatCmd, Dir: scope.projectDir}
	}
	return codegen.New(
		codegen.WithRoutesDir(cfg.RoutesDir),
		codegen.WithIslandsDir(cfg.IslandsDir),
		codegen.WithGenFile(cfg.GenFile),
		codegen.WithFormatter(formatter),
		codegen.WithLogger(logger),
	)
}

// newRunner assembles the full development-loop pipeline. withEntrypoint
// controls whether cycles end by launching the application module; one-shot
// generation commands leave it off.
func (app *App) newRunner(scope projectScope, cfg *config.Config, logger *log.Logger, noFormat, withEntrypoint bool) *devloop.Runner {
	runner := &devloop.Runner{
		Collector:  newCollector(scope, cfg, logger),
		Generator:  newGenerator(scope, cfg, logger, noFormat),
		Logger:     logger,
		ProjectDir: scope.projectDir,
		Entrypoint: cfg.Entrypoint,
	}
	if withEntrypoint {
		runner.Loader = &devloop.ShellLoader{
			RunCommand: cfg.RunCmd,
			Dir:        scope.projectDir,
			Stdout:     app.stdout,
			Stderr:     app.stderr,
		}
	}
	return runner
}
