// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	"reef-cli/internal/issue"
	"reef-cli/internal/manifest"
	"reef-cli/internal/watch"

	"github.com/spf13/cobra"
)

type devOptions struct {
	scope    projectScope
	once     bool
	noFormat bool
	debounce time.Duration
}

// newDevCommand creates the `reef dev` command.
func newDevCommand(app *App) *cobra.Command {
	var (
		once     bool
		noFormat bool
		debounce time.Duration
	)

	devCmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the development loop",
		Long: `Run the development loop: scan the project, regenerate the module
registry when it is out of date, then launch the application entrypoint.

Without --once the loop keeps running, watching the routes and islands
directories and re-running the cycle on every change (Ctrl+C to stop).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(cmd.Context(), app, devOptions{
				scope:    currentScope(),
				once:     once,
				noFormat: noFormat,
				debounce: debounce,
			})
		},
	}

	devCmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit")
	devCmd.Flags().BoolVar(&noFormat, "no-format", false, "skip formatting the generated file")
	devCmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before a change triggers a cycle (overrides config)")

	return devCmd
}

func runDev(ctx context.Context, app *App, opts devOptions) error {
	cfg, err := app.loadProjectConfig(ctx, opts.scope)
	if err != nil {
		return err
	}

	logger := app.newLogger(opts.scope, cfg)
	runner := app.newRunner(opts.scope, cfg, logger, opts.noFormat, true)

	if !looksLikeProject(opts.scope, cfg) {
		app.renderIssueCard(issue.ProjectNotFoundId)
	}

	// First cycle runs immediately; in watch mode its failure is reported
	// but not fatal, since the user may fix the project and save again.
	prev, err := runner.Cycle(ctx, manifest.Manifest{})
	if err != nil {
		if opts.once {
			return app.failWithCard(err)
		}
		app.reportFailure(issue.WrapWithOperation(err, "run initial cycle"), opts.scope.verbose)
	}

	if opts.once {
		return nil
	}

	debounce := opts.debounce
	if debounce <= 0 && cfg.Watch.DebounceMs > 0 {
		debounce = time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	}

	fmt.Fprintf(app.stdout, "%s Watching %s and %s for changes (Ctrl+C to stop)...\n",
		VerboseHighlightStyle.Render("→"), PathStyle.Render(cfg.RoutesDir+"/"), PathStyle.Render(cfg.IslandsDir+"/"))

	w, err := watch.New(watch.Config{
		ProjectDir: opts.scope.projectDir,
		Dirs:       []string{cfg.RoutesDir, cfg.IslandsDir},
		Ignore:     cfg.Watch.Ignore,
		Debounce:   debounce,
		Stderr:     app.stderr,
		OnChange: func(ctx context.Context) error {
			current, cycleErr := runner.Cycle(ctx, prev)
			prev = current
			if cycleErr != nil {
				app.reportFailure(cycleErr, opts.scope.verbose)
			}
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	return w.Run(ctx)
}
