// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"reef-cli/internal/issue"
	"reef-cli/internal/manifest"

	"github.com/spf13/cobra"
)

type manifestOptions struct {
	scope    projectScope
	check    bool
	noFormat bool
}

// newManifestCommand creates the `reef manifest` command.
func newManifestCommand(app *App) *cobra.Command {
	var (
		check    bool
		noFormat bool
	)

	manifestCmd := &cobra.Command{
		Use:   "manifest",
		Short: "Regenerate the module registry",
		Long: `Scan the project and rewrite the generated module registry.

With --check the file is not rewritten; instead the command exits with
status 1 when the registry no longer matches the project tree, which is
the shape CI pipelines want.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifest(cmd.Context(), app, manifestOptions{
				scope:    currentScope(),
				check:    check,
				noFormat: noFormat,
			})
		},
	}

	manifestCmd.Flags().BoolVar(&check, "check", false, "verify the registry is current without rewriting it")
	manifestCmd.Flags().BoolVar(&noFormat, "no-format", false, "skip formatting the generated file")

	return manifestCmd
}

func runManifest(ctx context.Context, app *App, opts manifestOptions) error {
	cfg, err := app.loadProjectConfig(ctx, opts.scope)
	if err != nil {
		return err
	}

	logger := app.newLogger(opts.scope, cfg)
	collector := newCollector(opts.scope, cfg, logger)
	generator := newGenerator(opts.scope, cfg, logger, opts.noFormat)

	current, diagnostics, err := collector.Collect(ctx)
	if err != nil {
		return issue.WrapWithOperation(err, "scan project")
	}
	printDiagnostics(app, diagnostics)

	if opts.check {
		upToDate, err := generator.UpToDate(ctx, opts.scope.projectDir, current)
		if err != nil {
			return err
		}
		if !upToDate {
			return &ExitError{
				Code: 1,
				Err:  fmt.Errorf("%s is out of date; run 'reef manifest' to regenerate it", cfg.GenFile),
			}
		}
		fmt.Fprintf(app.stdout, "%s %s is up to date\n", SuccessStyle.Render("✓"), PathStyle.Render(cfg.GenFile))
		return nil
	}

	if err := generator.Write(ctx, opts.scope.projectDir, current); err != nil {
		app.renderIssueCard(issue.GenerationFailedId)
		return err
	}
	fmt.Fprintf(app.stdout, "%s Wrote %s (%d routes, %d islands)\n",
		SuccessStyle.Render("✓"), PathStyle.Render(generator.Path(opts.scope.projectDir)),
		len(current.Routes), len(current.Islands))
	return nil
}

// printDiagnostics renders collector diagnostics to stderr, one line each.
func printDiagnostics(app *App, diagnostics []manifest.Diagnostic) {
	for _, d := range diagnostics {
		marker := WarningStyle.Render("!")
		if d.Severity == manifest.SeverityError {
			marker = ErrorStyle.Render("✗")
		}
		fmt.Fprintf(app.stderr, "%s %s: %s\n", marker, PathStyle.Render(d.Path), d.Message)
	}
}
