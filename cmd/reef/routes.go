// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"reef-cli/internal/issue"
	"reef-cli/internal/manifest"

	"github.com/spf13/cobra"
)

// newRoutesCommand creates the `reef routes` command.
func newRoutesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List discovered routes and islands",
		Long: `Scan the project and list every route and island module that would be
registered, without touching the generated file. Ambiguities between
dynamic and static routes are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(cmd.Context(), app, currentScope())
		},
	}
}

func runRoutes(ctx context.Context, app *App, scope projectScope) error {
	cfg, err := app.loadProjectConfig(ctx, scope)
	if err != nil {
		return err
	}

	logger := app.newLogger(scope, cfg)
	collector := newCollector(scope, cfg, logger)

	current, diagnostics, err := collector.Collect(ctx)
	if err != nil {
		return issue.WrapWithOperation(err, "scan project")
	}
	printDiagnostics(app, diagnostics)

	fmt.Fprintln(app.stdout, TitleStyle.Render("Routes")+SubtitleStyle.Render(fmt.Sprintf(" (%d)", len(current.Routes))))
	if len(current.Routes) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("  (none)"))
	}
	for _, p := range current.Routes {
		marker := "  "
		if p.IsDynamic() {
			marker = SubtitleStyle.Render("* ")
		}
		fmt.Fprintf(app.stdout, "  %s%s\n", marker, PathStyle.Render(string(p)))
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Islands")+SubtitleStyle.Render(fmt.Sprintf(" (%d)", len(current.Islands))))
	if len(current.Islands) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("  (none)"))
	}
	for _, p := range current.Islands {
		fmt.Fprintf(app.stdout, "    %s\n", PathStyle.Render(string(p)))
	}

	if conflicts := manifest.FindConflicts(current.Routes); len(conflicts) > 0 {
		fmt.Fprintf(app.stderr, "%s An ambiguity between dynamic and static routes was detected in:\n",
			WarningStyle.Render("!"))
		for _, dir := range conflicts {
			fmt.Fprintf(app.stderr, "    %s\n", PathStyle.Render(dir))
		}
	}
	return nil
}
