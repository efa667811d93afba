// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reef-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `reef config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect reef configuration",
		Long: `Inspect reef configuration.

Configuration is read from '` + config.ConfigFileName + `' in the project root,
or from the file given with --config. Every field is optional and falls
back to a built-in default.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, currentScope())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app, currentScope())
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, scope projectScope) error {
	cfg, err := app.loadProjectConfig(ctx, scope)
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("reef configuration"))
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("routes_dir: "), cfg.RoutesDir)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("islands_dir:"), cfg.IslandsDir)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("gen_file:   "), cfg.GenFile)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("entrypoint: "), cfg.Entrypoint)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("run_cmd:    "), cfg.RunCmd)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("format_cmd: "), cfg.FormatCmd)
	fmt.Fprintf(app.stdout, "  %s %d\n", SubtitleStyle.Render("watch.debounce_ms:"), cfg.Watch.DebounceMs)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("watch.ignore:     "), strings.Join(cfg.Watch.Ignore, ", "))
	fmt.Fprintf(app.stdout, "  %s %t\n", SubtitleStyle.Render("ui.verbose:       "), cfg.UI.Verbose)
	return nil
}

func showConfigPath(app *App, scope projectScope) error {
	if scope.configPath != "" {
		fmt.Fprintln(app.stdout, scope.configPath)
		return nil
	}
	path := filepath.Join(scope.projectDir, config.ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("(not found, using defaults)"), path)
		return nil
	}
	fmt.Fprintln(app.stdout, path)
	return nil
}
