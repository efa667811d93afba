// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for reef.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"reef-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// projectDir selects the project root to operate on
	projectDir string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "reef",
		Short: "Development tooling for reef projects",
		Long: TitleStyle.Render("reef") + SubtitleStyle.Render(" - Development tooling for reef projects") + `

reef keeps a project's generated module registry in sync with the
filesystem. Page modules live under 'routes/' (scanned recursively) and
interactive client modules live under 'islands/' (top level only); both
are registered in a generated 'reef.gen.ts' that the application imports
at startup.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Scaffold a project with: reef init
  2. Add .tsx modules under routes/ and islands/
  3. Run the development loop with: reef dev

` + SubtitleStyle.Render("Examples:") + `
  reef dev                  Watch the project and regenerate on change
  reef dev --once           Run a single generate-and-launch cycle
  reef manifest             Regenerate reef.gen.ts and exit
  reef manifest --check     Fail if reef.gen.ts is out of date
  reef routes               List discovered routes and islands
  reef init                 Scaffold a new reef project`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <project>/reef.config.cue)")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project-dir", "C", "", "project root to operate on (default is the current directory)")

	// Add subcommands
	app := NewApp(Dependencies{})
	rootCmd.AddCommand(newDevCommand(app))
	rootCmd.AddCommand(newManifestCommand(app))
	rootCmd.AddCommand(newRoutesCommand(app))
	rootCmd.AddCommand(newInitCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newCompletionCommand())
}

// currentScope captures the global flag values for a single invocation.
func currentScope() projectScope {
	return projectScope{
		projectDir: projectDir,
		configPath: cfgFile,
		verbose:    verbose,
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
