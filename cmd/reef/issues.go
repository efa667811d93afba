// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"reef-cli/internal/config"
	"reef-cli/internal/devloop"
	"reef-cli/internal/issue"
)

// cardFor maps a failure to its long-form issue card, when one exists.
func cardFor(err error) (issue.Id, bool) {
	var epErr *devloop.EntrypointError
	if errors.As(err, &epErr) {
		return issue.EntrypointFailedId, true
	}
	var genErr *devloop.GenerationError
	if errors.As(err, &genErr) {
		return issue.GenerationFailedId, true
	}
	if errors.Is(err, config.ErrInvalidConfig) {
		return issue.ConfigInvalidId, true
	}
	return 0, false
}

// renderIssueCard writes the card for id to stderr. Rendering failures are
// swallowed; the card is supplementary to the error already reported.
func (app *App) renderIssueCard(id issue.Id) {
	card := issue.Lookup(id)
	if card == nil {
		return
	}
	rendered, err := card.Render("dark")
	if err != nil {
		return
	}
	fmt.Fprint(app.stderr, rendered)
}

// failWithCard renders the issue card matching err's failure class (if any)
// and passes err through for the normal RunE error path.
func (app *App) failWithCard(err error) error {
	if id, ok := cardFor(err); ok {
		app.renderIssueCard(id)
	}
	return err
}

// reportFailure prints a non-fatal failure: the formatted error, followed by
// the matching issue card, or a verbose-rerun hint when the error carries no
// guidance of its own. Used by watch-mode cycles, which keep running.
func (app *App) reportFailure(err error, verboseMode bool) {
	fmt.Fprintf(app.stderr, "%s %s\n", ErrorStyle.Render("✗"), formatErrorForDisplay(err, verboseMode))

	if id, ok := cardFor(err); ok {
		app.renderIssueCard(id)
		return
	}

	var ae *issue.ActionableError
	if !verboseMode && (!errors.As(err, &ae) || !ae.HasSuggestions()) {
		fmt.Fprintf(app.stderr, "%s Re-run with --verbose for the full error chain\n", SubtitleStyle.Render("•"))
	}
}

// looksLikeProject reports whether the scope's directory carries any reef
// project marker: a config file or either category directory.
func looksLikeProject(scope projectScope, cfg *config.Config) bool {
	if scope.configPath != "" {
		return true
	}
	for _, name := range []string{config.ConfigFileName, cfg.RoutesDir, cfg.IslandsDir} {
		if _, err := os.Stat(filepath.Join(scope.projectDir, name)); err == nil {
			return true
		}
	}
	return false
}
