// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a well-known issue card.
type Id int

const (
	// ProjectNotFoundId is shown when no reef project is detected.
	ProjectNotFoundId Id = iota + 1
	// ConfigInvalidId is shown when reef.config.cue cannot be loaded.
	ConfigInvalidId
	// GenerationFailedId is shown when the artifact cannot be written.
	GenerationFailedId
	// EntrypointFailedId is shown when the application entrypoint exits
	// with an error.
	EntrypointFailedId
)

// MarkdownMsg is the markdown body of an issue card.
type MarkdownMsg string

// HttpLink points to further documentation.
type HttpLink string

// Issue is a longer-form, markdown-formatted help card for a well-known
// failure class.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
}

// Id returns the issue identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns the documentation links for this issue.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue card for the terminal using the given glamour
// style path ("dark", "light", or "auto").
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

// Lookup returns the issue card for id, or nil when no card exists.
func Lookup(id Id) *Issue {
	switch id {
	case ProjectNotFoundId:
		return projectNotFoundIssue
	case ConfigInvalidId:
		return configInvalidIssue
	case GenerationFailedId:
		return generationFailedIssue
	case EntrypointFailedId:
		return entrypointFailedIssue
	default:
		return nil
	}
}

var (
	render = glamour.Render

	projectNotFoundIssue = &Issue{
		id: ProjectNotFoundId,
		mdMsg: `
# No reef project found!

The current directory has neither a routes/ nor an islands/ directory,
and no reef.config.cue to point elsewhere.

## Things you can try:
- Scaffold a new project here:
~~~
$ reef init
~~~

- Or move into an existing project:
~~~
$ cd /path/to/your/project
$ reef dev
~~~`,
	}

	configInvalidIssue = &Issue{
		id: ConfigInvalidId,
		mdMsg: `
# Failed to load reef.config.cue!

Your project configuration contains syntax errors or values that do not
match the schema.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names (the schema is closed)
- routes_dir / islands_dir containing path separators

## Things you can try:
- Check the error message above for the specific line/column
- Show the resolved configuration:
~~~
$ reef config show
~~~

## Example of a valid config:
~~~cue
routes_dir:  "routes"
islands_dir: "islands"
entrypoint:  "main.ts"
watch: debounce_ms: 200
~~~`,
	}

	generationFailedIssue = &Issue{
		id: GenerationFailedId,
		mdMsg: `
# Failed to write the generated manifest!

reef could not overwrite the registration artifact in your project root.

## Things you can try:
- Check that the project directory is writable
- Check that nothing occupies the artifact path as a directory
- Re-run with verbose output:
~~~
$ reef manifest --verbose
~~~`,
	}

	entrypointFailedIssue = &Issue{
		id: EntrypointFailedId,
		mdMsg: `
# The application entrypoint failed!

The manifest was generated successfully, but launching your application
entrypoint returned an error.

## Things you can try:
- Run the entrypoint directly to see its own error output
- Check the ` + "`entrypoint`" + ` and ` + "`run_cmd`" + ` settings in reef.config.cue`,
	}
)
