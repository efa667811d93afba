// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error building and rendering.
//
// ActionableError carries the operation, resource, and fix suggestions for
// a failure so the CLI layer can print something more useful than a bare
// error string. Issue holds the longer, markdown-formatted help cards shown
// for well-known failure classes (no project found, broken config, failed
// generation), rendered with glamour.
package issue
