// SPDX-License-Identifier: MPL-2.0

// Package modpath provides the ModulePath type used to identify project
// modules (routes and islands) relative to their category root. A ModulePath
// always starts with "/", always uses forward slashes regardless of the host
// path convention, and keeps its file extension (e.g. "/blog/[slug].tsx").
package modpath

import (
	"path/filepath"
	"strings"
)

// ModulePath is a category-root-relative, slash-separated module location.
type ModulePath string

// FromRel converts a host-native relative path (e.g. the result of
// filepath.Rel) to a ModulePath.
func FromRel(rel string) ModulePath {
	return ModulePath("/" + filepath.ToSlash(rel))
}

// String returns the path as a plain string.
func (p ModulePath) String() string {
	return string(p)
}

// Split breaks the path into its directory (everything up to and including
// the last "/") and filename parts.
func (p ModulePath) Split() (dir, file string) {
	s := string(p)
	i := strings.LastIndex(s, "/")
	return s[:i+1], s[i+1:]
}

// Dir returns the directory component, including the trailing "/".
func (p ModulePath) Dir() string {
	dir, _ := p.Split()
	return dir
}

// Base returns the filename component.
func (p ModulePath) Base() string {
	_, file := p.Split()
	return file
}

// Ext returns the file extension, including the leading dot.
func (p ModulePath) Ext() string {
	base := p.Base()
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return base[i:]
}

// IsFlat reports whether the path sits directly under its category root,
// i.e. contains no "/" beyond the leading one. Island paths must be flat.
func (p ModulePath) IsFlat() bool {
	return !strings.Contains(string(p)[1:], "/")
}

// IsDynamic reports whether the filename encodes a path parameter via
// bracket syntax (e.g. "[id].tsx" or "[...rest].tsx").
//
// Detection is a deliberate literal substring check, not a structural parse:
// a filename that merely contains a bracket character is also reported as
// dynamic. Callers treat the result as advisory.
func (p ModulePath) IsDynamic() bool {
	return strings.Contains(p.Base(), "[")
}
