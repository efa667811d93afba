// SPDX-License-Identifier: MPL-2.0

// Package manifest discovers route and island modules in a reef project and
// represents the result as an immutable, deterministically ordered Manifest.
//
// Discovery walks the conventional routes directory recursively and scans the
// islands directory flat, applying a fixed extension allow-list. Non-fatal
// findings (such as a subdirectory inside islands/) are returned as
// Diagnostics rather than written to stderr, so the CLI layer owns rendering
// policy. The package also provides the route-conflict heuristic used to warn
// about ambiguous dynamic/static route overlap.
package manifest
