// SPDX-License-Identifier: MPL-2.0

// Package codegen renders a manifest into the generated registration
// artifact (reef.gen.ts by default) and persists it in the project root.
//
// Rendering is deterministic: imports appear in manifest order with
// positional identifiers, so an unchanged manifest always reproduces the
// identical artifact. Formatting is delegated to a Formatter collaborator so
// the rendering logic stays testable without an installed toolchain.
package codegen
