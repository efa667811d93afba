// SPDX-License-Identifier: MPL-2.0

// Package config loads reef project configuration.
//
// Configuration is optional: a project with no reef.config.cue runs entirely
// on conventional defaults (routes/, islands/, reef.gen.ts, main.ts). When
// the file exists it is parsed as CUE, validated against the embedded
// #Config schema, and merged over the defaults via viper. Constraints CUE
// cannot express (such as the two category directories being distinct) are
// validated in Go after unmarshalling.
package config
