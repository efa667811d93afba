// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"slices"

	"reef-cli/pkg/modpath"
)

// Manifest is the sorted pair of route and island module paths describing a
// project's discovered modules at a point in time. Both lists are ascending
// lexicographic and free of duplicates. A Manifest is never mutated after
// construction; every scan produces a fresh value.
type Manifest struct {
	Routes  []modpath.ModulePath
	Islands []modpath.ModulePath
}

// Empty returns the manifest used as the "previous" value on the first
// development cycle, before any scan has run.
func Empty() Manifest {
	return Manifest{}
}

// Equal reports whether two manifests are element-wise identical in both
// content and order. Any addition, removal, or rename between two scans
// registers as a change; ordering is significant because generated import
// indices are positional.
func Equal(a, b Manifest) bool {
	return slices.Equal(a.Routes, b.Routes) && slices.Equal(a.Islands, b.Islands)
}
