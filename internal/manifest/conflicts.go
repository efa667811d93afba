// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"sort"

	"reef-cli/pkg/modpath"
)

// FindConflicts returns the route directories that contain more than one
// route where at least one of them is dynamic. Such directories are
// potentially ambiguous: the router may not be able to tell a literal
// sibling apart from a parameter match.
//
// The heuristic is deliberately conservative. It flags any multi-route
// directory containing a dynamic route even when the siblings provably
// cannot collide, and the dynamic check itself is a literal bracket
// substring match (see modpath.ModulePath.IsDynamic). The result is
// advisory only and never blocks generation.
func FindConflicts(routes []modpath.ModulePath) []string {
	byDir := make(map[string][]string)
	for _, route := range routes {
		dir, file := route.Split()
		byDir[dir] = append(byDir[dir], file)
	}

	var flagged []string
	for dir, files := range byDir {
		if len(files) < 2 {
			continue
		}
		for _, file := range files {
			if modpath.ModulePath("/" + file).IsDynamic() {
				flagged = append(flagged, dir)
				break
			}
		}
	}

	sort.Strings(flagged)
	return flagged
}
