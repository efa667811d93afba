// SPDX-License-Identifier: MPL-2.0

// Command reef keeps a project's generated module registry in sync with its
// routes and islands directories.
package main

import cmd "reef-cli/cmd/reef"

func main() {
	cmd.Execute()
}
