// SPDX-License-Identifier: MPL-2.0

// Package devloop sequences one development-loop cycle: scan the project,
// diff against the previous manifest, regenerate the artifact when stale,
// surface warnings, and hand control to the application entrypoint.
//
// The previous manifest is threaded explicitly through Cycle rather than
// held in ambient process state: the caller owns the value across loop
// iterations and passes each cycle's result back in as the next cycle's
// previous snapshot.
package devloop
