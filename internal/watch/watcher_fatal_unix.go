// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// fatalWatchErrnos are the resource-exhaustion errors after which the
// kernel watch facility cannot deliver further events:
//   - ENOSPC: inotify watch limit exceeded (fs.inotify.max_user_watches)
//   - EMFILE: per-process file descriptor limit exceeded
//   - ENFILE: system-wide file descriptor limit exceeded
var fatalWatchErrnos = []syscall.Errno{
	syscall.ENOSPC,
	syscall.EMFILE,
	syscall.ENFILE,
}

// isFatalFsnotifyError reports whether err means the watcher is broken
// beyond recovery, so Run should stop rather than log and continue.
func isFatalFsnotifyError(err error) bool {
	for _, errno := range fatalWatchErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
