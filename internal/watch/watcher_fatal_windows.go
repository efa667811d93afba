// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// fatalWatchErrnos are the Win32 error codes after which fsnotify's
// ReadDirectoryChangesW loop cannot keep delivering events:
//   - ERROR_TOO_MANY_OPEN_FILES (4): per-process handle limit exceeded
//   - ERROR_INVALID_HANDLE (6): watched directory deleted or unmounted
//   - ERROR_NOT_ENOUGH_MEMORY (8): cannot allocate the notification buffer
var fatalWatchErrnos = []syscall.Errno{
	syscall.Errno(4),
	syscall.Errno(6),
	syscall.Errno(8),
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
