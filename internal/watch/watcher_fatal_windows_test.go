// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestFatalWatchErrorClassification(t *testing.T) {
	t.Parallel()

	fatal := []error{
		syscall.Errno(4), // ERROR_TOO_MANY_OPEN_FILES
		syscall.Errno(6), // ERROR_INVALID_HANDLE
		syscall.Errno(8), // ERROR_NOT_ENOUGH_MEMORY
		fmt.Errorf("fsnotify: %w", syscall.Errno(6)),
	}
	for _, err := range fatal {
		if !isFatalFsnotifyError(err) {
			t.Errorf("isFatalFsnotifyError(%v) = false, want true", err)
		}
	}

	recoverable := []error{
		syscall.Errno(2), // ERROR_FILE_NOT_FOUND
		syscall.Errno(5), // ERROR_ACCESS_DENIED
		errors.New("transient failure"),
		nil,
	}
	for _, err := range recoverable {
		if isFatalFsnotifyError(err) {
			t.Errorf("isFatalFsnotifyError(%v) = true, want false", err)
		}
	}
}
