package router

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// fileMutex is a POSIX analogue of a named system-global mutex, backed by
// an advisory exclusive flock on a well-known lock file. Acquire is
// non-blocking: a second process racing for the same workspace key fails
// immediately rather than waiting.
type fileMutex struct {
	path string
	file *os.File
}

func newFileMutex(path string) *fileMutex {
	return &fileMutex{path: path}
}

// Acquire attempts to take the mutex. ok is false (with a nil error) when
// another process already holds it; err is non-nil only for an
// unexpected failure opening the lock file.
func (m *fileMutex) Acquire() (ok bool, err error) {
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return false, fmt.Errorf("router: open mutex file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return false, nil
	}
	m.file = f
	return true, nil
}

// Release drops the lock and closes the file. It is a no-op if Acquire
// never succeeded.
func (m *fileMutex) Release() error {
	if m.file == nil {
		return nil
	}
	f := m.file
	m.file = nil
	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
		f.Close()
		return fmt.Errorf("router: release mutex: %w", err)
	}
	return f.Close()
}

// mutexPath derives the lock-file path for the system-global mutex name
// NextGallery_{workspace_key}, per §4.6.
func mutexPath(runtimeDir, workspaceKey string) string {
	return runtimeDir + "/NextGallery_" + workspaceKey + ".lock"
}
