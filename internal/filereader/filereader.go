// Package filereader defines the narrow filesystem capability IndexLoader
// needs, so the loader stays pure and testable without touching a real
// disk. It mirrors the small-interface-callback shape the teacher repo uses
// for its own TerminalLister/LayoutApplier capabilities.
package filereader

import (
	"os"
	"path/filepath"
	"time"
)

// Reader is the minimal filesystem surface IndexLoader depends on.
type Reader interface {
	// DirExists reports whether path exists and is a directory.
	DirExists(path string) bool
	// Exists reports whether path exists (file or directory).
	Exists(path string) bool
	// ReadFile returns the full contents of path.
	ReadFile(path string) ([]byte, error)
	// Size returns the size in bytes of path.
	Size(path string) (int64, error)
	// ModTime returns the last-write-time of path.
	ModTime(path string) (time.Time, error)
}

// OS is the production Reader, backed directly by the local filesystem.
type OS struct{}

var _ Reader = OS{}

// DirExists implements Reader.
func (OS) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Exists implements Reader.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile implements Reader.
func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Size implements Reader.
func (OS) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ModTime implements Reader.
func (OS) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// IndexPath returns the single index file path IndexLoader reads for a
// given workspace root, per spec.md §4.2 / §6.
func IndexPath(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, ".codecomfy", "outputs", "index.json")
}
