package pipetransport

import (
	"fmt"
	"os"
	"path/filepath"
)

// RuntimeDir returns the directory used for activation-channel socket
// files and the instance mutex's lock file, falling back down the XDG
// base-directory chain when a preferred location isn't available:
//  1. $XDG_RUNTIME_DIR, if set
//  2. /run/user/<uid>, if it exists
//  3. /tmp/nextgallery-runtime-<uid>, created on demand
func RuntimeDir() (string, error) {
	if dir, ok := os.LookupEnv("XDG_RUNTIME_DIR"); ok && dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if perUser := fmt.Sprintf("/run/user/%d", uid); isDir(perUser) {
		return perUser, nil
	}

	fallback := fmt.Sprintf("/tmp/nextgallery-runtime-%d", uid)
	if err := os.MkdirAll(fallback, 0700); err != nil {
		return "", fmt.Errorf("pipetransport: create runtime dir: %w", err)
	}
	return fallback, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SocketPath returns the Unix-domain socket path for the activation
// channel bound to workspaceKey. The channel name proper is
// "codecomfy.nextgallery.{workspace_key}"; the socket file just carries
// that name into the filesystem.
func SocketPath(workspaceKey string) (string, error) {
	dir, err := RuntimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("codecomfy.nextgallery.%s.sock", workspaceKey)), nil
}
