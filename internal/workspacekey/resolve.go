package workspacekey

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var driveLetterPattern = regexp.MustCompile(`^[A-Za-z]:`)

// resolveAbsolute resolves path to an absolute path using the host OS's
// path semantics, per spec.md §4.1 step 2.
//
// Windows-shaped inputs (a drive letter, a UNC "\\server\share" prefix, or
// a path rooted with a leading backslash such as `\home\user`) are
// self-identifying as absolute and are resolved by segment-cleaning
// alone, without consulting this process's CWD — stdlib filepath.Clean
// would otherwise collapse a UNC path's doubled leading separator before
// step 4 gets a chance to see it. Everything else is resolved the normal
// POSIX way: relative paths are joined against the real working directory.
func resolveAbsolute(path string) (string, error) {
	if isWindowsShaped(path) {
		return cleanWindowsShaped(path), nil
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(filepath.Join(cwd, path)), nil
}

func isWindowsShaped(path string) bool {
	return driveLetterPattern.MatchString(path) || strings.HasPrefix(path, `\`) || strings.HasPrefix(path, "//")
}

// cleanWindowsShaped resolves "." and ".." segments in a drive-letter or
// UNC path while preserving the prefix (drive letter, or UNC's doubled
// leading separator) verbatim for later pipeline steps to act on.
func cleanWindowsShaped(path string) string {
	normalized := strings.ReplaceAll(path, `\`, "/")

	var prefix string
	var rest string
	switch {
	case driveLetterPattern.MatchString(normalized):
		prefix = normalized[:2]
		rest = strings.TrimPrefix(normalized[2:], "/")
	case strings.HasPrefix(normalized, "//"):
		prefix = "//"
		rest = strings.TrimPrefix(normalized, "//")
	default:
		prefix = ""
		rest = normalized
	}

	segments := cleanSegments(strings.Split(rest, "/"))
	if len(segments) == 0 {
		return prefix
	}
	if prefix == "" || strings.HasSuffix(prefix, ":") {
		return prefix + "/" + strings.Join(segments, "/")
	}
	return prefix + strings.Join(segments, "/")
}

// cleanSegments resolves "." and ".." path segments without ever climbing
// above the root (a leading ".." is simply dropped, matching the effect of
// filepath.Clean on an absolute path).
func cleanSegments(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		switch p {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, p)
		}
	}
	return out
}
