package galleryindex

import (
	"strconv"
	"strings"
)

// supportedMajorVersions is the closed set of schema majors this loader
// accepts without treating the workspace as fatally unsupported. Per
// spec.md §4.2 rule 8, major 0 is always best-effort; nothing at major 1+
// is in this set yet, so any major >= 1 is currently Fatal.
var supportedMajorVersions = map[int]bool{}

// parseSchemaVersion parses a "major.minor" string. A missing or
// unparseable major/minor defaults to (0, 1), matching spec.md §4.2's
// version-parsing rule.
func parseSchemaVersion(s string) (major, minor int) {
	major, minor = 0, 1
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	parts := strings.SplitN(s, ".", 2)
	if m, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
		major = m
	} else {
		major = 0
	}
	if len(parts) == 2 {
		if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			minor = n
		} else {
			minor = 1
		}
	}
	return
}

// unsupportedMajor reports whether major is >= 1 and not in the closed set
// of versions this loader understands.
func unsupportedMajor(major int) bool {
	if major < 1 {
		return false
	}
	return !supportedMajorVersions[major]
}
