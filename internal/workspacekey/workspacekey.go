// Package workspacekey derives the stable 32-character identity key used to
// route activation requests and name IPC endpoints for a workspace.
//
// The normalization pipeline is order-dependent and must match byte-for-byte
// across reimplementations; see the step order in Normalize before changing
// anything here.
package workspacekey

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidInput is returned when the input path is empty, whitespace-only,
// or contains a null byte.
var ErrInvalidInput = errors.New("workspacekey: invalid input")

// keyPattern is the wire format every valid Key must match: 32 lowercase
// hex characters. internal/envelope validates workspace_key against its own
// copy of the same pattern.
var keyPattern = regexp.MustCompile(`^[a-f0-9]{32}$`)

// Valid reports whether s is a well-formed 32-character lowercase hex key.
func Valid(s string) bool {
	return keyPattern.MatchString(s)
}

// Key is a 32-character lowercase hex workspace identity.
type Key string

// String returns the key's textual form.
func (k Key) String() string { return string(k) }

// Normalize runs the canon-path pipeline described in spec.md §4.1 and
// returns the canonical path string. It never returns a path for invalid
// input: failure is always explicit.
func Normalize(path string) (string, error) {
	if err := validateRaw(path); err != nil {
		return "", err
	}

	abs, err := resolveAbsolute(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	canon := strings.ReplaceAll(abs, `\`, "/")
	canon = collapseLeadingSlashes(canon)
	canon = norm.NFC.String(canon)
	canon = foldASCII(canon)
	canon = applyTrailingSlashRule(canon)

	return canon, nil
}

// Compute derives the 32-hex-character workspace key for path.
func Compute(path string) (Key, error) {
	canon, err := Normalize(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(canon))
	return Key(hex.EncodeToString(sum[:])[:32]), nil
}

func validateRaw(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidInput)
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("%w: path contains a null byte", ErrInvalidInput)
	}
	return nil
}

// collapseLeadingSlashes clamps any run of 3+ leading '/' to exactly "//",
// guarding UNC-root edge cases where the OS resolver may emit extras.
func collapseLeadingSlashes(p string) string {
	i := 0
	for i < len(p) && p[i] == '/' {
		i++
	}
	if i >= 3 {
		return "//" + p[i:]
	}
	return p
}

// foldASCII lowercases only ASCII A-Z, leaving everything else untouched.
// This is deliberately not unicode.ToLower: that varies by rune tables in
// ways the spec forbids ("does not vary by locale").
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// applyTrailingSlashRule implements spec.md §4.1 step 7.
func applyTrailingSlashRule(p string) string {
	if isUNCShareRoot(p) {
		return strings.TrimRight(p, "/")
	}
	if isBareDriveRoot(p) {
		return p + "/"
	}
	if len(p) > 3 && strings.HasSuffix(p, "/") {
		return strings.TrimSuffix(p, "/")
	}
	return p
}

// isUNCShareRoot reports whether p is "//server/share" with no further
// segments and no trailing slash requirement — exactly two non-empty
// segments after the leading "//".
func isUNCShareRoot(p string) bool {
	if !strings.HasPrefix(p, "//") {
		return false
	}
	rest := strings.TrimPrefix(p, "//")
	rest = strings.TrimSuffix(rest, "/")
	segments := strings.Split(rest, "/")
	if len(segments) != 2 {
		return false
	}
	return segments[0] != "" && segments[1] != ""
}

// isBareDriveRoot reports whether p is exactly two characters ending in ':'
// (e.g. "c:").
func isBareDriveRoot(p string) bool {
	return len(p) == 2 && p[1] == ':'
}
