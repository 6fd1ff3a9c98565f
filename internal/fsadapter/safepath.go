package fsadapter

import (
	"errors"
	"path/filepath"
	"strings"
)

// MaxPathLength matches spec.md §6's file-API path length limit.
const MaxPathLength = 4096

// ErrPathTooLong and ErrPathEscape back the "path_too_long" / "path_escape"
// error codes (spec.md §7).
var (
	ErrPathTooLong = errors.New("path exceeds maximum length")
	ErrPathEscape  = errors.New("path escapes workspace root")
)

// resolveSafePath validates relPath against root, component by component,
// rejecting any ".." that would climb above root — grounded on
// original_source/core/src/server/file_api.rs's resolve_safe_path. Unlike
// the original it does not require the path to exist (callers resolve
// existence themselves); this keeps the helper usable for both reads and
// writes of not-yet-created files.
func resolveSafePath(root, relPath string) (string, error) {
	if len(relPath) > MaxPathLength {
		return "", ErrPathTooLong
	}

	var components []string
	for _, c := range strings.FieldsFunc(relPath, func(r rune) bool { return r == '/' || r == '\\' }) {
		switch c {
		case "", ".":
			continue
		case "..":
			if len(components) == 0 {
				return "", ErrPathEscape
			}
			components = components[:len(components)-1]
		default:
			components = append(components, c)
		}
	}

	full := root
	for _, c := range components {
		full = filepath.Join(full, c)
	}
	return full, nil
}
