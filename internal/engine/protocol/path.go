package protocol

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// EncodePath converts a path to its wire form.
// Newlines are sent as NUL bytes so every path fits on a single protocol line.
func EncodePath(path string) string {
	return strings.ReplaceAll(path, "\n", "\x00")
}

// DecodePath reverses EncodePath.
func DecodePath(wire string) string {
	return strings.ReplaceAll(wire, "\x00", "\n")
}

// eventPath turns the payload of a path response into a path.
// One trailing separator is dropped unless the path is a filesystem root.
func eventPath(wire string, normalize bool) string {
	path := DecodePath(wire)

	if n := len(path); n > 1 && os.IsPathSeparator(path[n-1]) {
		trimmed := path[:n-1]
		if !isVolumeRoot(trimmed) {
			path = trimmed
		}
	}

	if normalize && !norm.NFC.IsNormalString(path) {
		path = norm.NFC.String(path)
	}
	return path
}

// isVolumeRoot reports whether path is a bare volume name such as "C:".
func isVolumeRoot(path string) bool {
	vol := filepath.VolumeName(path)
	return vol != "" && vol == path
}
