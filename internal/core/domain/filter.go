package domain

import "strings"

// RootFilter reports whether the helper is unable to watch a root.
type RootFilter func(path string) bool

// NewRootFilter returns the filter for the given operating system.
// On Windows, UNC and double-slash network paths cannot be watched natively.
// Any root starting with one of the extra prefixes is treated the same way.
func NewRootFilter(goos string, prefixes []string) RootFilter {
	extra := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p != "" {
			extra = append(extra, p)
		}
	}
	windows := goos == "windows"

	return func(path string) bool {
		if windows && len(path) > 1 && (strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")) {
			return true
		}
		for _, p := range extra {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}
}

// Split partitions roots into those handed to the helper and those the caller must poll.
func (f RootFilter) Split(roots []string) (watched, ignored []string) {
	for _, r := range roots {
		if f != nil && f(r) {
			ignored = append(ignored, r)
			continue
		}
		watched = append(watched, r)
	}
	return watched, ignored
}
