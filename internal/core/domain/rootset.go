package domain

import (
	"slices"

	"github.com/cespare/xxhash/v2"
)

// RootSet is the set of directories handed to the native watcher.
type RootSet struct {
	// Recursive roots are watched together with all their descendants.
	Recursive []string
	// Flat roots are watched without descending into subdirectories.
	Flat []string
	// Ignored holds requested roots the helper cannot watch. The caller has to poll them.
	Ignored []string
}

// NewRootSet copies the given lists into a new RootSet.
func NewRootSet(recursive, flat []string) RootSet {
	return RootSet{
		Recursive: slices.Clone(recursive),
		Flat:      slices.Clone(flat),
	}
}

// IsEmpty reports whether the set requests no roots at all.
func (s RootSet) IsEmpty() bool {
	return len(s.Recursive) == 0 && len(s.Flat) == 0
}

// Equal reports whether both sets request the same recursive and flat roots,
// ignoring order and duplicates. The ignored list is not compared.
func (s RootSet) Equal(other RootSet) bool {
	return sameElements(s.Recursive, other.Recursive) && sameElements(s.Flat, other.Flat)
}

// Fingerprint returns an order-independent hash of the requested roots.
func (s RootSet) Fingerprint() uint64 {
	d := xxhash.New()
	for _, p := range normalized(s.Recursive) {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	_, _ = d.Write([]byte{'|'})
	for _, p := range normalized(s.Flat) {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// Clone returns a deep copy of the set.
func (s RootSet) Clone() RootSet {
	return RootSet{
		Recursive: slices.Clone(s.Recursive),
		Flat:      slices.Clone(s.Flat),
		Ignored:   slices.Clone(s.Ignored),
	}
}

func sameElements(a, b []string) bool {
	return slices.Equal(normalized(a), normalized(b))
}

func normalized(paths []string) []string {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
