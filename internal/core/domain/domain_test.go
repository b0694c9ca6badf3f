package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/fswatch/internal/core/domain"
)

func TestRootSet_Equal(t *testing.T) {
	tests := []struct {
		name  string
		a, b  domain.RootSet
		equal bool
	}{
		{
			name:  "identical",
			a:     domain.NewRootSet([]string{"/a", "/b"}, nil),
			b:     domain.NewRootSet([]string{"/a", "/b"}, nil),
			equal: true,
		},
		{
			name:  "different order",
			a:     domain.NewRootSet([]string{"/a", "/b"}, []string{"/f"}),
			b:     domain.NewRootSet([]string{"/b", "/a"}, []string{"/f"}),
			equal: true,
		},
		{
			name:  "duplicates are ignored",
			a:     domain.NewRootSet([]string{"/a", "/a"}, nil),
			b:     domain.NewRootSet([]string{"/a"}, nil),
			equal: true,
		},
		{
			name:  "recursive differs from flat",
			a:     domain.NewRootSet([]string{"/a"}, nil),
			b:     domain.NewRootSet(nil, []string{"/a"}),
			equal: false,
		},
		{
			name:  "extra root",
			a:     domain.NewRootSet([]string{"/a"}, nil),
			b:     domain.NewRootSet([]string{"/a", "/b"}, nil),
			equal: false,
		},
		{
			name:  "ignored list is not compared",
			a:     domain.RootSet{Recursive: []string{"/a"}, Ignored: []string{"/a"}},
			b:     domain.RootSet{Recursive: []string{"/a"}},
			equal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			assert.Equal(t, tt.equal, tt.a.Fingerprint() == tt.b.Fingerprint())
		})
	}
}

func TestRootSet_CloneIsDeep(t *testing.T) {
	orig := domain.RootSet{Recursive: []string{"/a"}, Flat: []string{"/f"}, Ignored: []string{"/a"}}
	clone := orig.Clone()
	clone.Recursive[0] = "/changed"
	clone.Ignored[0] = "/changed"

	assert.Equal(t, "/a", orig.Recursive[0])
	assert.Equal(t, "/a", orig.Ignored[0])
}

func TestRootSet_IsEmpty(t *testing.T) {
	assert.True(t, domain.RootSet{}.IsEmpty())
	assert.True(t, domain.RootSet{Ignored: []string{"/x"}}.IsEmpty())
	assert.False(t, domain.NewRootSet(nil, []string{"/f"}).IsEmpty())
}

func TestRootFilter(t *testing.T) {
	t.Run("windows network paths", func(t *testing.T) {
		f := domain.NewRootFilter("windows", nil)
		assert.True(t, f(`\\server\share`))
		assert.True(t, f("//server/share"))
		assert.False(t, f(`C:\work`))
	})

	t.Run("unix keeps double slash", func(t *testing.T) {
		f := domain.NewRootFilter("linux", nil)
		assert.False(t, f("//server/share"))
	})

	t.Run("configured prefixes", func(t *testing.T) {
		f := domain.NewRootFilter("linux", []string{"/net/", ""})
		watched, ignored := f.Split([]string{"/home/me", "/net/share", "/tmp"})
		assert.Equal(t, []string{"/home/me", "/tmp"}, watched)
		assert.Equal(t, []string{"/net/share"}, ignored)
	})
}

func TestSettings_WithDefaults(t *testing.T) {
	s := domain.Settings{KillTimeout: time.Second, RestartDelay: -1}.WithDefaults()

	assert.Equal(t, domain.DefaultDedupWindow, s.DedupWindow)
	assert.Equal(t, domain.DefaultMaxStartAttempts, s.MaxStartAttempts)
	assert.Equal(t, domain.DefaultExitTimeout, s.ExitTimeout)
	assert.Equal(t, time.Second, s.KillTimeout)
	assert.Equal(t, time.Duration(0), s.RestartDelay)
	assert.Equal(t, domain.DefaultEventBuffer, s.EventBuffer)
}

func TestState(t *testing.T) {
	assert.Equal(t, "running", domain.StateRunning.String())
	assert.True(t, domain.StateGaveUp.IsTerminal())
	assert.True(t, domain.StateStopped.IsTerminal())
	assert.False(t, domain.StateShuttingDown.IsTerminal())
}
