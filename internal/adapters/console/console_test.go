package console_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/fswatch/internal/adapters/console"
	"go.trai.ch/fswatch/internal/core/domain"
)

func newSink(t *testing.T) (*console.Sink, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return console.New(buf), buf
}

func TestSink_AllNotifications(t *testing.T) {
	sink, buf := newSink(t)

	sink.OnDirtyPath("/src/main.go")
	sink.OnDirtyDirectory("/src")
	sink.OnRecursiveDirty("/src/vendor")
	sink.OnPathCreatedOrDeleted("/src/new.go")
	sink.OnReset("/src")
	sink.OnReset("")
	sink.OnRenameMapping([]domain.PathPair{{Old: "/link", New: "/real"}, {Old: "/a", New: "/b"}})
	sink.OnManualWatchRoots([]string{`\\server\share`, "/mnt/nfs"})
	sink.OnFailure("native file watcher executable not found")

	g := goldie.New(t)
	g.Assert(t, "all_notifications", buf.Bytes())
}

func TestSink_EmptyManualRootsPrintNothing(t *testing.T) {
	sink, buf := newSink(t)

	sink.OnManualWatchRoots(nil)
	sink.OnManualWatchRoots([]string{})

	assert.Empty(t, buf.String())
	assert.Equal(t, "no notifications", sink.Summary())
}

func TestSink_Summary(t *testing.T) {
	sink, _ := newSink(t)

	sink.OnDirtyPath("/a")
	sink.OnDirtyPath("/b")
	sink.OnFailure("boom")
	sink.OnReset("")

	assert.Equal(t, "changed=2 reset=1 failure=1", sink.Summary())
}
