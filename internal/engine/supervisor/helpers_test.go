package supervisor_test

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/fswatch/internal/adapters/telemetry"
	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/core/ports"
	"go.trai.ch/fswatch/internal/core/ports/mocks"
	"go.trai.ch/fswatch/internal/engine/protocol"
	"go.trai.ch/fswatch/internal/engine/supervisor"
	"go.uber.org/mock/gomock"
)

const (
	testHelperPath = "/opt/fswatch/fsnotifier"
	waitFor        = 2 * time.Second
	tick           = 5 * time.Millisecond
)

var testSettings = domain.Settings{
	DedupWindow:      2,
	MaxStartAttempts: 10,
	ExitTimeout:      10 * time.Millisecond,
	KillTimeout:      50 * time.Millisecond,
	RestartDelay:     5 * time.Millisecond,
	EventBuffer:      64,
}

// patientSettings gives gated helpers time to start reading before a command write times out.
func patientSettings() domain.Settings {
	settings := testSettings
	settings.KillTimeout = waitFor
	return settings
}

// fakeHelper is an in-memory helper process speaking the wire protocol over pipes.
type fakeHelper struct {
	pid int

	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter

	ignoreExit bool
	gate       chan struct{}

	done     chan struct{}
	exitOnce sync.Once
	kills    atomic.Int32

	mu    sync.Mutex
	roots []domain.RootSet
	exits int
}

var _ ports.Process = (*fakeHelper)(nil)

var nextPid atomic.Int32

func newFakeHelper() *fakeHelper {
	h := &fakeHelper{
		pid:  int(nextPid.Add(1)) + 1000,
		done: make(chan struct{}),
	}
	h.stdinR, h.stdinW = io.Pipe()
	h.stdoutR, h.stdoutW = io.Pipe()
	return h
}

// ignoringExit makes the helper stay alive after EXIT until it is killed.
func (h *fakeHelper) ignoringExit() *fakeHelper {
	h.ignoreExit = true
	return h
}

// gated makes the helper stop reading commands until open is called.
func (h *fakeHelper) gated() *fakeHelper {
	h.gate = make(chan struct{})
	return h
}

func (h *fakeHelper) open() {
	close(h.gate)
}

func (h *fakeHelper) serve() {
	scanner := bufio.NewScanner(h.stdinR)
	var listing []string
	for {
		if h.gate != nil {
			select {
			case <-h.gate:
			case <-h.done:
				return
			}
		}
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()

		switch {
		case listing != nil:
			listing = append(listing, line)
			if line != protocol.Terminator {
				continue
			}
			set, err := protocol.ParseRoots(strings.NewReader(strings.Join(listing, "\n") + "\n"))
			listing = nil
			if err != nil {
				continue
			}
			h.mu.Lock()
			h.roots = append(h.roots, set)
			h.mu.Unlock()
		case line == protocol.CmdRoots:
			listing = []string{line}
		case line == protocol.CmdExit:
			h.mu.Lock()
			h.exits++
			h.mu.Unlock()
			if !h.ignoreExit {
				h.exit()
				return
			}
		}
	}
}

func (h *fakeHelper) Stdin() io.WriteCloser { return h.stdinW }
func (h *fakeHelper) Stdout() io.Reader     { return h.stdoutR }
func (h *fakeHelper) Pid() int              { return h.pid }
func (h *fakeHelper) Done() <-chan struct{} { return h.done }

func (h *fakeHelper) Kill() error {
	h.kills.Add(1)
	h.exit()
	return nil
}

// exit terminates the helper as if the process had ended on its own.
func (h *fakeHelper) exit() {
	h.exitOnce.Do(func() {
		_ = h.stdoutW.Close()
		_ = h.stdinR.Close()
		close(h.done)
	})
}

// emit writes response lines as the helper.
func (h *fakeHelper) emit(t *testing.T, lines ...string) {
	t.Helper()
	_, err := io.WriteString(h.stdoutW, strings.Join(lines, "\n")+"\n")
	require.NoError(t, err)
}

func (h *fakeHelper) receivedRoots() []domain.RootSet {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.RootSet(nil), h.roots...)
}

func (h *fakeHelper) exitCommands() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exits
}

// recordingSink records notifications as short strings.
type recordingSink struct {
	mu    sync.Mutex
	calls []string
}

var _ ports.NotificationSink = (*recordingSink)(nil)

func (r *recordingSink) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingSink) OnDirtyPath(path string)            { r.record("dirty %s", path) }
func (r *recordingSink) OnDirtyDirectory(path string)       { r.record("dirty-dir %s", path) }
func (r *recordingSink) OnRecursiveDirty(path string)       { r.record("dirty-tree %s", path) }
func (r *recordingSink) OnPathCreatedOrDeleted(path string) { r.record("created-or-deleted %s", path) }
func (r *recordingSink) OnReset(scope string)               { r.record("reset %s", scope) }
func (r *recordingSink) OnFailure(message string)           { r.record("failure %s", message) }

func (r *recordingSink) OnManualWatchRoots(roots []string) {
	r.record("manual %s", strings.Join(roots, ","))
}

func (r *recordingSink) OnRenameMapping(pairs []domain.PathPair) {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.Old+">"+p.New)
	}
	r.record("remap %s", strings.Join(parts, ","))
}

func (r *recordingSink) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingSink) count(call string) int {
	n := 0
	for _, c := range r.snapshot() {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recordingSink) has(call string) bool {
	return r.count(call) > 0
}

type fixture struct {
	sup     *supervisor.Supervisor
	sink    *recordingSink
	locator *mocks.MockHelperLocator
	spawner *mocks.MockProcessSpawner
}

// newFixture builds a supervisor with mocked locator and spawner.
// The supervisor is closed when the test ends.
func newFixture(t *testing.T, opts ...supervisor.Option) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	f := &fixture{
		sink:    &recordingSink{},
		locator: mocks.NewMockHelperLocator(ctrl),
		spawner: mocks.NewMockProcessSpawner(ctrl),
	}
	opts = append([]supervisor.Option{supervisor.WithSettings(testSettings)}, opts...)
	f.sup = supervisor.New(f.locator, f.spawner, f.sink, logger, telemetry.NewNoOpTracer(), opts...)
	t.Cleanup(func() {
		_ = f.sup.Close()
	})
	return f
}

// spawns makes the spawner hand out the given helpers, one per call, in order.
func (f *fixture) spawns(helpers ...*fakeHelper) {
	f.locator.EXPECT().Locate().Return(testHelperPath, nil).AnyTimes()
	calls := make([]any, 0, len(helpers))
	for _, h := range helpers {
		calls = append(calls, f.spawner.EXPECT().Spawn(gomock.Any(), testHelperPath).DoAndReturn(
			func(context.Context, string) (ports.Process, error) {
				go h.serve()
				return h, nil
			}))
	}
	gomock.InOrder(calls...)
}

func (f *fixture) eventuallyState(t *testing.T, want domain.State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.sup.State() == want
	}, waitFor, tick, "state never became %s (is %s)", want, f.sup.State())
}

func (f *fixture) eventuallyNotified(t *testing.T, call string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.sink.has(call)
	}, waitFor, tick, "sink never received %q, got %v", call, f.sink.snapshot())
}
