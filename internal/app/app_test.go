package app_test

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fswatch/internal/adapters/telemetry"
	"go.trai.ch/fswatch/internal/app"
	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/core/ports"
	"go.trai.ch/fswatch/internal/core/ports/mocks"
	"go.trai.ch/fswatch/internal/engine/protocol"
	"go.uber.org/mock/gomock"
)

const helperPath = "/usr/local/bin/fsnotifier"

// scriptedHelper answers every ROOTS command with the lines returned by respond.
type scriptedHelper struct {
	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter
	done    chan struct{}
	once    sync.Once
	respond func(domain.RootSet) []string
}

func newScriptedHelper(respond func(domain.RootSet) []string) *scriptedHelper {
	h := &scriptedHelper{done: make(chan struct{}), respond: respond}
	h.stdinR, h.stdinW = io.Pipe()
	h.stdoutR, h.stdoutW = io.Pipe()
	go h.serve()
	return h
}

func (h *scriptedHelper) serve() {
	scanner := bufio.NewScanner(h.stdinR)
	var listing []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case listing != nil:
			listing = append(listing, line)
			if line != protocol.Terminator {
				continue
			}
			set, err := protocol.ParseRoots(strings.NewReader(strings.Join(listing, "\n") + "\n"))
			listing = nil
			if err == nil {
				if lines := h.respond(set); len(lines) > 0 {
					_, _ = io.WriteString(h.stdoutW, strings.Join(lines, "\n")+"\n")
				}
			}
		case line == protocol.CmdRoots:
			listing = []string{line}
		case line == protocol.CmdExit:
			_ = h.Kill()
			return
		}
	}
}

func (h *scriptedHelper) Stdin() io.WriteCloser { return h.stdinW }
func (h *scriptedHelper) Stdout() io.Reader     { return h.stdoutR }
func (h *scriptedHelper) Pid() int              { return 4242 }
func (h *scriptedHelper) Done() <-chan struct{} { return h.done }

func (h *scriptedHelper) Kill() error {
	h.once.Do(func() {
		_ = h.stdoutW.Close()
		_ = h.stdinR.Close()
		close(h.done)
	})
	return nil
}

type testEnv struct {
	app     *app.App
	out     *bytes.Buffer
	loader  *mocks.MockConfigLoader
	locator *mocks.MockHelperLocator
	spawner *mocks.MockProcessSpawner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	env := &testEnv{
		out:     &bytes.Buffer{},
		loader:  mocks.NewMockConfigLoader(ctrl),
		locator: mocks.NewMockHelperLocator(ctrl),
		spawner: mocks.NewMockProcessSpawner(ctrl),
	}
	env.app = app.New(env.loader, env.spawner, logger, telemetry.NewNoOpTracer()).
		WithOutput(env.out).
		WithLocatorFactory(func(domain.HelperConfig) ports.HelperLocator { return env.locator })
	return env
}

func testConfig(recursive ...string) *domain.Config {
	settings := domain.DefaultSettings()
	settings.KillTimeout = 50 * time.Millisecond
	return &domain.Config{
		Roots:          domain.NewRootSet(recursive, nil),
		ManualPrefixes: []string{"/mnt/nfs"},
		Settings:       settings,
	}
}

func TestApp_Watch_PrintsNotifications(t *testing.T) {
	env := newTestEnv(t)
	env.loader.EXPECT().Load("fswatch.yaml").Return(testConfig("/src", "/mnt/nfs/share"), nil)
	env.locator.EXPECT().Locate().Return(helperPath, nil)

	var received []domain.RootSet
	helper := newScriptedHelper(func(set domain.RootSet) []string {
		received = append(received, set)
		return []string{"CHANGE", "/src/main.go", "CREATE", "/src/new.go"}
	})
	env.spawner.EXPECT().Spawn(gomock.Any(), helperPath).Return(helper, nil)

	err := env.app.Watch(context.Background(), app.WatchOptions{
		ConfigPath: "fswatch.yaml",
		NoReload:   true,
		For:        200 * time.Millisecond,
	})
	require.NoError(t, err)

	out := env.out.String()
	assert.Contains(t, out, "manual       /mnt/nfs/share")
	assert.Contains(t, out, "changed      /src/main.go")
	assert.Contains(t, out, "created      /src/new.go")
	require.Len(t, received, 1)
	assert.Equal(t, []string{"/src"}, received[0].Recursive)

	select {
	case <-helper.Done():
	default:
		t.Fatal("helper still running after Watch returned")
	}
}

func TestApp_Watch_HelperMissing(t *testing.T) {
	env := newTestEnv(t)
	env.loader.EXPECT().Load("").Return(testConfig("/src"), nil)
	env.locator.EXPECT().Locate().Return("", domain.ErrHelperNotFound)

	err := env.app.Watch(context.Background(), app.WatchOptions{NoReload: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWatcherUnavailable)
	assert.ErrorIs(t, err, domain.ErrHelperNotFound)
	assert.Contains(t, env.out.String(), "failure      "+domain.ErrHelperNotFound.Error())
}

func TestApp_Watch_GiveUpEndsWatch(t *testing.T) {
	env := newTestEnv(t)
	env.loader.EXPECT().Load("").Return(testConfig("/src"), nil)
	env.locator.EXPECT().Locate().Return(helperPath, nil)
	helper := newScriptedHelper(func(domain.RootSet) []string {
		return []string{"GIVEUP"}
	})
	env.spawner.EXPECT().Spawn(gomock.Any(), helperPath).Return(helper, nil)

	done := make(chan error, 1)
	go func() {
		done <- env.app.Watch(context.Background(), app.WatchOptions{NoReload: true})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrWatcherUnavailable)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after GIVEUP")
	}
	assert.Contains(t, env.out.String(), "failure      "+domain.ErrHelperGaveUp.Error())
}

func TestApp_Watch_ContextCancel(t *testing.T) {
	env := newTestEnv(t)
	env.loader.EXPECT().Load("").Return(testConfig("/src"), nil)
	env.locator.EXPECT().Locate().Return(helperPath, nil)
	helper := newScriptedHelper(func(domain.RootSet) []string { return nil })
	env.spawner.EXPECT().Spawn(gomock.Any(), helperPath).Return(helper, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- env.app.Watch(ctx, app.WatchOptions{NoReload: true})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestApp_Watch_ConfigError(t *testing.T) {
	env := newTestEnv(t)
	env.loader.EXPECT().Load("bad.yaml").Return(nil, domain.ErrConfigParseFailed)

	err := env.app.Watch(context.Background(), app.WatchOptions{ConfigPath: "bad.yaml"})
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
	assert.NotErrorIs(t, err, domain.ErrWatcherUnavailable)
}

func TestApp_Check(t *testing.T) {
	env := newTestEnv(t)
	env.loader.EXPECT().Load("").Return(testConfig("/src", "/mnt/nfs/share"), nil)
	env.locator.EXPECT().Locate().Return(helperPath, nil)

	report, err := env.app.Check(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, helperPath, report.HelperPath)
	assert.Equal(t, []string{"/mnt/nfs/share"}, report.Roots.Ignored)
	assert.Equal(t, "2 recursive, 0 flat, 1 polled manually", report.Describe())
}

func TestApp_Check_Unusable(t *testing.T) {
	env := newTestEnv(t)
	env.loader.EXPECT().Load("").Return(testConfig(), nil)
	env.locator.EXPECT().Locate().Return("", domain.ErrHelperDisabled)

	report, err := env.app.Check(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrHelperDisabled)
	require.NotNil(t, report)
	assert.Empty(t, report.HelperPath)
}

func TestApp_Check_ConfigError(t *testing.T) {
	env := newTestEnv(t)
	env.loader.EXPECT().Load("").Return(nil, errors.New("boom"))

	_, err := env.app.Check(context.Background(), "")
	require.Error(t, err)
}
