package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fswatch/internal/adapters/logger"
)

func newHandler(t *testing.T, level slog.Level) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}), buf
}

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		want  string
	}{
		{name: "debug filtered", level: slog.LevelDebug, want: ""},
		{name: "info", level: slog.LevelInfo, want: "roots synchronized\n"},
		{name: "warn", level: slog.LevelWarn, want: "! roots synchronized\n"},
		{name: "error", level: slog.LevelError, want: "✗ roots synchronized\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, buf := newHandler(t, slog.LevelInfo)
			slog.New(h).Log(t.Context(), tt.level, "roots synchronized")

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	tests := []struct {
		name  string
		setup func(slog.Handler) slog.Handler
		args  []any
		want  string
	}{
		{
			name:  "record attrs",
			setup: func(h slog.Handler) slog.Handler { return h },
			args:  []any{"pid", 42, "attempt", 1},
			want:  "spawned pid=42 attempt=1\n",
		},
		{
			name: "handler attrs come first",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.String("component", "supervisor")})
			},
			args: []any{"pid", 42},
			want: "spawned component=supervisor pid=42\n",
		},
		{
			name: "nested groups",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("helper").WithGroup("proc")
			},
			args: []any{"pid", 42},
			want: "spawned helper.proc.pid=42\n",
		},
		{
			name: "empty group is ignored",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("helper").WithGroup("")
			},
			args: []any{"pid", 42},
			want: "spawned helper.pid=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, buf := newHandler(t, slog.LevelInfo)
			slog.New(tt.setup(h)).Info("spawned", tt.args...)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h, _ := newHandler(t, slog.LevelWarn)

	assert.False(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, h.Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))
}

func TestPrettyHandler_NilOptions(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandler(buf, nil)

	assert.False(t, h.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, h.Enabled(t.Context(), slog.LevelInfo))
}

func TestPrettyHandler_NilWriter(t *testing.T) {
	require.NotPanics(t, func() {
		_ = logger.NewPrettyHandler(nil, nil)
	})
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPrettyHandler_WriteError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	h := logger.NewPrettyHandler(brokenWriter{}, nil)
	var r slog.Record
	r.Message = "lost"
	r.Level = slog.LevelInfo

	require.Error(t, h.Handle(t.Context(), r))
}
