package telemetry

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/fswatch/internal/core/ports"
)

// LogExporter writes every finished span as one log line.
type LogExporter struct {
	logger ports.Logger
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

// NewLogExporter creates a LogExporter writing to logger.
func NewLogExporter(logger ports.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

// ExportSpans logs the given spans.
func (e *LogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		e.logger.Info(FormatSpan(s))
	}
	return nil
}

// Shutdown does nothing.
func (e *LogExporter) Shutdown(_ context.Context) error {
	return nil
}

// FormatSpan renders a span as "trace <name> <duration> key=value...".
// Attributes are sorted by key.
func FormatSpan(s sdktrace.ReadOnlySpan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "trace %s %s", s.Name(), s.EndTime().Sub(s.StartTime()).Round(time.Microsecond))

	attrs := slices.Clone(s.Attributes())
	slices.SortFunc(attrs, func(a, b attribute.KeyValue) int {
		return strings.Compare(string(a.Key), string(b.Key))
	})
	for _, kv := range attrs {
		fmt.Fprintf(&b, " %s=%s", kv.Key, kv.Value.Emit())
	}

	if s.Status().Code == codes.Error {
		fmt.Fprintf(&b, " error=%q", s.Status().Description)
	}
	return b.String()
}

// Setup installs a global tracer provider that logs finished spans to logger.
// The returned function flushes the provider and stops recording.
func Setup(logger ports.Logger) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(NewLogExporter(logger)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
