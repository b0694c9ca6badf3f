// Package console implements a notification sink that prints every notification.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/core/ports"
	"go.trai.ch/fswatch/internal/ui/output"
	"go.trai.ch/fswatch/internal/ui/style"
)

var _ ports.NotificationSink = (*Sink)(nil)

const labelWidth = 12

// Sink prints notifications as aligned, colored lines.
type Sink struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *lipgloss.Renderer
	counts   map[string]int
}

// New creates a Sink writing to w.
func New(w io.Writer) *Sink {
	profile := output.ColorProfile(w)
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)

	return &Sink{
		w:        w,
		renderer: renderer,
		counts:   make(map[string]int),
	}
}

// OnDirtyPath prints a changed path.
func (s *Sink) OnDirtyPath(path string) {
	s.print(style.Tilde, style.Blue, "changed", path)
}

// OnDirtyDirectory prints a directory whose children changed.
func (s *Sink) OnDirtyDirectory(path string) {
	s.print(style.Dot, style.Blue, "dirty-dir", path)
}

// OnRecursiveDirty prints a subtree that must be rescanned.
func (s *Sink) OnRecursiveDirty(path string) {
	s.print(style.Dot, style.Blue, "dirty-tree", path)
}

// OnPathCreatedOrDeleted prints a path that appeared or disappeared.
func (s *Sink) OnPathCreatedOrDeleted(path string) {
	s.print(style.Plus, style.Green, "created", path)
}

// OnReset prints a reset. An empty scope covers all roots.
func (s *Sink) OnReset(scope string) {
	if scope == "" {
		scope = "all roots"
	}
	s.print(style.Warning, style.Yellow, "reset", scope)
}

// OnRenameMapping prints one line per remapped root.
func (s *Sink) OnRenameMapping(pairs []domain.PathPair) {
	for _, p := range pairs {
		s.print(style.Arrow, style.Accent, "remap", p.Old+" "+style.Arrow+" "+p.New)
	}
}

// OnManualWatchRoots prints the roots that must be polled. An empty list prints nothing.
func (s *Sink) OnManualWatchRoots(roots []string) {
	if len(roots) == 0 {
		return
	}
	s.print(style.Warning, style.Yellow, "manual", strings.Join(roots, ", "))
}

// OnFailure prints a failure message.
func (s *Sink) OnFailure(message string) {
	s.print(style.Cross, style.Red, "failure", message)
}

// Summary returns the number of printed lines per label, in a stable order.
func (s *Sink) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	labels := []string{"changed", "dirty-dir", "dirty-tree", "created", "reset", "remap", "manual", "failure"}
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		if n := s.counts[label]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", label, n))
		}
	}
	if len(parts) == 0 {
		return "no notifications"
	}
	return strings.Join(parts, " ")
}

func (s *Sink) print(icon string, color lipgloss.Color, label, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[label]++

	head := s.renderer.NewStyle().Foreground(color).Render(icon)
	name := s.renderer.NewStyle().Foreground(color).Bold(true).Width(labelWidth).Render(label)
	body := s.renderer.NewStyle().Foreground(style.Muted).Render(detail)
	_, _ = fmt.Fprintf(s.w, "%s %s %s\n", head, name, body)
}
