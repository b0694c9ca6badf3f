// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=helper.go -destination=mocks/mock_helper.go -package=mocks

// HelperLocator finds the native watcher executable.
type HelperLocator interface {
	// Locate returns the absolute path of the helper.
	// It returns domain.ErrHelperDisabled, domain.ErrHelperNotFound or
	// domain.ErrHelperNotExecutable (possibly joined with a cause) when the helper is unusable.
	Locate() (string, error)
}

// Process is a running helper with its standard streams bound.
type Process interface {
	// Stdin receives protocol commands.
	Stdin() io.WriteCloser
	// Stdout yields protocol responses.
	Stdout() io.Reader
	// Pid returns the operating system process id.
	Pid() int
	// Done is closed once the process has exited.
	Done() <-chan struct{}
	// Kill forcibly terminates the process.
	Kill() error
}

// ProcessSpawner starts helper processes.
type ProcessSpawner interface {
	// Spawn starts the executable. The process outlives ctx; use Kill to end it.
	Spawn(ctx context.Context, executable string) (Process, error)
}
