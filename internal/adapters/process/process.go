// Package process starts native helper processes with their standard streams bound to pipes.
package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"go.trai.ch/fswatch/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.ProcessSpawner = (*Spawner)(nil)
	_ ports.Process        = (*Process)(nil)
)

// Spawner implements ports.ProcessSpawner with os/exec.
// Lines the helper writes to stderr are logged as warnings.
type Spawner struct {
	logger ports.Logger
}

// NewSpawner creates a Spawner.
func NewSpawner(logger ports.Logger) *Spawner {
	return &Spawner{logger: logger}
}

// Spawn starts executable without arguments.
// The process is not bound to ctx: it runs until it exits or is killed.
func (s *Spawner) Spawn(ctx context.Context, executable string) (ports.Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var files pipes
	defer files.closeChildEnds()

	if err := files.open(); err != nil {
		files.closeParentEnds()
		return nil, zerr.Wrap(err, "failed to create helper pipes")
	}

	//nolint:gosec // G204: the executable comes from the helper locator
	cmd := exec.Command(executable)
	cmd.Stdin = files.stdinR
	cmd.Stdout = files.stdoutW
	cmd.Stderr = files.stderrW

	if err := cmd.Start(); err != nil {
		files.closeParentEnds()
		return nil, err
	}

	p := &Process{
		cmd:    cmd,
		stdin:  files.stdinW,
		stdout: &closeOnEOF{f: files.stdoutR},
		done:   make(chan struct{}),
	}

	var forwarded sync.WaitGroup
	forwarded.Add(1)
	go func() {
		defer forwarded.Done()
		s.forwardStderr(files.stderrR, cmd.Process.Pid)
	}()

	go func() {
		p.waitErr = cmd.Wait()
		forwarded.Wait()
		close(p.done)
	}()

	return p, nil
}

func (s *Spawner) forwardStderr(r *os.File, pid int) {
	defer func() {
		_ = r.Close()
	}()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			s.logger.Warn(fmt.Sprintf("native file watcher (pid %d): %s", pid, line))
		}
	}
}

// Process is a running helper.
type Process struct {
	cmd     *exec.Cmd
	stdin   *os.File
	stdout  io.Reader
	done    chan struct{}
	waitErr error
}

// Stdin returns the write end of the helper's standard input.
func (p *Process) Stdin() io.WriteCloser { return p.stdin }

// Stdout returns the read end of the helper's standard output.
// It is closed once it has been read to the end.
func (p *Process) Stdout() io.Reader { return p.stdout }

// Pid returns the process id.
func (p *Process) Pid() int { return p.cmd.Process.Pid }

// Done is closed once the process has exited and its stderr has been drained.
func (p *Process) Done() <-chan struct{} { return p.done }

// Err returns the exit error. It is only meaningful after Done is closed.
func (p *Process) Err() error {
	select {
	case <-p.done:
		return p.waitErr
	default:
		return nil
	}
}

// Kill forcibly terminates the process. Killing an exited process is not an error.
func (p *Process) Kill() error {
	err := p.cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return zerr.With(zerr.Wrap(err, "failed to kill helper"), "pid", p.Pid())
	}
	return nil
}
