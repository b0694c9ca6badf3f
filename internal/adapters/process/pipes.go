package process

import (
	"os"
	"sync"
)

// pipes holds both ends of the three standard stream pipes of a helper.
// The child ends are handed to the process and closed in the parent after start,
// so the parent sees EOF on stdout and stderr once the helper exits.
type pipes struct {
	stdinR, stdinW   *os.File
	stdoutR, stdoutW *os.File
	stderrR, stderrW *os.File
}

func (p *pipes) open() error {
	var err error
	if p.stdinR, p.stdinW, err = os.Pipe(); err != nil {
		return err
	}
	if p.stdoutR, p.stdoutW, err = os.Pipe(); err != nil {
		return err
	}
	p.stderrR, p.stderrW, err = os.Pipe()
	return err
}

func (p *pipes) closeChildEnds() {
	closeAll(p.stdinR, p.stdoutW, p.stderrW)
}

func (p *pipes) closeParentEnds() {
	closeAll(p.stdinW, p.stdoutR, p.stderrR)
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}

// closeOnEOF closes the underlying file once a read fails.
type closeOnEOF struct {
	f    *os.File
	once sync.Once
}

func (c *closeOnEOF) Read(b []byte) (int, error) {
	n, err := c.f.Read(b)
	if err != nil {
		c.once.Do(func() {
			_ = c.f.Close()
		})
	}
	return n, err
}
