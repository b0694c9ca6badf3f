package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"runtime"

	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// Response opcodes.
const (
	OpGiveUp      = "GIVEUP"
	OpReset       = "RESET"
	OpUnwatchable = "UNWATCHEABLE"
	OpRemap       = "REMAP"
	OpMessage     = "MESSAGE"
	OpCreate      = "CREATE"
	OpDelete      = "DELETE"
	OpStats       = "STATS"
	OpChange      = "CHANGE"
	OpDirty       = "DIRTY"
	OpRecDirty    = "RECDIRTY"
)

// maxLineSize bounds a single protocol line.
const maxLineSize = 1 << 20

var pathOps = map[string]domain.ChangeKind{
	OpCreate:   domain.ChangeCreate,
	OpDelete:   domain.ChangeDelete,
	OpStats:    domain.ChangeStats,
	OpChange:   domain.ChangeContent,
	OpDirty:    domain.ChangeDirty,
	OpRecDirty: domain.ChangeRecursiveDirty,
}

type decoderState uint8

const (
	awaitingOpcode decoderState = iota
	awaitingMessageLine
	awaitingMultiLine
	awaitingPathLine
)

// Decoder turns helper response lines into events.
// It is not safe for concurrent use; each reader goroutine owns one.
type Decoder struct {
	logger    ports.Logger
	normalize bool

	state   decoderState
	op      string
	kind    domain.ChangeKind
	pending []string
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithNormalization forces canonical (NFC) normalization of reported paths on or off.
// It defaults to on for darwin, whose filesystems report decomposed names.
func WithNormalization(enabled bool) DecoderOption {
	return func(d *Decoder) {
		d.normalize = enabled
	}
}

// NewDecoder creates a Decoder in the awaiting-opcode state.
func NewDecoder(logger ports.Logger, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		logger:    logger,
		normalize: runtime.GOOS == "darwin",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Feed consumes one line and returns an event when the line completes one.
func (d *Decoder) Feed(line string) (domain.Event, bool) {
	switch d.state {
	case awaitingMessageLine:
		d.state = awaitingOpcode
		return domain.Event{Type: domain.EventMessage, Text: line}, true

	case awaitingMultiLine:
		if line != Terminator {
			d.pending = append(d.pending, line)
			return domain.Event{}, false
		}
		d.state = awaitingOpcode
		return d.flushMultiLine(), true

	case awaitingPathLine:
		d.state = awaitingOpcode
		return domain.PathChanged(d.kind, eventPath(line, d.normalize)), true

	default:
		return d.feedOpcode(line)
	}
}

func (d *Decoder) feedOpcode(line string) (domain.Event, bool) {
	switch line {
	case OpGiveUp:
		return domain.Event{Type: domain.EventGiveUp}, true
	case OpReset:
		return domain.Event{Type: domain.EventReset}, true
	case OpMessage:
		d.state = awaitingMessageLine
	case OpRemap, OpUnwatchable:
		d.state = awaitingMultiLine
		d.op = line
		d.pending = nil
	default:
		kind, ok := pathOps[line]
		if !ok {
			d.logError(zerr.With(zerr.New("unexpected native file watcher response"), "line", line))
			return domain.Event{}, false
		}
		d.state = awaitingPathLine
		d.kind = kind
	}
	return domain.Event{}, false
}

func (d *Decoder) flushMultiLine() domain.Event {
	lines := d.pending
	d.pending = nil

	if d.op == OpUnwatchable {
		return domain.Event{Type: domain.EventUnwatchable, Paths: lines}
	}

	if len(lines)%2 != 0 {
		d.logError(zerr.With(zerr.New("unpaired REMAP entry dropped"), "line", lines[len(lines)-1]))
		lines = lines[:len(lines)-1]
	}
	pairs := make([]domain.PathPair, 0, len(lines)/2)
	for i := 0; i+1 < len(lines); i += 2 {
		pairs = append(pairs, domain.PathPair{Old: lines[i], New: lines[i+1]})
	}
	return domain.Event{Type: domain.EventRemap, Pairs: pairs}
}

func (d *Decoder) logError(err error) {
	if d.logger != nil {
		d.logger.Error(err)
	}
}

// Run reads lines from r until EOF or a read error and passes every decoded event to emit.
// It returns nil on EOF. Lines longer than maxLineSize are logged and skipped.
func (d *Decoder) Run(r io.Reader, emit func(domain.Event)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, tooLong, err := readLine(br)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, fmt.Sprintf("failed to read native file watcher output in state %d", d.state))
		}
		if tooLong {
			d.skip()
			continue
		}
		if ev, ok := d.Feed(line); ok {
			emit(ev)
		}
	}
}

// skip drops an over-long line. A pending path or message command is abandoned;
// inside a listing only the entry is dropped.
func (d *Decoder) skip() {
	d.logError(zerr.With(zerr.New("oversized native file watcher response line dropped"), "limit", maxLineSize))
	if d.state == awaitingPathLine || d.state == awaitingMessageLine {
		d.state = awaitingOpcode
	}
}

// readLine returns the next line without its line ending. A line exceeding maxLineSize
// is consumed in full and reported with tooLong set.
func readLine(br *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, readErr := br.ReadLine()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) && (len(buf) > 0 || tooLong) {
				return string(buf), tooLong, nil
			}
			return "", false, readErr
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineSize {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}
