// Package protocol implements the line-oriented wire protocol spoken by the native file watcher.
//
// Commands sent to the helper:
//
//	ROOTS          followed by one line per recursive root, one "|"-prefixed line per
//	               flat root and a terminating "#" line
//	EXIT           asks the helper to terminate
//
// Responses are an opcode line optionally followed by payload lines (see Decoder).
package protocol

import (
	"bufio"
	"io"
	"strings"

	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/zerr"
)

// Command names.
const (
	CmdRoots = "ROOTS"
	CmdExit  = "EXIT"
)

const (
	// FlatPrefix marks a non-recursive root in a ROOTS listing.
	FlatPrefix = "|"
	// Terminator ends multi-line commands and responses.
	Terminator = "#"
)

// EncodeRoots writes a ROOTS command listing the recursive and flat roots of set.
// The ignored list is not sent.
func EncodeRoots(w io.Writer, set domain.RootSet) error {
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(CmdRoots + "\n")
	for _, root := range set.Recursive {
		_, _ = bw.WriteString(EncodePath(root) + "\n")
	}
	for _, root := range set.Flat {
		_, _ = bw.WriteString(FlatPrefix + EncodePath(root) + "\n")
	}
	_, _ = bw.WriteString(Terminator + "\n")
	return bw.Flush()
}

// EncodeExit writes an EXIT command.
func EncodeExit(w io.Writer) error {
	_, err := io.WriteString(w, CmdExit+"\n")
	return err
}

// ParseRoots reads a ROOTS command as written by EncodeRoots.
// It is the helper side of the exchange and preserves the order of both lists.
func ParseRoots(r io.Reader) (domain.RootSet, error) {
	scanner := newScanner(r)

	if !scanner.Scan() {
		return domain.RootSet{}, zerr.Wrap(scannerErr(scanner), domain.ErrMalformedRoots.Error())
	}
	if line := scanner.Text(); line != CmdRoots {
		return domain.RootSet{}, zerr.With(domain.ErrMalformedRoots, "line", line)
	}

	var set domain.RootSet
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == Terminator:
			return set, nil
		case strings.HasPrefix(line, FlatPrefix):
			set.Flat = append(set.Flat, DecodePath(strings.TrimPrefix(line, FlatPrefix)))
		default:
			set.Recursive = append(set.Recursive, DecodePath(line))
		}
	}
	return domain.RootSet{}, zerr.Wrap(scannerErr(scanner), "ROOTS command is not terminated")
}

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return s
}

func scannerErr(scanner *bufio.Scanner) error {
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}
