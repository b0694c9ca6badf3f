package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"go.trai.ch/fswatch/internal/engine/protocol"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"fswatch":    func() { os.Exit(run(os.Args[1:])) },
		"fsnotifier": fakeNotifier,
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "script"),
		Setup: func(env *testscript.Env) error {
			env.Setenv("NO_COLOR", "1")
			return nil
		},
	})
}

// fakeNotifier speaks the helper protocol. For every ROOTS command it reports a change
// below each recursive root. FAKE_NOTIFIER_MODE=giveup makes it give up instead.
func fakeNotifier() {
	giveUp := os.Getenv("FAKE_NOTIFIER_MODE") == "giveup"
	_, _ = fmt.Fprintln(os.Stderr, "fake notifier ready")

	scanner := bufio.NewScanner(os.Stdin)
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
			if err != nil {
				_, _ = fmt.Fprintln(os.Stdout, "MESSAGE\n"+err.Error())
				continue
			}
			if giveUp {
				_, _ = fmt.Fprintln(os.Stdout, "GIVEUP")
				continue
			}
			for _, root := range set.Recursive {
				_, _ = fmt.Fprintf(os.Stdout, "CHANGE\n%s\n", filepath.Join(root, "file.txt"))
			}
		case line == protocol.CmdRoots:
			listing = []string{line}
		case line == protocol.CmdExit:
			os.Exit(0)
		}
	}
}
