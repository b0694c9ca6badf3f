package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.trai.ch/fswatch/internal/core/domain"
	"go.trai.ch/fswatch/internal/ui/output"
	"go.trai.ch/fswatch/internal/ui/style"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether the native file watcher can be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Check(cmd.Context(), configPath(cmd))
			if report == nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			source := report.Source
			if source == "" {
				source = "built-in defaults"
			}
			p.line(style.Check, style.Green, "config", source)
			p.line(style.Dot, style.Blue, "roots", report.Describe())
			for _, root := range report.Roots.Ignored {
				p.line(style.Warning, style.Yellow, "manual", root)
			}

			if err != nil {
				p.line(style.Cross, style.Red, "helper", helperProblem(err))
				return errors.Join(domain.ErrWatcherUnavailable, err)
			}
			p.line(style.Check, style.Green, "helper", report.HelperPath)
			return nil
		},
	}
}

// helperProblem returns the reason the helper cannot be used.
func helperProblem(err error) string {
	for _, sentinel := range []error{
		domain.ErrHelperDisabled,
		domain.ErrHelperNotFound,
		domain.ErrHelperNotExecutable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

type printer struct {
	out *termenv.Output
}

func newPrinter(w io.Writer) *printer {
	return &printer{out: output.New(w)}
}

func (p *printer) line(icon string, color lipgloss.Color, label, detail string) {
	styledIcon := p.out.String(icon).Foreground(p.out.Color(string(color)))
	styledLabel := p.out.String(fmt.Sprintf("%-8s", label)).Bold()
	_, _ = fmt.Fprintf(p.out, "%s %s %s\n", styledIcon, styledLabel, detail)
}
