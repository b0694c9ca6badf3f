package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/fswatch/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the configured roots and print every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jsonLogs, _ := cmd.Flags().GetBool("json")
			quiet, _ := cmd.Flags().GetBool("quiet")
			trace, _ := cmd.Flags().GetBool("trace")
			noReload, _ := cmd.Flags().GetBool("no-reload")
			duration, _ := cmd.Flags().GetDuration("for")

			return c.app.WithOutput(cmd.OutOrStdout()).Watch(cmd.Context(), app.WatchOptions{
				ConfigPath: configPath(cmd),
				JSON:       jsonLogs,
				Quiet:      quiet,
				Trace:      trace,
				NoReload:   noReload,
				For:        duration,
			})
		},
	}
	cmd.Flags().Bool("json", false, "Write log records as JSON")
	cmd.Flags().BoolP("quiet", "q", false, "Only log warnings and errors")
	cmd.Flags().Bool("trace", false, "Log a line for every finished trace span")
	cmd.Flags().Bool("no-reload", false, "Do not reload the roots when the config file changes")
	cmd.Flags().Duration("for", 0, "Stop watching after the given duration")
	return cmd
}
