package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reprise/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log lines",
		Long: "Prints the trailing lines of the process log. With --follow the command " +
			"keeps streaming new lines until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path := cfg.LogFilePath()
			out := cmd.OutOrStdout()

			backlog, offset, err := logs.Tail(path, lines)
			if err != nil {
				return err
			}
			for _, line := range backlog {
				fmt.Fprintln(out, line)
			}
			if len(backlog) == 0 && !follow {
				fmt.Fprintf(out, "No log lines yet in %s\n", path)
				return nil
			}

			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, out)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming appended lines until interrupted")
	return cmd
}
