package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reprise/internal/runstore"
	"reprise/internal/works"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect and manage stored analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd, ctx)
		},
	}

	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsDeleteCommand(ctx))
	runsCmd.AddCommand(newRunsClearCommand(ctx))

	return runsCmd
}

func listRuns(cmd *cobra.Command, ctx *commandContext) error {
	return withRunStore(ctx, func(store *runstore.Store) error {
		runs, err := store.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded yet; try 'reprise match <artist-url>'")
			return nil
		}

		rows := make([][]string, 0, len(runs))
		for _, run := range runs {
			rows = append(rows, []string{
				run.ID,
				run.ArtistName,
				fmt.Sprintf("%d/%d", run.MatchedRecordings, run.TotalRecordings),
				fmt.Sprintf("%.1f%%", run.CoveragePercent),
				fmt.Sprintf("%d %s", run.OpportunityScore, run.OpportunityTier),
				run.CreatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		table := renderTable(
			[]string{"Run ID", "Artist", "Matched", "Coverage", "Opportunity", "Created"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		)
		fmt.Fprintln(out, table)
		return nil
	})
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one stored run with its match records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunStore(ctx, func(store *runstore.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found (see 'reprise runs')", args[0])
				}
				result, err := store.LoadResult(cmd.Context(), run.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintf(out, "  %-18s %s\n", "Artist:", run.ArtistName)
				fmt.Fprintf(out, "  %-18s %s\n", "Catalog URL:", run.ArtistURL)
				fmt.Fprintf(out, "  %-18s %s\n", "Created:", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "  %-18s %s\n", "Output:", run.OutputDir)
				fmt.Fprintf(out, "  %-18s %d/%d (%.1f%%)\n", "Matched:",
					run.MatchedRecordings, run.TotalRecordings, run.CoveragePercent)
				fmt.Fprintf(out, "  %-18s %d/100 %s\n", "Opportunity:", run.OpportunityScore, run.OpportunityTier)

				if len(result.Records) == 0 {
					fmt.Fprintln(out)
					fmt.Fprintln(out, "No match records stored for this run")
					return nil
				}

				rows := make([][]string, 0, len(result.Records))
				for _, record := range result.Records {
					rows = append(rows, []string{
						record.RecordingTitle,
						record.WorkTitle,
						works.DisplayName(record.WorkSource),
						fmt.Sprintf("%.0f%%", record.Confidence*100),
						record.Method,
					})
				}
				table := renderTable(
					[]string{"Recording", "Work", "Source", "Confidence", "Method"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(out)
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}
}

func newRunsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete one stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunStore(ctx, func(store *runstore.Store) error {
				deleted, err := store.DeleteRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("run %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
				return nil
			})
		},
	}
}

func newRunsClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunStore(ctx, func(store *runstore.Store) error {
				out := cmd.OutOrStdout()
				if !yes {
					runs, err := store.ListRuns(cmd.Context())
					if err != nil {
						return err
					}
					if len(runs) == 0 {
						fmt.Fprintln(out, "No runs to clear")
						return nil
					}
					if !confirm(cmd, fmt.Sprintf("Delete %d stored run(s)? Report files stay on disk.", len(runs))) {
						fmt.Fprintln(out, "Aborted")
						return nil
					}
				}
				cleared, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared %d run(s)\n", cleared)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// withRunStore opens the run database for one command and closes it after.
func withRunStore(ctx *commandContext, fn func(*runstore.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := runstore.Open(cfg.RunDatabasePath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
