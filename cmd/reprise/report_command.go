package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reprise/internal/analysis"
	"reprise/internal/catalog"
	"reprise/internal/reports"
	"reprise/internal/runstore"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Regenerate the report set for a stored run",
		Long: "Rebuilds the CSV reports and the text summary from the recorded run. " +
			"Nothing is fetched; the stored catalog snapshot and match records are the input.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			store, err := runstore.Open(cfg.RunDatabasePath())
			if err != nil {
				return err
			}
			defer store.Close()

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
			recordings, err := store.LoadCatalog(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			dir := strings.TrimSpace(outputDir)
			if dir == "" {
				dir = run.OutputDir
			}
			writer, err := reports.NewWriter(dir, logger)
			if err != nil {
				return err
			}

			input := reports.Input{
				Artist:      catalog.Artist{ID: run.ArtistID, Name: run.ArtistName},
				ArtistURL:   run.ArtistURL,
				Recordings:  recordings,
				Result:      result,
				Assessment:  analysis.Assess(recordings, result),
				GeneratedAt: time.Now(),
			}
			paths, err := writer.WriteAll(input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if err := reports.RenderSummary(out, input, colorize); err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderStatusLine("Regenerated", statusOK,
				fmt.Sprintf("%d file(s) for %s", len(paths), run.ArtistName), colorize))
			fmt.Fprintln(out, renderStatusLine("Reports", statusOK, dir, colorize))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write reports into (defaults to the run's original directory)")
	return cmd
}
