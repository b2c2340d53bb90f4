package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reprise/internal/reports"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir    string
		limit        int
		skipSongview bool
		noCache      bool
		parallel     int
	)

	cmd := &cobra.Command{
		Use:   "match <artist-url|artist-id>",
		Short: "Analyze one artist's catalog for publishing gaps",
		Long: "Fetches the artist's recordings from Spotify, matches them against The MLC " +
			"and Songview, writes the CSV report set plus a text summary, and records the " +
			"run for later regeneration.",
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

			a, err := newAnalyzer(cfg, logger, analyzerOptions{
				skipSongview: skipSongview,
				noCache:      noCache,
				parallelism:  parallel,
			})
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			outcome, err := a.analyze(cmd.Context(), out, args[0], runOptions{
				outputRoot:  outputDir,
				limit:       limit,
				timestamped: true,
			})
			if err != nil {
				return err
			}

			colorize := shouldColorize(out)
			fmt.Fprintln(out)
			if err := reports.RenderSummary(out, outcome.Input, colorize); err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderStatusLine("Reports", statusOK, outcome.RunDir, colorize))
			fmt.Fprintln(out, renderStatusLine("Run recorded", statusOK, outcome.Run.ID, colorize))
			fmt.Fprintln(out, renderStatusLine("Elapsed", statusInfo, outcome.Duration.Round(durationRounding).String(), colorize))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write reports into (defaults to the configured output dir)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap the number of recordings analyzed (0 = everything)")
	cmd.Flags().BoolVar(&skipSongview, "skip-songview", false, "Skip the ASCAP/BMI Songview supplement")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the lookup response cache")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "Match recordings with this many workers (0 = config value)")
	return cmd
}
