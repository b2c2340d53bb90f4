package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reprise/internal/config"
	"reprise/internal/logging"
)

const batchSummaryFile = "batch_summary.txt"

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir    string
		limit        int
		skipSongview bool
		noCache      bool
		parallel     int
	)

	cmd := &cobra.Command{
		Use:   "batch <artists-file>",
		Short: "Analyze a list of artists, one per line",
		Long: "Runs the match pipeline for every artist URL or ID in the file. Lines " +
			"starting with # and blank lines are skipped. Each artist gets a subdirectory " +
			"named after them; a failed artist is reported and the batch continues.",
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

			refs, err := readArtistList(args[0])
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				return fmt.Errorf("no artists found in %s", args[0])
			}

			root := strings.TrimSpace(outputDir)
			if root == "" {
				root = cfg.Paths.OutputDir
			}
			if err := os.MkdirAll(root, 0o755); err != nil {
				return fmt.Errorf("create output directory %q: %w", root, err)
			}

			// One batch per output root at a time; two writers interleaving
			// subdirectories and the summary would corrupt both.
			lock := flock.New(filepath.Join(root, ".reprise-batch.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire batch lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another batch is already writing to %s", root)
			}
			defer func() { _ = lock.Unlock() }()

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
			colorize := shouldColorize(out)
			started := time.Now()

			var outcomes []*runOutcome
			failures := map[string]error{}
			var failedRefs []string

			for i, ref := range refs {
				fmt.Fprintf(out, "\n[%d/%d] %s\n", i+1, len(refs), ref)
				outcome, err := a.analyze(cmd.Context(), out, ref, runOptions{
					outputRoot: root,
					limit:      limit,
				})
				if err != nil {
					if cmd.Context().Err() != nil {
						return cmd.Context().Err()
					}
					fmt.Fprintln(out, renderStatusLine("Failed", statusError, err.Error(), colorize))
					failures[ref] = err
					failedRefs = append(failedRefs, ref)
					if nerr := a.notifier.NotifyError(cmd.Context(), err, ref); nerr != nil {
						logger.Warn("notification failed", logging.Error(nerr))
					}
					continue
				}
				outcomes = append(outcomes, outcome)
				fmt.Fprintln(out, renderStatusLine("Coverage", statusOK,
					fmt.Sprintf("%.1f%% (%d/%d)", outcome.Input.Assessment.Coverage.Percent,
						outcome.Input.Assessment.Coverage.MatchedRecordings,
						outcome.Input.Assessment.Coverage.TotalRecordings), colorize))
				fmt.Fprintln(out, renderStatusLine("Opportunity", statusInfo,
					fmt.Sprintf("%d/100 %s", outcome.Input.Assessment.Opportunity.Score,
						outcome.Input.Assessment.Opportunity.Tier), colorize))
			}

			summaryPath := filepath.Join(root, batchSummaryFile)
			if err := writeBatchSummary(summaryPath, outcomes, failedRefs, failures, started); err != nil {
				return err
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Batch complete", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Analyzed", statusOK, fmt.Sprintf("%d artist(s)", len(outcomes)), colorize))
			if len(failedRefs) > 0 {
				fmt.Fprintln(out, renderStatusLine("Failed", statusWarn, fmt.Sprintf("%d artist(s)", len(failedRefs)), colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Summary", statusInfo, summaryPath, colorize))

			if err := a.notifier.NotifyBatchCompleted(cmd.Context(), len(outcomes), len(failedRefs), time.Since(started)); err != nil {
				logger.Warn("notification failed", logging.Error(err))
			}

			if len(outcomes) == 0 {
				return fmt.Errorf("all %d artists failed", len(failedRefs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write per-artist reports into (defaults to the configured output dir)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap the number of recordings analyzed per artist (0 = everything)")
	cmd.Flags().BoolVar(&skipSongview, "skip-songview", false, "Skip the ASCAP/BMI Songview supplement")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the lookup response cache")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "Match recordings with this many workers (0 = config value)")
	return cmd
}

// readArtistList parses one artist reference per line, skipping blanks and
// # comments. Inline trailing comments are not supported; Spotify IDs can
// legitimately contain almost anything after a hash in share URLs.
func readArtistList(path string) ([]string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("open artists file: %w", err)
	}
	defer file.Close()

	var refs []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read artists file: %w", err)
	}
	return refs, nil
}

func writeBatchSummary(path string, outcomes []*runOutcome, failedRefs []string, failures map[string]error, started time.Time) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create batch summary: %w", err)
	}
	renderBatchSummary(file, outcomes, failedRefs, failures, started)
	if err := file.Close(); err != nil {
		return fmt.Errorf("write batch summary: %w", err)
	}
	return nil
}

func renderBatchSummary(out io.Writer, outcomes []*runOutcome, failedRefs []string, failures map[string]error, started time.Time) {
	fmt.Fprintln(out, "REPRISE BATCH SUMMARY")
	fmt.Fprintf(out, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Elapsed: %s\n", time.Since(started).Round(time.Second))
	fmt.Fprintf(out, "Artists analyzed: %d\n", len(outcomes))
	fmt.Fprintf(out, "Artists failed: %d\n", len(failedRefs))
	fmt.Fprintln(out)

	if len(outcomes) > 0 {
		fmt.Fprintf(out, "%-30s %10s %7s %-8s %s\n", "ARTIST", "COVERAGE", "SCORE", "TIER", "OUTPUT")
		for _, outcome := range outcomes {
			assessment := outcome.Input.Assessment
			fmt.Fprintf(out, "%-30s %9.1f%% %7d %-8s %s\n",
				outcome.Artist.Name,
				assessment.Coverage.Percent,
				assessment.Opportunity.Score,
				assessment.Opportunity.Tier,
				outcome.RunDir,
			)
		}
	}

	if len(failedRefs) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "FAILED")
		for _, ref := range failedRefs {
			fmt.Fprintf(out, "  %s: %v\n", ref, failures[ref])
		}
	}
}
