package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"reprise/internal/works"
	"reprise/internal/works/mlc"
)

// publisherWorkRow is the CSV projection of one registered work.
type publisherWorkRow struct {
	WorkID     string `csv:"Work ID"`
	Title      string `csv:"Title"`
	ISWC       string `csv:"ISWC"`
	Writers    string `csv:"Writers"`
	Publishers string `csv:"Publishers"`
}

func newPublisherCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "publisher <publisher-id>",
		Short: "Dump every registered work for one MLC publisher",
		Long: "Walks all pages of the publisher's MLC registrations and writes the full " +
			"dump as JSONL (raw payloads) plus a CSV projection.",
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

			publisherID := strings.TrimSpace(args[0])
			client := mlc.New(cfg.MLC.BaseURL,
				mlc.WithLogger(logger),
				mlc.WithPageSize(cfg.MLC.PageSize),
				mlc.WithTimeout(time.Duration(cfg.MLC.TimeoutSeconds)*time.Second),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, stepLine("🔍", "Walking MLC registrations for publisher "+publisherID))

			found, err := client.PublisherWorks(cmd.Context(), publisherID)
			if err != nil {
				// A partial dump is still a dump; pagination errors after
				// page one leave real rows behind.
				if len(found) == 0 {
					return err
				}
				fmt.Fprintln(out, renderStatusLine("Pagination", statusWarn,
					fmt.Sprintf("stopped early: %v", err), shouldColorize(out)))
			}
			if len(found) == 0 {
				fmt.Fprintln(out, "No registered works found")
				return nil
			}

			dir := strings.TrimSpace(outputDir)
			if dir == "" {
				dir = cfg.Paths.OutputDir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory %q: %w", dir, err)
			}

			base := "publisher_" + sanitizeDirName(publisherID)
			jsonlPath := filepath.Join(dir, base+"_works.jsonl")
			csvPath := filepath.Join(dir, base+"_works.csv")

			if err := writePublisherJSONL(jsonlPath, found); err != nil {
				return err
			}
			if err := writePublisherCSV(csvPath, found); err != nil {
				return err
			}

			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Works", statusOK, fmt.Sprintf("%d registration(s)", len(found)), colorize))
			fmt.Fprintln(out, renderStatusLine("JSONL", statusOK, jsonlPath, colorize))
			fmt.Fprintln(out, renderStatusLine("CSV", statusOK, csvPath, colorize))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write the dump into (defaults to the configured output dir)")
	return cmd
}

// writePublisherJSONL writes one raw registration payload per line. Works
// whose raw envelope was lost fall back to the typed fields.
func writePublisherJSONL(path string, found []works.Work) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}

	encoder := json.NewEncoder(file)
	for _, work := range found {
		var payload any = work.Raw
		if len(work.Raw) == 0 {
			payload = work
		}
		if err := encoder.Encode(payload); err != nil {
			_ = file.Close()
			return fmt.Errorf("encode work %s: %w", work.ID, err)
		}
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writePublisherCSV(path string, found []works.Work) error {
	rows := make([]publisherWorkRow, 0, len(found))
	for _, work := range found {
		rows = append(rows, publisherWorkRow{
			WorkID:     work.ID,
			Title:      work.Title,
			ISWC:       work.ISWC,
			Writers:    strings.Join(work.Writers, ", "),
			Publishers: strings.Join(work.Publishers, ", "),
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := gocsv.Marshal(&rows, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}
