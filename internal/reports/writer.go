package reports

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"reprise/internal/analysis"
	"reprise/internal/catalog"
	"reprise/internal/logging"
	"reprise/internal/matching"
	"reprise/internal/services"
)

// Input bundles everything one run produced. The writer only reads from it.
type Input struct {
	Artist      catalog.Artist
	ArtistURL   string
	Recordings  []catalog.Recording
	Result      matching.Result
	Assessment  analysis.Assessment
	GeneratedAt time.Time
}

// Writer renders the report artifact set into a single output directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates the output directory and returns a writer bound to it.
func NewWriter(dir string, logger *slog.Logger) (*Writer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("output directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "reports", "create output directory", dir, err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Writer{dir: dir, logger: logging.NewComponentLogger(logger, "reports")}, nil
}

// Dir returns the directory artifacts are written into.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteAll writes the full artifact set and returns the paths written.
// Empty sections still produce their files (headers only) so batch tooling
// can rely on a fixed set per run.
func (w *Writer) WriteAll(input Input) ([]string, error) {
	if input.GeneratedAt.IsZero() {
		input.GeneratedAt = time.Now()
	}

	artifacts := []struct {
		name string
		rows any
	}{
		{MatchedWorksFile, ptr(buildMatchedWorkRows(input))},
		{ContributorsFile, ptr(buildContributorRows(input))},
		{IdentifiersFile, ptr(buildIdentifierRows(input))},
		{ComprehensiveFile, ptr(buildComprehensiveRows(input))},
		{UnregisteredFile, ptr(buildUnregisteredRows(input.Assessment.Unregistered))},
		{PublisherAnalysisFile, ptr(buildPublisherRows(input.Assessment.Landscape))},
		{MasterReportFile, ptr(buildMasterRows(input))},
	}

	paths := make([]string, 0, len(artifacts)+1)
	for _, artifact := range artifacts {
		path, err := w.writeCSV(artifact.name, artifact.rows)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	summaryPath, err := w.writeSummary(input)
	if err != nil {
		return paths, err
	}
	paths = append(paths, summaryPath)

	w.logger.Info("reports written",
		logging.String("dir", w.dir),
		logging.Int("artifacts", len(paths)))
	return paths, nil
}

func (w *Writer) writeCSV(name string, rows any) (string, error) {
	path := filepath.Join(w.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "reports", "create "+name, "", err)
	}
	if err := gocsv.Marshal(rows, file); err != nil {
		_ = file.Close()
		return "", services.Wrap(services.ErrTransient, "reports", "write "+name, "", err)
	}
	if err := file.Close(); err != nil {
		return "", services.Wrap(services.ErrTransient, "reports", "close "+name, "", err)
	}
	w.logger.Debug("report artifact written", logging.String("file", name))
	return path, nil
}

func (w *Writer) writeSummary(input Input) (string, error) {
	path := filepath.Join(w.dir, SummaryFile)
	file, err := os.Create(path)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "reports", "create "+SummaryFile, "", err)
	}
	if err := RenderSummary(file, input, false); err != nil {
		_ = file.Close()
		return "", services.Wrap(services.ErrTransient, "reports", "write "+SummaryFile, "", err)
	}
	if err := file.Close(); err != nil {
		return "", services.Wrap(services.ErrTransient, "reports", "close "+SummaryFile, "", err)
	}
	w.logger.Debug("report artifact written", logging.String("file", SummaryFile))
	return path, nil
}

// ptr keeps gocsv happy: it wants a pointer to the row slice.
func ptr[T any](rows []T) *[]T {
	return &rows
}
