package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"reprise/internal/analysis"
	"reprise/internal/catalog"
	"reprise/internal/catalog/spotify"
	"reprise/internal/config"
	"reprise/internal/logging"
	"reprise/internal/lookup"
	"reprise/internal/lookupcache"
	"reprise/internal/matching"
	"reprise/internal/notifications"
	"reprise/internal/reports"
	"reprise/internal/runstore"
	"reprise/internal/services"
	"reprise/internal/works/mlc"
	"reprise/internal/works/songview"
)

// analyzerOptions tune how the pipeline is assembled. They apply to every
// artist an analyzer processes.
type analyzerOptions struct {
	skipSongview bool
	noCache      bool
	parallelism  int
}

// runOptions tune a single artist analysis.
type runOptions struct {
	outputRoot  string
	limit       int
	timestamped bool
}

// runOutcome summarizes one completed analysis for terminal and batch
// rendering.
type runOutcome struct {
	Run      *runstore.Run
	Artist   catalog.Artist
	Input    reports.Input
	Paths    []string
	RunDir   string
	Duration time.Duration
}

// analyzer wires the catalog source, the lookup stack, the match engine,
// and the run store together. One analyzer serves any number of artists so
// batch runs share clients, cache, and request pacing.
type analyzer struct {
	cfg      *config.Config
	logger   *slog.Logger
	source   catalog.Source
	engine   *matching.Engine
	store    *runstore.Store
	notifier notifications.Service
}

func newAnalyzer(cfg *config.Config, logger *slog.Logger, opts analyzerOptions) (*analyzer, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	clientID, clientSecret := cfg.SpotifyCredentials()
	source, err := spotify.New(clientID, clientSecret,
		spotify.WithMarket(cfg.Spotify.Market),
		spotify.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("spotify client: %w (set spotify credentials in the config or SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET)", err)
	}

	database := mlc.New(cfg.MLC.BaseURL,
		mlc.WithLogger(logger),
		mlc.WithPageSize(cfg.MLC.PageSize),
		mlc.WithTimeout(time.Duration(cfg.MLC.TimeoutSeconds)*time.Second),
	)

	var supplement lookup.TitleSearcher
	if cfg.Songview.Enabled && !opts.skipSongview {
		supplement = songview.New(
			songview.WithLogger(logger),
			songview.WithTimeout(time.Duration(cfg.Songview.TimeoutSeconds)*time.Second),
		)
	}

	var cache lookup.Store
	if cfg.Lookup.CacheEnabled && !opts.noCache {
		cache = lookupcache.New(cfg.Lookup.CachePath,
			time.Duration(cfg.Lookup.CacheTTLHours)*time.Hour, logger)
	}

	resolver, err := lookup.NewResolver(database, supplement, cache, lookup.ParamsFromConfig(cfg.Lookup), logger)
	if err != nil {
		return nil, err
	}

	params := matching.Params{
		TitleAcceptThreshold:  cfg.Matching.TitleAcceptThreshold,
		ExactCodeConfidence:   cfg.Matching.ExactCodeConfidence,
		FuzzyCalibration:      cfg.Matching.FuzzyCalibration,
		ExactMatchSufficiency: cfg.Matching.ExactMatchSufficiency,
		Parallelism:           cfg.Matching.Parallelism,
	}
	if opts.parallelism > 0 {
		params.Parallelism = opts.parallelism
	}

	store, err := runstore.Open(cfg.RunDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}

	return &analyzer{
		cfg:      cfg,
		logger:   logger,
		source:   source,
		engine:   matching.NewEngine(resolver, params, logger),
		store:    store,
		notifier: notifications.NewService(cfg),
	}, nil
}

func (a *analyzer) Close() error {
	return a.store.Close()
}

// analyze runs the full pipeline for one artist reference and writes the
// report set plus a run record. Progress markers go to out.
func (a *analyzer) analyze(ctx context.Context, out io.Writer, artistRef string, opts runOptions) (*runOutcome, error) {
	started := time.Now()

	artistID, err := spotify.ExtractArtistID(artistRef)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)

	fmt.Fprintln(out, stepLine("🎤", "Fetching artist "+artistID))
	artist, err := a.source.FetchArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	ctx = services.WithArtist(ctx, artist.Name)
	logger := logging.WithContext(ctx, a.logger)
	logger.Info("analysis started",
		logging.String("artist_id", artist.ID),
		logging.String(logging.FieldEventType, "analysis_started"))

	fmt.Fprintln(out, stepLine("🎵", fmt.Sprintf("Fetching catalog for %s", artist.Name)))
	recordings, err := a.source.FetchCatalog(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if opts.limit > 0 && len(recordings) > opts.limit {
		recordings = recordings[:opts.limit]
	}
	fmt.Fprintln(out, stepLine("🔍", fmt.Sprintf("Matching %d recordings against the works databases", len(recordings))))

	result, err := a.engine.Run(ctx, recordings)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, stepLine("📊", "Assessing publishing coverage"))
	assessment := analysis.Assess(recordings, result)

	outputRoot := strings.TrimSpace(opts.outputRoot)
	if outputRoot == "" {
		outputRoot = a.cfg.Paths.OutputDir
	}
	runDir := filepath.Join(outputRoot, runDirName(artist.Name, started, opts.timestamped))

	writer, err := reports.NewWriter(runDir, logger)
	if err != nil {
		return nil, err
	}
	input := reports.Input{
		Artist:      artist,
		ArtistURL:   artistPageURL(artistID),
		Recordings:  recordings,
		Result:      result,
		Assessment:  assessment,
		GeneratedAt: time.Now(),
	}
	paths, err := writer.WriteAll(input)
	if err != nil {
		return nil, err
	}

	saved, err := a.store.SaveRun(ctx, runstore.Run{
		ID:                runID,
		ArtistID:          artist.ID,
		ArtistName:        artist.Name,
		ArtistURL:         input.ArtistURL,
		TotalRecordings:   assessment.Coverage.TotalRecordings,
		MatchedRecordings: assessment.Coverage.MatchedRecordings,
		CoveragePercent:   assessment.Coverage.Percent,
		OpportunityScore:  assessment.Opportunity.Score,
		OpportunityTier:   assessment.Opportunity.Tier,
		OutputDir:         runDir,
	}, recordings, result)
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	duration := time.Since(started)
	logger.Info("analysis finished",
		logging.Int("recordings", assessment.Coverage.TotalRecordings),
		logging.Int("matched", assessment.Coverage.MatchedRecordings),
		logging.Float64("coverage_percent", assessment.Coverage.Percent),
		logging.Int("opportunity_score", assessment.Opportunity.Score),
		logging.Duration("duration", duration),
		logging.String(logging.FieldEventType, "analysis_finished"))

	// Push failures never fail a finished analysis.
	if err := a.notifier.NotifyAnalysisCompleted(ctx, artist.Name,
		assessment.Coverage.Percent, assessment.Opportunity.Score, assessment.Opportunity.Tier); err != nil {
		logger.Warn("notification failed", logging.Error(err))
	}

	return &runOutcome{
		Run:      saved,
		Artist:   artist,
		Input:    input,
		Paths:    paths,
		RunDir:   runDir,
		Duration: duration,
	}, nil
}

// durationRounding keeps elapsed times readable in status lines.
const durationRounding = 100 * time.Millisecond

var unsafeDirChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeDirName flattens an artist name into a filesystem-safe directory
// component.
func sanitizeDirName(name string) string {
	cleaned := unsafeDirChars.ReplaceAllString(strings.TrimSpace(name), "_")
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		return "artist"
	}
	return cleaned
}

func runDirName(artistName string, at time.Time, timestamped bool) string {
	base := sanitizeDirName(artistName)
	if !timestamped {
		return base
	}
	return base + "_" + at.Format("20060102_150405")
}

func artistPageURL(artistID string) string {
	return "https://open.spotify.com/artist/" + artistID
}
