package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reprise/internal/catalog"
	"reprise/internal/matching"
	"reprise/internal/works"
)

// Run is one recorded catalog analysis.
type Run struct {
	ID                string
	ArtistID          string
	ArtistName        string
	ArtistURL         string
	TotalRecordings   int
	MatchedRecordings int
	CoveragePercent   float64
	OpportunityScore  int
	OpportunityTier   string
	OutputDir         string
	CreatedAt         time.Time
}

const runColumns = "id, artist_id, artist_name, artist_url, total_recordings, matched_recordings, coverage_percent, opportunity_score, opportunity_tier, output_dir, created_at"

// SaveRun records a run together with its catalog snapshot, match records,
// and distinct works. A missing run ID is filled with a fresh UUID. The
// catalog snapshot keeps report regeneration offline: unmatched recordings
// exist nowhere else.
func (s *Store) SaveRun(ctx context.Context, run Run, recordings []catalog.Recording, result matching.Result) (*Run, error) {
	ctx = ensureContext(ctx)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.ArtistID,
			run.ArtistName,
			run.ArtistURL,
			run.TotalRecordings,
			run.MatchedRecordings,
			run.CoveragePercent,
			run.OpportunityScore,
			run.OpportunityTier,
			run.OutputDir,
			run.CreatedAt.Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, record := range result.Records {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_matches (
                    run_id, recording_id, recording_title, recording_isrc,
                    work_id, work_title, work_source, iswc, confidence, method, note
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID,
				record.RecordingID,
				record.RecordingTitle,
				nullableString(record.RecordingISRC),
				record.WorkID,
				nullableString(record.WorkTitle),
				nullableString(record.WorkSource),
				nullableString(record.ISWC),
				record.Confidence,
				record.Method,
				nullableString(record.Note),
			); err != nil {
				return fmt.Errorf("insert match record: %w", err)
			}
		}

		for workID, work := range result.Works {
			payload, err := json.Marshal(work)
			if err != nil {
				return fmt.Errorf("marshal work %s: %w", workID, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_works (run_id, work_id, payload_json) VALUES (?, ?, ?)`,
				run.ID, workID, string(payload),
			); err != nil {
				return fmt.Errorf("insert work: %w", err)
			}
		}

		for position, recording := range recordings {
			payload, err := json.Marshal(recording)
			if err != nil {
				return fmt.Errorf("marshal recording %s: %w", recording.ID, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_recordings (run_id, position, payload_json) VALUES (?, ?, ?)`,
				run.ID, position, string(payload),
			); err != nil {
				return fmt.Errorf("insert recording: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun returns a run by ID, or nil when it does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]*Run, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadResult rebuilds the match result recorded for a run, for report
// regeneration.
func (s *Store) LoadResult(ctx context.Context, runID string) (matching.Result, error) {
	ctx = ensureContext(ctx)
	result := matching.Result{Works: map[string]works.Work{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT recording_id, recording_title, recording_isrc, work_id, work_title,
                work_source, iswc, confidence, method, note
         FROM run_matches WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return result, fmt.Errorf("query match records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			record matching.MatchRecord
			isrc   sql.NullString
			title  sql.NullString
			source sql.NullString
			iswc   sql.NullString
			note   sql.NullString
		)
		if err := rows.Scan(
			&record.RecordingID,
			&record.RecordingTitle,
			&isrc,
			&record.WorkID,
			&title,
			&source,
			&iswc,
			&record.Confidence,
			&record.Method,
			&note,
		); err != nil {
			return result, fmt.Errorf("scan match record: %w", err)
		}
		record.RecordingISRC = isrc.String
		record.WorkTitle = title.String
		record.WorkSource = source.String
		record.ISWC = iswc.String
		record.Note = note.String
		result.Records = append(result.Records, record)
	}
	if err := rows.Err(); err != nil {
		return result, err
	}

	workRows, err := s.db.QueryContext(ctx,
		`SELECT work_id, payload_json FROM run_works WHERE run_id = ? ORDER BY work_id`, runID)
	if err != nil {
		return result, fmt.Errorf("query works: %w", err)
	}
	defer workRows.Close()

	for workRows.Next() {
		var (
			workID  string
			payload string
		)
		if err := workRows.Scan(&workID, &payload); err != nil {
			return result, fmt.Errorf("scan work: %w", err)
		}
		var work works.Work
		if err := json.Unmarshal([]byte(payload), &work); err != nil {
			return result, fmt.Errorf("unmarshal work %s: %w", workID, err)
		}
		result.Works[workID] = work
	}
	return result, workRows.Err()
}

// LoadCatalog rebuilds the recording list captured for a run, in catalog
// order.
func (s *Store) LoadCatalog(ctx context.Context, runID string) ([]catalog.Recording, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload_json FROM run_recordings WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query recordings: %w", err)
	}
	defer rows.Close()

	var recordings []catalog.Recording
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		var recording catalog.Recording
		if err := json.Unmarshal([]byte(payload), &recording); err != nil {
			return nil, fmt.Errorf("unmarshal recording: %w", err)
		}
		recordings = append(recordings, recording)
	}
	return recordings, rows.Err()
}

// DeleteRun removes a run and its dependent rows. It reports whether a run
// was actually deleted.
func (s *Store) DeleteRun(ctx context.Context, id string) (bool, error) {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	return affected > 0, nil
}

// Clear removes all recorded runs and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return affected, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		createdRaw string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.ArtistID,
		&run.ArtistName,
		&run.ArtistURL,
		&run.TotalRecordings,
		&run.MatchedRecordings,
		&run.CoveragePercent,
		&run.OpportunityScore,
		&run.OpportunityTier,
		&run.OutputDir,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	if createdRaw != "" {
		created, err := time.Parse(time.RFC3339Nano, createdRaw)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		run.CreatedAt = created
	}
	return &run, nil
}
