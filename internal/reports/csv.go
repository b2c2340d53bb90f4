package reports

import (
	"fmt"
	"strings"

	"reprise/internal/analysis"
	"reprise/internal/matching"
)

// CSV artifact names. Every run writes the full set so downstream tooling
// can rely on the files existing even when a section is empty.
const (
	MatchedWorksFile      = "matched_works.csv"
	ContributorsFile      = "contributors.csv"
	IdentifiersFile       = "identifiers.csv"
	ComprehensiveFile     = "comprehensive_report.csv"
	UnregisteredFile      = "unregistered_tracks.csv"
	PublisherAnalysisFile = "publisher_analysis.csv"
	MasterReportFile      = "master_report.csv"
	SummaryFile           = "summary.txt"
)

type matchedWorkRow struct {
	WorkID         string `csv:"Work ID"`
	WorkTitle      string `csv:"Work Title"`
	Source         string `csv:"Source"`
	ISWC           string `csv:"ISWC"`
	RecordingID    string `csv:"Recording ID"`
	RecordingTitle string `csv:"Recording Title"`
	ISRC           string `csv:"ISRC"`
	Confidence     string `csv:"Confidence Score"`
	Method         string `csv:"Match Method"`
	Notes          string `csv:"Notes"`
}

type contributorRow struct {
	WorkID          string `csv:"Work ID"`
	WorkTitle       string `csv:"Work Title"`
	ContributorName string `csv:"Contributor Name"`
	ContributorType string `csv:"Contributor Type"`
}

type identifierRow struct {
	RecordingID    string `csv:"Recording ID"`
	RecordingTitle string `csv:"Recording Title"`
	ISRC           string `csv:"ISRC"`
	WorkID         string `csv:"Work ID"`
	WorkTitle      string `csv:"Work Title"`
	ISWC           string `csv:"ISWC"`
	Source         string `csv:"Source"`
	Confidence     string `csv:"Confidence Score"`
	Method         string `csv:"Match Method"`
}

type comprehensiveRow struct {
	RecordingID    string `csv:"Recording ID"`
	RecordingTitle string `csv:"Recording Title"`
	Artists        string `csv:"Artists"`
	Album          string `csv:"Album"`
	ISRC           string `csv:"ISRC"`
	ReleaseDate    string `csv:"Release Date"`
	DurationMS     int    `csv:"Duration (ms)"`
	WorkID         string `csv:"Work ID"`
	WorkTitle      string `csv:"Work Title"`
	ISWC           string `csv:"ISWC"`
	Source         string `csv:"Source"`
	Writers        string `csv:"Writers"`
	Publishers     string `csv:"Publishers"`
	Confidence     string `csv:"Confidence Score"`
	Method         string `csv:"Match Method"`
	Status         string `csv:"Registration Status"`
}

type unregisteredRow struct {
	RecordingTitle string `csv:"Recording Title"`
	ISRC           string `csv:"ISRC"`
	ReleaseDate    string `csv:"Release Date"`
	Album          string `csv:"Album"`
	Artists        string `csv:"Artists"`
	Priority       string `csv:"Priority"`
}

type publisherRow struct {
	Name       string `csv:"Publisher Name"`
	WorkCount  int    `csv:"Work Count"`
	Percentage string `csv:"Percentage"`
	Type       string `csv:"Type"`
}

type masterRow struct {
	RecordingTitle string `csv:"Recording Title"`
	ISRC           string `csv:"ISRC"`
	HasPublishing  string `csv:"Has Publishing"`
	MatchCount     int    `csv:"Match Count"`
	Status         string `csv:"Publishing Status"`
	Opportunity    string `csv:"Opportunity"`
	Notes          string `csv:"Notes"`
}

// Registration status labels used across the CSV set.
const (
	statusRegistered   = "REGISTERED"
	statusUnregistered = "UNREGISTERED"
)

func confidencePercent(confidence float64) string {
	return fmt.Sprintf("%.2f%%", confidence*100)
}

// workOrder returns the distinct work IDs in first-match order, which keeps
// work-keyed artifacts aligned with the match records.
func workOrder(records []matching.MatchRecord) []string {
	seen := make(map[string]struct{}, len(records))
	order := make([]string, 0, len(records))
	for _, record := range records {
		if _, ok := seen[record.WorkID]; ok {
			continue
		}
		seen[record.WorkID] = struct{}{}
		order = append(order, record.WorkID)
	}
	return order
}

func buildMatchedWorkRows(input Input) []matchedWorkRow {
	seen := make(map[string]struct{}, len(input.Result.Records))
	rows := make([]matchedWorkRow, 0, len(input.Result.Records))
	for _, record := range input.Result.Records {
		if _, ok := seen[record.WorkID]; ok {
			continue
		}
		seen[record.WorkID] = struct{}{}
		rows = append(rows, matchedWorkRow{
			WorkID:         record.WorkID,
			WorkTitle:      record.WorkTitle,
			Source:         record.WorkSource,
			ISWC:           record.ISWC,
			RecordingID:    record.RecordingID,
			RecordingTitle: record.RecordingTitle,
			ISRC:           record.RecordingISRC,
			Confidence:     confidencePercent(record.Confidence),
			Method:         record.Method,
			Notes:          record.Note,
		})
	}
	return rows
}

func buildContributorRows(input Input) []contributorRow {
	var rows []contributorRow
	for _, workID := range workOrder(input.Result.Records) {
		work, ok := input.Result.Works[workID]
		if !ok {
			continue
		}
		for _, writer := range work.Writers {
			rows = append(rows, contributorRow{
				WorkID:          work.ID,
				WorkTitle:       work.Title,
				ContributorName: writer,
				ContributorType: "writer",
			})
		}
		for _, publisher := range work.Publishers {
			rows = append(rows, contributorRow{
				WorkID:          work.ID,
				WorkTitle:       work.Title,
				ContributorName: publisher,
				ContributorType: "publisher",
			})
		}
	}
	return rows
}

func buildIdentifierRows(input Input) []identifierRow {
	rows := make([]identifierRow, 0, len(input.Result.Records))
	for _, record := range input.Result.Records {
		rows = append(rows, identifierRow{
			RecordingID:    record.RecordingID,
			RecordingTitle: record.RecordingTitle,
			ISRC:           record.RecordingISRC,
			WorkID:         record.WorkID,
			WorkTitle:      record.WorkTitle,
			ISWC:           record.ISWC,
			Source:         record.WorkSource,
			Confidence:     confidencePercent(record.Confidence),
			Method:         record.Method,
		})
	}
	return rows
}

func buildComprehensiveRows(input Input) []comprehensiveRow {
	byRecording := make(map[string][]matching.MatchRecord, len(input.Result.Records))
	for _, record := range input.Result.Records {
		byRecording[record.RecordingID] = append(byRecording[record.RecordingID], record)
	}

	var rows []comprehensiveRow
	for _, recording := range input.Recordings {
		base := comprehensiveRow{
			RecordingID:    recording.ID,
			RecordingTitle: recording.Title,
			Artists:        strings.Join(recording.Artists, ", "),
			Album:          recording.Album,
			ISRC:           recording.ISRC,
			ReleaseDate:    recording.ReleaseDate,
			DurationMS:     recording.DurationMS,
		}
		records := byRecording[recording.ID]
		if len(records) == 0 {
			base.Status = statusUnregistered
			rows = append(rows, base)
			continue
		}
		for _, record := range records {
			row := base
			row.WorkID = record.WorkID
			row.WorkTitle = record.WorkTitle
			row.ISWC = record.ISWC
			row.Source = record.WorkSource
			row.Confidence = confidencePercent(record.Confidence)
			row.Method = record.Method
			row.Status = statusRegistered
			if work, ok := input.Result.Works[record.WorkID]; ok {
				row.Writers = strings.Join(work.Writers, ", ")
				row.Publishers = strings.Join(work.Publishers, ", ")
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func buildUnregisteredRows(unregistered []analysis.UnregisteredRecording) []unregisteredRow {
	rows := make([]unregisteredRow, 0, len(unregistered))
	for _, entry := range unregistered {
		isrc := entry.Recording.ISRC
		if strings.TrimSpace(isrc) == "" {
			isrc = "N/A"
		}
		rows = append(rows, unregisteredRow{
			RecordingTitle: entry.Recording.Title,
			ISRC:           isrc,
			ReleaseDate:    entry.Recording.ReleaseDate,
			Album:          entry.Recording.Album,
			Artists:        strings.Join(entry.Recording.Artists, ", "),
			Priority:       entry.Priority,
		})
	}
	return rows
}

func buildPublisherRows(landscape analysis.Landscape) []publisherRow {
	rows := make([]publisherRow, 0, len(landscape.Publishers))
	for _, publisher := range landscape.Publishers {
		kind := "Indie"
		if publisher.Major {
			kind = "Major"
		}
		rows = append(rows, publisherRow{
			Name:       publisher.Name,
			WorkCount:  publisher.Works,
			Percentage: fmt.Sprintf("%.1f%%", publisher.Share),
			Type:       kind,
		})
	}
	return rows
}

func buildMasterRows(input Input) []masterRow {
	counts := make(map[string]int, len(input.Result.Records))
	for _, record := range input.Result.Records {
		counts[record.RecordingID]++
	}

	rows := make([]masterRow, 0, len(input.Recordings))
	for _, recording := range input.Recordings {
		row := masterRow{
			RecordingTitle: recording.Title,
			ISRC:           recording.ISRC,
			MatchCount:     counts[recording.ID],
		}
		if row.MatchCount > 0 {
			row.HasPublishing = "YES"
			row.Status = statusRegistered
			row.Opportunity = "LOW"
			row.Notes = fmt.Sprintf("Found %d work(s) in the registration databases", row.MatchCount)
		} else {
			row.HasPublishing = "NO"
			row.Status = statusUnregistered
			row.Opportunity = "HIGH"
			row.Notes = "No publishing found - clear opportunity"
		}
		rows = append(rows, row)
	}
	return rows
}
