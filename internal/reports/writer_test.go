package reports

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reprise/internal/analysis"
	"reprise/internal/catalog"
	"reprise/internal/matching"
	"reprise/internal/works"
)

func testInput() Input {
	recordings := []catalog.Recording{
		{
			ID:          "sp-1",
			Title:       "God's Plan",
			Artists:     []string{"Drake"},
			ISRC:        "USCM51800011",
			Album:       "Scorpion",
			ReleaseDate: "2018-06-29",
			DurationMS:  198973,
		},
		{
			ID:      "sp-2",
			Title:   "Obscure Cut",
			Artists: []string{"Drake", "Guest"},
			Album:   "Loosies",
		},
	}
	result := matching.Result{
		Records: []matching.MatchRecord{{
			RecordingID:    "sp-1",
			RecordingTitle: "God's Plan",
			RecordingISRC:  "USCM51800011",
			WorkID:         "W1",
			WorkTitle:      "GOD'S PLAN",
			WorkSource:     works.SourceMLC,
			ISWC:           "T-916.019.500-6",
			Confidence:     matching.ConfidenceExactCode,
			Method:         matching.MethodExactCode,
			Note:           "matched via standard recording identifier",
		}},
		Works: map[string]works.Work{
			"W1": {
				ID:         "W1",
				Title:      "GOD'S PLAN",
				Source:     works.SourceMLC,
				ISWC:       "T-916.019.500-6",
				Writers:    []string{"Aubrey Graham", "Matthew Samuels"},
				Publishers: []string{"Sony Music Publishing"},
			},
		},
	}
	return Input{
		Artist:      catalog.Artist{ID: "artist-1", Name: "Drake"},
		ArtistURL:   "https://open.spotify.com/artist/artist-1",
		Recordings:  recordings,
		Result:      result,
		Assessment:  analysis.Assess(recordings, result),
		GeneratedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestWriteAllProducesArtifactSet(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewWriter(dir, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	paths, err := writer.WriteAll(testInput())
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(paths) != 8 {
		t.Fatalf("expected 8 artifacts, got %d", len(paths))
	}
	for _, name := range []string{
		MatchedWorksFile, ContributorsFile, IdentifiersFile, ComprehensiveFile,
		UnregisteredFile, PublisherAnalysisFile, MasterReportFile, SummaryFile,
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}

	matched := mustRead(t, filepath.Join(dir, MatchedWorksFile))
	if !strings.HasPrefix(matched, "Work ID,Work Title,Source,ISWC,Recording ID") {
		t.Fatalf("unexpected matched works header: %q", strings.SplitN(matched, "\n", 2)[0])
	}
	if !strings.Contains(matched, "W1,GOD'S PLAN,mlc,T-916.019.500-6,sp-1,God's Plan,USCM51800011,95.00%,exact-code") {
		t.Fatalf("matched works row missing: %s", matched)
	}

	contributors := mustRead(t, filepath.Join(dir, ContributorsFile))
	for _, want := range []string{
		"W1,GOD'S PLAN,Aubrey Graham,writer",
		"W1,GOD'S PLAN,Matthew Samuels,writer",
		"W1,GOD'S PLAN,Sony Music Publishing,publisher",
	} {
		if !strings.Contains(contributors, want) {
			t.Fatalf("contributors missing %q:\n%s", want, contributors)
		}
	}

	unregistered := mustRead(t, filepath.Join(dir, UnregisteredFile))
	if !strings.Contains(unregistered, "Obscure Cut,N/A,,Loosies,\"Drake, Guest\",MEDIUM") {
		t.Fatalf("unexpected unregistered row:\n%s", unregistered)
	}

	publishers := mustRead(t, filepath.Join(dir, PublisherAnalysisFile))
	if !strings.Contains(publishers, "Sony Music Publishing,1,100.0%,Major") {
		t.Fatalf("unexpected publisher analysis:\n%s", publishers)
	}
}

func TestBuildMatchedWorkRowsDedupesByWork(t *testing.T) {
	input := testInput()
	second := input.Result.Records[0]
	second.RecordingID = "sp-9"
	input.Result.Records = append(input.Result.Records, second)

	rows := buildMatchedWorkRows(input)
	if len(rows) != 1 {
		t.Fatalf("expected one row per distinct work, got %d", len(rows))
	}
	if rows[0].RecordingID != "sp-1" {
		t.Fatalf("expected the first record to win, got %s", rows[0].RecordingID)
	}
}

func TestBuildComprehensiveRows(t *testing.T) {
	input := testInput()
	extra := input.Result.Records[0]
	extra.WorkID = "W2"
	extra.WorkTitle = "GODS PLAN (ALT)"
	extra.Method = matching.MethodTitleFuzzy
	extra.Confidence = 0.85
	input.Result.Records = append(input.Result.Records, extra)

	rows := buildComprehensiveRows(input)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (2 matches + 1 unregistered), got %d", len(rows))
	}
	if rows[0].Status != "REGISTERED" || rows[1].Status != "REGISTERED" {
		t.Fatalf("expected registered rows first, got %s / %s", rows[0].Status, rows[1].Status)
	}
	if rows[0].Writers != "Aubrey Graham, Matthew Samuels" {
		t.Fatalf("unexpected writers: %q", rows[0].Writers)
	}
	if rows[1].WorkID != "W2" || rows[1].Confidence != "85.00%" {
		t.Fatalf("unexpected second match row: %+v", rows[1])
	}
	last := rows[2]
	if last.RecordingID != "sp-2" || last.Status != "UNREGISTERED" || last.WorkID != "" {
		t.Fatalf("unexpected unregistered row: %+v", last)
	}
}

func TestBuildMasterRows(t *testing.T) {
	rows := buildMasterRows(testInput())
	if len(rows) != 2 {
		t.Fatalf("expected a row per recording, got %d", len(rows))
	}
	registered := rows[0]
	if registered.HasPublishing != "YES" || registered.Status != "REGISTERED" || registered.Opportunity != "LOW" || registered.MatchCount != 1 {
		t.Fatalf("unexpected registered row: %+v", registered)
	}
	gap := rows[1]
	if gap.HasPublishing != "NO" || gap.Status != "UNREGISTERED" || gap.Opportunity != "HIGH" {
		t.Fatalf("unexpected unregistered row: %+v", gap)
	}
	if !strings.Contains(gap.Notes, "clear opportunity") {
		t.Fatalf("unexpected notes: %q", gap.Notes)
	}
}

func TestNewWriterRequiresDirectory(t *testing.T) {
	if _, err := NewWriter("   ", nil); err == nil {
		t.Fatal("expected error for blank directory")
	}
}
