package analysis_test

import (
	"fmt"
	"testing"

	"reprise/internal/analysis"
	"reprise/internal/catalog"
	"reprise/internal/matching"
	"reprise/internal/works"
)

func testRecording(id, isrc string) catalog.Recording {
	return catalog.Recording{
		ID:      id,
		Title:   "Track " + id,
		Artists: []string{"Artist"},
		ISRC:    isrc,
	}
}

func matchedResult(recordingIDs ...string) matching.Result {
	result := matching.Result{Works: map[string]works.Work{}}
	for i, id := range recordingIDs {
		workID := fmt.Sprintf("W%d", i+1)
		result.Records = append(result.Records, matching.MatchRecord{
			RecordingID: id,
			WorkID:      workID,
			Confidence:  matching.ConfidenceExactCode,
			Method:      matching.MethodExactCode,
		})
		result.Works[workID] = works.Work{ID: workID, Source: works.SourceMLC}
	}
	return result
}

func rawPublishers(names ...string) map[string]any {
	entries := make([]any, 0, len(names))
	for _, name := range names {
		entries = append(entries, map[string]any{"publisherName": name})
	}
	return map[string]any{"originalPublishers": entries}
}

func TestAssessCoverage(t *testing.T) {
	recordings := []catalog.Recording{
		testRecording("sp-1", "USCM51800011"),
		testRecording("sp-2", ""),
		testRecording("sp-3", "USCM51800012"),
		testRecording("sp-4", ""),
	}
	// Two records for the same recording must count it once.
	result := matchedResult("sp-1", "sp-1", "sp-2")

	assessment := analysis.Assess(recordings, result)
	coverage := assessment.Coverage
	if coverage.TotalRecordings != 4 || coverage.MatchedRecordings != 2 || coverage.UnmatchedCount != 2 {
		t.Fatalf("unexpected coverage counts: %+v", coverage)
	}
	if coverage.Percent != 50 {
		t.Fatalf("expected 50%% coverage, got %.1f", coverage.Percent)
	}
}

func TestAssessEmptyCatalog(t *testing.T) {
	assessment := analysis.Assess(nil, matching.Result{Works: map[string]works.Work{}})
	if assessment.Coverage.Percent != 0 {
		t.Fatalf("expected zero coverage, got %.1f", assessment.Coverage.Percent)
	}
	if len(assessment.Unregistered) != 0 {
		t.Fatalf("expected no unregistered recordings, got %d", len(assessment.Unregistered))
	}
}

func TestPublisherLandscape(t *testing.T) {
	result := matching.Result{Works: map[string]works.Work{
		"W1": {ID: "W1", Raw: rawPublishers("SONY MUSIC PUBLISHING", "TINY INDIE")},
		"W2": {ID: "W2", Raw: rawPublishers("SONY MUSIC PUBLISHING")},
	}}

	landscape := analysis.Assess(nil, result).Landscape
	if len(landscape.Publishers) != 2 {
		t.Fatalf("expected 2 publishers, got %d", len(landscape.Publishers))
	}
	first := landscape.Publishers[0]
	if first.Name != "SONY MUSIC PUBLISHING" || first.Works != 2 || !first.Major {
		t.Fatalf("unexpected leading publisher: %+v", first)
	}
	second := landscape.Publishers[1]
	if second.Name != "TINY INDIE" || second.Works != 1 || second.Major {
		t.Fatalf("unexpected second publisher: %+v", second)
	}
	if second.Share < 33.2 || second.Share > 33.4 {
		t.Fatalf("expected roughly a third share, got %.2f", second.Share)
	}
	if !landscape.HasMajor || landscape.HasIndie || landscape.SelfPublished {
		t.Fatalf("unexpected landscape flags: %+v", landscape)
	}
}

func TestLandscapeFallsBackToParsedPublishers(t *testing.T) {
	result := matching.Result{Works: map[string]works.Work{
		"W1": {ID: "W1", Publishers: []string{"Indie House"}},
	}}

	landscape := analysis.Assess(nil, result).Landscape
	if len(landscape.Publishers) != 1 || landscape.Publishers[0].Name != "Indie House" {
		t.Fatalf("expected parsed publishers to be used, got %+v", landscape.Publishers)
	}
	if landscape.HasMajor || !landscape.HasIndie || landscape.SelfPublished {
		t.Fatalf("unexpected landscape flags: %+v", landscape)
	}
}

func TestOpportunityScoring(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		matched    int
		publishers map[string]any
		score      int
		tier       string
	}{
		{
			name:    "unrepresented and unregistered",
			total:   4,
			matched: 0,
			score:   80, // 40 coverage + 30 no major + 10 small catalog
			tier:    analysis.TierHigh,
		},
		{
			name:       "indie only with gaps",
			total:      10,
			matched:    3,
			publishers: rawPublishers("Tiny Indie"),
			score:      80, // 30 + 30 + 10 indie + 10
			tier:       analysis.TierHigh,
		},
		{
			name:       "major with low coverage",
			total:      25,
			matched:    5,
			publishers: rawPublishers("UNIVERSAL MUSIC PUBLISHING"),
			score:      55, // 40 + 15 moderate catalog
			tier:       analysis.TierMedium,
		},
		{
			name:       "major with strong coverage",
			total:      60,
			matched:    55,
			publishers: rawPublishers("WARNER CHAPPELL"),
			score:      30, // 10 + 20 large catalog
			tier:       analysis.TierLow,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recordings := make([]catalog.Recording, 0, tc.total)
			matchedIDs := make([]string, 0, tc.matched)
			for i := 0; i < tc.total; i++ {
				id := fmt.Sprintf("sp-%d", i)
				recordings = append(recordings, testRecording(id, ""))
				if i < tc.matched {
					matchedIDs = append(matchedIDs, id)
				}
			}
			result := matchedResult(matchedIDs...)
			if tc.publishers != nil {
				result.Works["WP"] = works.Work{ID: "WP", Raw: tc.publishers}
			}

			opportunity := analysis.Assess(recordings, result).Opportunity
			if opportunity.Score != tc.score {
				t.Fatalf("expected score %d, got %d", tc.score, opportunity.Score)
			}
			if opportunity.Tier != tc.tier {
				t.Fatalf("expected tier %s, got %s", tc.tier, opportunity.Tier)
			}
			if opportunity.Recommendation == "" {
				t.Fatal("expected a recommendation")
			}
		})
	}
}

func TestUnregisteredPriorities(t *testing.T) {
	recordings := []catalog.Recording{
		testRecording("sp-1", "USCM51800011"),
		testRecording("sp-2", "USCM51800012"),
		testRecording("sp-3", ""),
	}
	result := matchedResult("sp-1")

	unregistered := analysis.Assess(recordings, result).Unregistered
	if len(unregistered) != 2 {
		t.Fatalf("expected 2 unregistered recordings, got %d", len(unregistered))
	}
	if unregistered[0].Recording.ID != "sp-2" || unregistered[0].Priority != analysis.PriorityHigh {
		t.Fatalf("expected sp-2 HIGH, got %s %s", unregistered[0].Recording.ID, unregistered[0].Priority)
	}
	if unregistered[1].Recording.ID != "sp-3" || unregistered[1].Priority != analysis.PriorityMedium {
		t.Fatalf("expected sp-3 MEDIUM, got %s %s", unregistered[1].Recording.ID, unregistered[1].Priority)
	}
}

func TestIsMajorPublisher(t *testing.T) {
	tests := []struct {
		name  string
		major bool
	}{
		{"Sony Music Publishing (US) LLC", true},
		{"EMI Blackwood Music Inc.", true},
		{"Kobalt Songs Music Publishing", true},
		{"Tiny Indie Collective", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := analysis.IsMajorPublisher(tc.name); got != tc.major {
			t.Fatalf("IsMajorPublisher(%q) = %v, want %v", tc.name, got, tc.major)
		}
	}
}
