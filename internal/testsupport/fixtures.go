package testsupport

import (
	"reprise/internal/catalog"
	"reprise/internal/matching"
	"reprise/internal/works"
)

// SampleRecordings returns a small catalog with one ISRC-carrying track, one
// without, and one that should stay unmatched.
func SampleRecordings() []catalog.Recording {
	return []catalog.Recording{
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
			Title:   "Nonstop (feat. Nobody)",
			Artists: []string{"Drake"},
			Album:   "Scorpion",
		},
		{
			ID:      "sp-3",
			Title:   "Obscure Cut",
			Artists: []string{"Drake"},
			ISRC:    "USXXX0000001",
			Album:   "Loosies",
		},
	}
}

// SampleResult returns a match result aligned with SampleRecordings: sp-1
// matched exactly, sp-2 matched fuzzily, sp-3 unmatched.
func SampleResult() matching.Result {
	w1 := works.Work{
		ID:         "W1",
		Title:      "GOD'S PLAN",
		Source:     works.SourceMLC,
		ISWC:       "T-916.019.500-6",
		Writers:    []string{"Aubrey Graham"},
		Publishers: []string{"Sony Music Publishing"},
	}
	w2 := works.Work{
		ID:      "W2",
		Title:   "NONSTOP",
		Source:  works.SourceMLC,
		Writers: []string{"Aubrey Graham"},
	}
	return matching.Result{
		Records: []matching.MatchRecord{
			{
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
			},
			{
				RecordingID:    "sp-2",
				RecordingTitle: "Nonstop (feat. Nobody)",
				WorkID:         "W2",
				WorkTitle:      "NONSTOP",
				WorkSource:     works.SourceMLC,
				Confidence:     matching.FuzzyCalibration,
				Method:         matching.MethodTitleFuzzy,
				Note:           "title similarity 100.00%",
			},
		},
		Works: map[string]works.Work{"W1": w1, "W2": w2},
	}
}
