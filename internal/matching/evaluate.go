package matching

import (
	"fmt"
	"strings"

	"reprise/internal/catalog"
	"reprise/internal/works"
)

// Calibrated confidence constants. The fuzzy ceiling (FuzzyCalibration, at
// similarity 1.0) stays strictly below ConfidenceExactCode, so method tiers
// never invert in a confidence-sorted ordering.
const (
	// ConfidenceExactCode is assigned to every identifier match.
	ConfidenceExactCode = 0.95
	// TitleAcceptThreshold is the minimum similarity a fuzzy candidate must reach.
	TitleAcceptThreshold = 0.85
	// FuzzyCalibration scales an accepted similarity into a confidence.
	FuzzyCalibration = 0.85
	// ExactMatchSufficiency is the identifier-match count at which the title
	// search is skipped for a recording. Tunable policy, not a correctness
	// invariant.
	ExactMatchSufficiency = 2
)

// Match method tags, carried on records for auditability.
const (
	MethodExactCode  = "exact-code"
	MethodTitleFuzzy = "title-fuzzy"
)

// Params carries the tunable evaluator constants. Zero values fall back to
// the calibrated defaults above, so Params{} is ready to use.
type Params struct {
	TitleAcceptThreshold  float64
	ExactCodeConfidence   float64
	FuzzyCalibration      float64
	ExactMatchSufficiency int
	Parallelism           int
}

func (p Params) withDefaults() Params {
	if p.TitleAcceptThreshold <= 0 {
		p.TitleAcceptThreshold = TitleAcceptThreshold
	}
	if p.ExactCodeConfidence <= 0 {
		p.ExactCodeConfidence = ConfidenceExactCode
	}
	if p.FuzzyCalibration <= 0 {
		p.FuzzyCalibration = FuzzyCalibration
	}
	if p.ExactMatchSufficiency <= 0 {
		p.ExactMatchSufficiency = ExactMatchSufficiency
	}
	if p.Parallelism <= 0 {
		p.Parallelism = 1
	}
	return p
}

// MatchRecord links one recording to one registered work, with the
// confidence and strategy that produced the link. Records are immutable once
// created.
type MatchRecord struct {
	RecordingID    string
	RecordingTitle string
	RecordingISRC  string
	WorkID         string
	WorkTitle      string
	WorkSource     string
	ISWC           string
	Confidence     float64
	Method         string
	Note           string
}

// CodeCandidate pairs a candidate work with the recording code the rights
// database associated it with. The lookup layer sets Code to the code it
// searched by; the database asserted the association by returning the work
// for that query.
type CodeCandidate struct {
	Work works.Work
	Code string
}

// evaluateExactCode applies the identifier strategy: applicable only when
// both codes are non-empty after trimming and equal case-insensitively. A
// code match is authoritative; title content is not consulted.
func evaluateExactCode(rec catalog.Recording, cand CodeCandidate, p Params) (MatchRecord, bool) {
	recCode := strings.TrimSpace(rec.ISRC)
	candCode := strings.TrimSpace(cand.Code)
	if recCode == "" || candCode == "" || !strings.EqualFold(recCode, candCode) {
		return MatchRecord{}, false
	}
	if strings.TrimSpace(cand.Work.ID) == "" {
		return MatchRecord{}, false
	}
	return MatchRecord{
		RecordingID:    rec.ID,
		RecordingTitle: rec.Title,
		RecordingISRC:  rec.ISRC,
		WorkID:         cand.Work.ID,
		WorkTitle:      cand.Work.Title,
		WorkSource:     cand.Work.Source,
		ISWC:           cand.Work.ISWC,
		Confidence:     p.ExactCodeConfidence,
		Method:         MethodExactCode,
		Note:           "matched via standard recording identifier",
	}, true
}

// evaluateTitleFuzzy applies the fallback strategy: accepts when the
// normalized-title similarity reaches the threshold, with confidence
// similarity·calibration. Missing fields degrade to empty-string comparison,
// never to an error.
func evaluateTitleFuzzy(rec catalog.Recording, work works.Work, p Params) (MatchRecord, bool) {
	if strings.TrimSpace(work.ID) == "" {
		return MatchRecord{}, false
	}
	similarity := TitleSimilarity(rec.Title, work.Title)
	if similarity < p.TitleAcceptThreshold {
		return MatchRecord{}, false
	}
	return MatchRecord{
		RecordingID:    rec.ID,
		RecordingTitle: rec.Title,
		RecordingISRC:  rec.ISRC,
		WorkID:         work.ID,
		WorkTitle:      work.Title,
		WorkSource:     work.Source,
		ISWC:           work.ISWC,
		Confidence:     similarity * p.FuzzyCalibration,
		Method:         MethodTitleFuzzy,
		Note:           fmt.Sprintf("title similarity %.2f%%", similarity*100),
	}, true
}
