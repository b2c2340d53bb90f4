package analysis

import (
	"fmt"
	"strings"
)

// Opportunity tiers, thresholds, and the factors that feed the score.
const (
	TierHigh   = "HIGH"
	TierMedium = "MEDIUM"
	TierLow    = "LOW"

	tierHighThreshold   = 70
	tierMediumThreshold = 50
)

// majorPublishers are substrings that mark a publisher as one of the majors
// or their administration arms.
var majorPublishers = []string{
	"SONY", "UNIVERSAL", "WARNER", "EMI", "BMG", "KOBALT", "CONCORD", "DOWNTOWN",
}

// IsMajorPublisher reports whether the publisher name belongs to a major
// publishing group.
func IsMajorPublisher(name string) bool {
	upper := strings.ToUpper(name)
	for _, major := range majorPublishers {
		if strings.Contains(upper, major) {
			return true
		}
	}
	return false
}

// Opportunity is the signing-opportunity verdict for a catalog.
type Opportunity struct {
	Score          int
	Tier           string
	Recommendation string
	Factors        []string
}

// scoreOpportunity weighs registration gaps, publisher representation, and
// catalog size into a 0-100 score. Low coverage, no major publisher, and a
// large catalog each push the score up.
func scoreOpportunity(coverage Coverage, landscape Landscape) Opportunity {
	score := 0
	switch {
	case coverage.Percent < 25:
		score += 40
	case coverage.Percent < 50:
		score += 30
	case coverage.Percent < 75:
		score += 20
	default:
		score += 10
	}

	if !landscape.HasMajor {
		score += 30
	}
	if landscape.HasIndie {
		score += 10
	}

	switch {
	case coverage.TotalRecordings > 50:
		score += 20
	case coverage.TotalRecordings > 20:
		score += 15
	default:
		score += 10
	}

	opportunity := Opportunity{Score: score, Factors: factorsOf(coverage, landscape)}
	switch {
	case score >= tierHighThreshold:
		opportunity.Tier = TierHigh
		opportunity.Recommendation = "Strong opportunity: significant unregistered catalog and no major publisher. Excellent candidate for a publishing deal."
	case score >= tierMediumThreshold:
		opportunity.Tier = TierMedium
		opportunity.Recommendation = "Moderate opportunity: the catalog has publishing gaps. Worth investigating for a co-publishing or administration deal."
	default:
		opportunity.Tier = TierLow
		opportunity.Recommendation = "Limited opportunity: the catalog appears well represented. May only suit specific territories or future works."
	}
	return opportunity
}

func factorsOf(coverage Coverage, landscape Landscape) []string {
	var factors []string
	if coverage.UnmatchedCount > 0 {
		factors = append(factors, fmt.Sprintf("%d unregistered recordings (%.0f%% of catalog)",
			coverage.UnmatchedCount, 100-coverage.Percent))
	}
	switch {
	case coverage.TotalRecordings > 50:
		factors = append(factors, fmt.Sprintf("large catalog (%d recordings)", coverage.TotalRecordings))
	case coverage.TotalRecordings > 20:
		factors = append(factors, fmt.Sprintf("moderate catalog (%d recordings)", coverage.TotalRecordings))
	}
	if landscape.SelfPublished {
		factors = append(factors, "no publisher representation on file")
	}
	if landscape.HasIndie {
		factors = append(factors, "existing indie publisher relationship")
	}
	if landscape.HasMajor {
		factors = append(factors, "already represented by a major publisher")
	}
	return factors
}
