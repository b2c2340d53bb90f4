package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"reprise/internal/analysis"
)

const (
	summaryRule     = "================================================================================"
	coverageBarSize = 20
	topPublishers   = 5
)

// RenderSummary writes the A&R text summary. With colored set the
// opportunity tier is highlighted for terminal output; file output stays
// plain.
func RenderSummary(out io.Writer, input Input, colored bool) error {
	assessment := input.Assessment
	coverage := assessment.Coverage
	landscape := assessment.Landscape
	opportunity := assessment.Opportunity

	var b strings.Builder
	section(&b, "ARTIST PUBLISHING ANALYSIS")
	fmt.Fprintf(&b, "Artist: %s\n", input.Artist.Name)
	if input.Artist.ID != "" {
		fmt.Fprintf(&b, "Artist ID: %s\n", input.Artist.ID)
	}
	fmt.Fprintf(&b, "Analysis Date: %s\n", input.GeneratedAt.Format("2006-01-02 15:04:05"))
	if input.ArtistURL != "" {
		fmt.Fprintf(&b, "Catalog URL: %s\n", input.ArtistURL)
	}
	b.WriteString("\n")

	section(&b, "PUBLISHING COVERAGE")
	fmt.Fprintf(&b, "Total Recordings: %d\n", coverage.TotalRecordings)
	fmt.Fprintf(&b, "Registered: %d (%.1f%%)\n", coverage.MatchedRecordings, coverage.Percent)
	fmt.Fprintf(&b, "Unregistered: %d (%.1f%%)\n\n", coverage.UnmatchedCount, 100-coverage.Percent)
	fmt.Fprintf(&b, "Coverage:\n%s %.1f%%\n\n", coverageBar(coverage.Percent), coverage.Percent)
	if coverage.TotalRecordings > 0 && coverage.UnmatchedCount*2 > coverage.TotalRecordings {
		fmt.Fprintf(&b, "SIGNIFICANT GAP: %.0f%% of the catalog is unregistered\n\n", 100-coverage.Percent)
	}

	section(&b, "PUBLISHER ANALYSIS")
	if len(landscape.Publishers) > 0 {
		b.WriteString("Current Publishers:\n")
		for i, publisher := range landscape.Publishers {
			if i == topPublishers {
				break
			}
			fmt.Fprintf(&b, "  - %s: %d work(s)\n", publisher.Name, publisher.Works)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("No publishers found in the registration databases\n\n")
	}
	fmt.Fprintf(&b, "Has Major Publisher: %s\n", yesNo(landscape.HasMajor))
	fmt.Fprintf(&b, "Has Indie Publisher: %s\n", yesNo(landscape.HasIndie))
	fmt.Fprintf(&b, "Self-Published/Unrepresented: %s\n\n", yesNo(landscape.SelfPublished))

	section(&b, "OPPORTUNITY ASSESSMENT")
	fmt.Fprintf(&b, "Opportunity Score: %d/100\n", opportunity.Score)
	fmt.Fprintf(&b, "Opportunity Level: %s\n\n", tierLabel(opportunity.Tier, colored))
	fmt.Fprintf(&b, "Recommendation:\n%s\n", opportunity.Recommendation)
	if len(opportunity.Factors) > 0 {
		b.WriteString("\nKey Factors:\n")
		for _, factor := range opportunity.Factors {
			fmt.Fprintf(&b, "  - %s\n", factor)
		}
	}
	b.WriteString("\n" + summaryRule + "\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func section(b *strings.Builder, title string) {
	b.WriteString(summaryRule + "\n")
	b.WriteString("  " + title + "\n")
	b.WriteString(summaryRule + "\n\n")
}

// coverageBar renders a 20-cell bar, one cell per 5% of coverage.
func coverageBar(percent float64) string {
	filled := int(percent / 5)
	if filled < 0 {
		filled = 0
	}
	if filled > coverageBarSize {
		filled = coverageBarSize
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", coverageBarSize-filled) + "]"
}

func tierLabel(tier string, colored bool) string {
	if !colored {
		return tier
	}
	switch tier {
	case analysis.TierHigh:
		return color.New(color.FgGreen, color.Bold).Sprint(tier)
	case analysis.TierMedium:
		return color.New(color.FgYellow, color.Bold).Sprint(tier)
	default:
		return color.New(color.FgRed).Sprint(tier)
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
