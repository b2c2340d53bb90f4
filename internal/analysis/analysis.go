package analysis

import (
	"sort"
	"strings"

	"reprise/internal/catalog"
	"reprise/internal/matching"
	"reprise/internal/works"
)

// Priority labels for unregistered recordings. A recording with an ISRC can
// be registered immediately, so it outranks one that needs identifier
// research first.
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
)

// Coverage summarizes how much of the catalog has at least one registered
// work behind it.
type Coverage struct {
	TotalRecordings   int
	MatchedRecordings int
	UnmatchedCount    int
	Percent           float64
}

// PublisherStat is one publisher's footprint across the matched works.
type PublisherStat struct {
	Name  string
	Works int
	Share float64
	Major bool
}

// Landscape describes the publisher relationships visible in the matched
// works.
type Landscape struct {
	Publishers    []PublisherStat
	HasMajor      bool
	HasIndie      bool
	SelfPublished bool
}

// UnregisteredRecording is a catalog entry with no registered work found.
type UnregisteredRecording struct {
	Recording catalog.Recording
	Priority  string
}

// Assessment bundles everything the reports need about one catalog run.
type Assessment struct {
	Coverage     Coverage
	Landscape    Landscape
	Opportunity  Opportunity
	Unregistered []UnregisteredRecording
}

// Assess computes coverage, the publisher landscape, and the signing
// opportunity for a matched catalog. It is a pure function of its inputs.
func Assess(recordings []catalog.Recording, result matching.Result) Assessment {
	matched := make(map[string]struct{}, len(result.Records))
	for _, record := range result.Records {
		matched[record.RecordingID] = struct{}{}
	}

	coverage := coverageOf(recordings, matched)
	landscape := landscapeOf(result.Works)
	return Assessment{
		Coverage:     coverage,
		Landscape:    landscape,
		Opportunity:  scoreOpportunity(coverage, landscape),
		Unregistered: unregisteredOf(recordings, matched),
	}
}

func coverageOf(recordings []catalog.Recording, matched map[string]struct{}) Coverage {
	coverage := Coverage{TotalRecordings: len(recordings)}
	for _, recording := range recordings {
		if _, ok := matched[recording.ID]; ok {
			coverage.MatchedRecordings++
		}
	}
	coverage.UnmatchedCount = coverage.TotalRecordings - coverage.MatchedRecordings
	if coverage.TotalRecordings > 0 {
		coverage.Percent = float64(coverage.MatchedRecordings) / float64(coverage.TotalRecordings) * 100
	}
	return coverage
}

func landscapeOf(matchedWorks map[string]works.Work) Landscape {
	counts := make(map[string]int)
	for _, work := range matchedWorks {
		for _, name := range publisherCredits(work) {
			counts[name]++
		}
	}

	landscape := Landscape{SelfPublished: len(counts) == 0}
	total := 0
	for _, count := range counts {
		total += count
	}
	for name, count := range counts {
		stat := PublisherStat{
			Name:  name,
			Works: count,
			Major: IsMajorPublisher(name),
		}
		if total > 0 {
			stat.Share = float64(count) / float64(total) * 100
		}
		if stat.Major {
			landscape.HasMajor = true
		}
		landscape.Publishers = append(landscape.Publishers, stat)
	}
	landscape.HasIndie = len(counts) > 0 && !landscape.HasMajor
	sort.Slice(landscape.Publishers, func(i, j int) bool {
		if landscape.Publishers[i].Works != landscape.Publishers[j].Works {
			return landscape.Publishers[i].Works > landscape.Publishers[j].Works
		}
		return landscape.Publishers[i].Name < landscape.Publishers[j].Name
	})
	return landscape
}

// publisherCredits pulls publisher names for one work. The MLC nests the
// authoritative list under originalPublishers in the raw payload; works from
// sources without that shape fall back to the parsed publisher list.
func publisherCredits(work works.Work) []string {
	if raw, ok := work.Raw["originalPublishers"].([]any); ok {
		names := make([]string, 0, len(raw))
		for _, entry := range raw {
			fields, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if name := strings.TrimSpace(works.AsString(fields["publisherName"])); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			return names
		}
	}
	return work.Publishers
}

func unregisteredOf(recordings []catalog.Recording, matched map[string]struct{}) []UnregisteredRecording {
	var unregistered []UnregisteredRecording
	for _, recording := range recordings {
		if _, ok := matched[recording.ID]; ok {
			continue
		}
		priority := PriorityMedium
		if strings.TrimSpace(recording.ISRC) != "" {
			priority = PriorityHigh
		}
		unregistered = append(unregistered, UnregisteredRecording{
			Recording: recording,
			Priority:  priority,
		})
	}
	return unregistered
}
