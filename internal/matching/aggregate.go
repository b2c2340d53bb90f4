package matching

import (
	"fmt"
	"sort"
	"strings"

	"reprise/internal/catalog"
	"reprise/internal/works"
)

// Candidates carries the per-strategy candidate slices for one recording, as
// returned by the lookup collaborators. Either slice may be empty.
type Candidates struct {
	ByCode  []CodeCandidate
	ByTitle []works.Work
}

// MatchSet is the per-recording result: records sorted descending by
// confidence (stable, so discovery order breaks ties) plus the works they
// reference, keyed by work ID. The map covers exactly the referenced works.
type MatchSet struct {
	Records []MatchRecord
	Works   map[string]works.Work
}

// ExactCount reports how many records the identifier strategy produced.
func (s MatchSet) ExactCount() int {
	count := 0
	for _, record := range s.Records {
		if record.Method == MethodExactCode {
			count++
		}
	}
	return count
}

// Aggregate evaluates every candidate for one recording. Strategy order is
// fixed: exact-code first (only when the recording carries a code), then
// title-fuzzy, and the fuzzy pass runs only when the exact pass produced
// fewer than ExactMatchSufficiency records. Records are deduplicated by work
// ID with the first occurrence winning, which also implements the rule that
// a work already holding an exact-code record is never re-evaluated fuzzily.
// An empty MatchSet is a normal outcome, not an error.
func Aggregate(rec catalog.Recording, cands Candidates, p Params) MatchSet {
	p = p.withDefaults()

	set := MatchSet{Works: make(map[string]works.Work)}

	if strings.TrimSpace(rec.ISRC) != "" {
		for _, cand := range cands.ByCode {
			record, ok := evaluateExactCode(rec, cand, p)
			if !ok {
				continue
			}
			if _, seen := set.Works[record.WorkID]; seen {
				continue
			}
			set.Works[record.WorkID] = cand.Work
			set.Records = append(set.Records, record)
		}
	}

	if set.ExactCount() < p.ExactMatchSufficiency {
		for _, work := range cands.ByTitle {
			if _, seen := set.Works[work.ID]; seen {
				continue
			}
			record, ok := evaluateTitleFuzzy(rec, work, p)
			if !ok {
				continue
			}
			set.Works[record.WorkID] = work
			set.Records = append(set.Records, record)
		}
	}

	sort.SliceStable(set.Records, func(i, j int) bool {
		return set.Records[i].Confidence > set.Records[j].Confidence
	})

	assertCovered(set)
	return set
}

// assertCovered fails loudly when a record references a work absent from the
// set's work map. That state is an aggregator defect, not bad external data,
// so it is not tolerated silently.
func assertCovered(set MatchSet) {
	for _, record := range set.Records {
		if _, ok := set.Works[record.WorkID]; !ok {
			panic(fmt.Sprintf("matching: record references work %q missing from work map", record.WorkID))
		}
	}
}
