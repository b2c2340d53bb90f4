package matching_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"reprise/internal/catalog"
	"reprise/internal/matching"
	"reprise/internal/works"
)

type fakeLookup struct {
	mu         sync.Mutex
	byCode     map[string][]works.Work
	byTitle    map[string][]works.Work
	codeCalls  []string
	titleCalls []string
}

func (f *fakeLookup) ByCode(ctx context.Context, code string) []works.Work {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codeCalls = append(f.codeCalls, code)
	return f.byCode[code]
}

func (f *fakeLookup) ByTitle(ctx context.Context, title, artist string) []works.Work {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleCalls = append(f.titleCalls, title)
	return f.byTitle[title]
}

func testCatalog() []catalog.Recording {
	return []catalog.Recording{
		{ID: "sp-1", Title: "God's Plan", Artists: []string{"Drake"}, ISRC: "USCM51800011"},
		{ID: "sp-2", Title: "Nonstop (feat. Nobody)", Artists: []string{"Drake"}},
		{ID: "sp-3", Title: "Obscure Cut", Artists: []string{"Drake"}, ISRC: "XX0000000000"},
	}
}

func testLookup() *fakeLookup {
	return &fakeLookup{
		byCode: map[string][]works.Work{
			"USCM51800011": {{ID: "W1", Title: "GODS PLAN", Source: works.SourceMLC}},
		},
		byTitle: map[string][]works.Work{
			"Nonstop (feat. Nobody)": {{ID: "W2", Title: "Nonstop", Source: works.SourceASCAP}},
			"Obscure Cut":            {{ID: "W3", Title: "Unrelated Composition", Source: works.SourceBMI}},
		},
	}
}

func TestEngineRunMatchesCatalog(t *testing.T) {
	lookup := testLookup()
	engine := matching.NewEngine(lookup, matching.Params{Parallelism: 1}, nil)

	res, err := engine.Run(context.Background(), testCatalog())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records from a 3-recording catalog, got %d: %+v", len(res.Records), res.Records)
	}
	if res.Records[0].RecordingID != "sp-1" || res.Records[0].Method != matching.MethodExactCode {
		t.Fatalf("expected the identifier match for sp-1 first, got %+v", res.Records[0])
	}
	if res.Records[1].RecordingID != "sp-2" || res.Records[1].Method != matching.MethodTitleFuzzy {
		t.Fatalf("expected the fuzzy match for sp-2 second, got %+v", res.Records[1])
	}
	if len(res.Works) != 2 {
		t.Fatalf("expected 2 referenced works, got %d", len(res.Works))
	}
	if _, ok := res.Works["W3"]; ok {
		t.Fatal("unmatched candidate W3 must not appear in the work map")
	}
}

func TestEngineTitleSearchOnlyAfterIdentifierResults(t *testing.T) {
	lookup := testLookup()
	engine := matching.NewEngine(lookup, matching.Params{Parallelism: 1}, nil)

	if _, err := engine.Run(context.Background(), testCatalog()[:1]); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// One identifier match is below the sufficiency count, so the title
	// search still fires, after the identifier search.
	if len(lookup.codeCalls) != 1 || lookup.codeCalls[0] != "USCM51800011" {
		t.Fatalf("unexpected code lookups %v", lookup.codeCalls)
	}
	if len(lookup.titleCalls) != 1 || lookup.titleCalls[0] != "God's Plan" {
		t.Fatalf("unexpected title lookups %v", lookup.titleCalls)
	}
}

func TestEngineSkipsTitleSearchWhenExactSufficient(t *testing.T) {
	lookup := &fakeLookup{
		byCode: map[string][]works.Work{
			"USCM51800011": {
				{ID: "W1", Title: "Gods Plan"},
				{ID: "W1b", Title: "God's Plan"},
			},
		},
	}
	engine := matching.NewEngine(lookup, matching.Params{Parallelism: 1}, nil)

	res, err := engine.Run(context.Background(), testCatalog()[:1])
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 identifier matches, got %d", len(res.Records))
	}
	if len(lookup.titleCalls) != 0 {
		t.Fatalf("title search must be skipped, saw %v", lookup.titleCalls)
	}
}

func TestEngineEmptyLookupResultsYieldNoRecords(t *testing.T) {
	engine := matching.NewEngine(&fakeLookup{}, matching.Params{}, nil)
	res, err := engine.Run(context.Background(), testCatalog())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Records) != 0 || len(res.Works) != 0 {
		t.Fatalf("expected an empty result, got %+v", res)
	}
}

func TestEngineParallelMatchesSequential(t *testing.T) {
	recordings := testCatalog()
	recordings = append(recordings,
		catalog.Recording{ID: "sp-4", Title: "Night", ISRC: "USRC17607840"},
		catalog.Recording{ID: "sp-5", Title: "Solo", Artists: []string{"Frank Ocean"}},
	)
	build := func() *fakeLookup {
		lookup := testLookup()
		lookup.byCode["USRC17607840"] = []works.Work{{ID: "W4", Title: "Night", Source: works.SourceMLC}}
		lookup.byTitle["Night"] = []works.Work{{ID: "W4b", Title: "Nights", Source: works.SourceASCAP}}
		lookup.byTitle["Solo"] = []works.Work{{ID: "W5", Title: "Solo", Source: works.SourceMLC}}
		return lookup
	}

	sequential := matching.NewEngine(build(), matching.Params{Parallelism: 1}, nil)
	parallel := matching.NewEngine(build(), matching.Params{Parallelism: 4}, nil)

	seqRes, err := sequential.Run(context.Background(), recordings)
	if err != nil {
		t.Fatalf("sequential run failed: %v", err)
	}
	parRes, err := parallel.Run(context.Background(), recordings)
	if err != nil {
		t.Fatalf("parallel run failed: %v", err)
	}
	if !reflect.DeepEqual(seqRes.Records, parRes.Records) {
		t.Fatalf("parallel records diverge:\nsequential %+v\nparallel   %+v", seqRes.Records, parRes.Records)
	}
	if !reflect.DeepEqual(seqRes.Works, parRes.Works) {
		t.Fatalf("parallel work maps diverge:\nsequential %+v\nparallel   %+v", seqRes.Works, parRes.Works)
	}
}

func TestEngineCanceledContextReturnsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := matching.NewEngine(testLookup(), matching.Params{Parallelism: 1}, nil)
	res, err := engine.Run(ctx, testCatalog())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(res.Records) != 0 {
		t.Fatalf("expected no records after immediate cancellation, got %d", len(res.Records))
	}
}
