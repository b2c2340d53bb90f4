package runstore_test

import (
	"context"
	"reflect"
	"testing"

	"reprise/internal/matching"
	"reprise/internal/runstore"
	"reprise/internal/testsupport"
)

func TestSaveRunAssignsIDAndTimestamps(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	saved := testsupport.SaveRun(t, store, runstore.Run{
		ArtistID:          "artist-1",
		ArtistName:        "Drake",
		TotalRecordings:   3,
		MatchedRecordings: 2,
		CoveragePercent:   66.7,
		OpportunityScore:  55,
		OpportunityTier:   "MEDIUM",
	}, testsupport.SampleRecordings(), testsupport.SampleResult())

	if saved.ID == "" {
		t.Fatal("expected a run ID to be assigned")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	fetched, err := store.GetRun(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected run to be found")
	}
	if fetched.ArtistName != "Drake" || fetched.MatchedRecordings != 2 || fetched.OpportunityTier != "MEDIUM" {
		t.Fatalf("unexpected run: %+v", fetched)
	}
}

func TestGetRunMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	run, err := store.GetRun(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil for missing run, got %+v", run)
	}
}

func TestLoadResultRoundTrips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	original := testsupport.SampleResult()
	saved := testsupport.SaveRun(t, store, runstore.Run{ArtistID: "artist-1", ArtistName: "Drake"}, testsupport.SampleRecordings(), original)

	loaded, err := store.LoadResult(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}
	if !reflect.DeepEqual(loaded.Records, original.Records) {
		t.Fatalf("records did not round-trip:\n got %+v\nwant %+v", loaded.Records, original.Records)
	}
	if !reflect.DeepEqual(loaded.Works, original.Works) {
		t.Fatalf("works did not round-trip:\n got %+v\nwant %+v", loaded.Works, original.Works)
	}
}

func TestLoadCatalogKeepsOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	recordings := testsupport.SampleRecordings()
	saved := testsupport.SaveRun(t, store, runstore.Run{ArtistID: "artist-1", ArtistName: "Drake"}, recordings, matching.Result{})

	loaded, err := store.LoadCatalog(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if !reflect.DeepEqual(loaded, recordings) {
		t.Fatalf("catalog did not round-trip:\n got %+v\nwant %+v", loaded, recordings)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	first := testsupport.SaveRun(t, store, runstore.Run{ArtistID: "a1", ArtistName: "First"}, nil, matching.Result{})
	second := testsupport.SaveRun(t, store, runstore.Run{ArtistID: "a2", ArtistName: "Second"}, nil, matching.Result{})

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("expected newest first, got %s then %s", runs[0].ID, runs[1].ID)
	}
}

func TestDeleteRunCascades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	saved := testsupport.SaveRun(t, store, runstore.Run{ArtistID: "a1", ArtistName: "Drake"}, testsupport.SampleRecordings(), testsupport.SampleResult())

	deleted, err := store.DeleteRun(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if !deleted {
		t.Fatal("expected run to be deleted")
	}

	loaded, err := store.LoadResult(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}
	if len(loaded.Records) != 0 || len(loaded.Works) != 0 {
		t.Fatalf("expected cascade delete, got %d records %d works", len(loaded.Records), len(loaded.Works))
	}

	recordings, err := store.LoadCatalog(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(recordings) != 0 {
		t.Fatalf("expected recordings to cascade, got %d", len(recordings))
	}

	if deletedAgain, err := store.DeleteRun(context.Background(), saved.ID); err != nil || deletedAgain {
		t.Fatalf("expected no-op second delete, got %v %v", deletedAgain, err)
	}
}

func TestClearRemovesEverything(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.SaveRun(t, store, runstore.Run{ArtistID: "a1", ArtistName: "One"}, nil, matching.Result{})
	testsupport.SaveRun(t, store, runstore.Run{ArtistID: "a2", ArtistName: "Two"}, nil, matching.Result{})

	cleared, err := store.Clear(context.Background())
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if cleared != 2 {
		t.Fatalf("expected 2 cleared runs, got %d", cleared)
	}

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty store, got %d runs", len(runs))
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	saved := testsupport.SaveRun(t, store, runstore.Run{ArtistID: "a1", ArtistName: "Drake"}, nil, matching.Result{})
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := runstore.Open(cfg.RunDatabasePath())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	run, err := reopened.GetRun(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run == nil || run.ArtistName != "Drake" {
		t.Fatalf("expected persisted run, got %+v", run)
	}
}
