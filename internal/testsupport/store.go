package testsupport

import (
	"context"
	"testing"

	"reprise/internal/catalog"
	"reprise/internal/config"
	"reprise/internal/matching"
	"reprise/internal/runstore"
)

// MustOpenStore opens a runstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *runstore.Store {
	t.Helper()

	store, err := runstore.Open(cfg.RunDatabasePath())
	if err != nil {
		t.Fatalf("runstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveRun records a run for tests using the provided store.
func SaveRun(t testing.TB, store *runstore.Store, run runstore.Run, recordings []catalog.Recording, result matching.Result) *runstore.Run {
	t.Helper()

	saved, err := store.SaveRun(context.Background(), run, recordings, result)
	if err != nil {
		t.Fatalf("store.SaveRun: %v", err)
	}
	return saved
}
