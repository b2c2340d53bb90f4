package testsupport

import (
	"path/filepath"
	"testing"

	"reprise/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Lookup politeness is zeroed so tests never sleep.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Spotify.ClientID = "test-client"
	cfg.Spotify.ClientSecret = "test-secret"
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Lookup.CachePath = filepath.Join(base, "cache", "lookups.json")
	cfg.Lookup.RequestDelayMS = 0
	cfg.Lookup.RequestJitterMS = 0
	cfg.Lookup.BackoffMS = 0

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithSpotifyCredentials overrides the catalog provider credentials.
func WithSpotifyCredentials(id, secret string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Spotify.ClientID = id
		cfg.Spotify.ClientSecret = secret
	}
}

// WithSongviewEnabled turns on the supplementary society lookups.
func WithSongviewEnabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Songview.Enabled = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
