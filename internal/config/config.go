package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
}

// Spotify contains configuration for the catalog provider.
type Spotify struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Market       string `toml:"market"`
}

// MLC contains configuration for The MLC public works database.
type MLC struct {
	BaseURL        string `toml:"base_url"`
	PageSize       int    `toml:"page_size"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Songview contains configuration for the ASCAP/BMI Songview lookups.
type Songview struct {
	Enabled        bool `toml:"enabled"`
	TimeoutSeconds int  `toml:"timeout_seconds"`
}

// Matching contains the tunable constants of the match evaluator. The
// defaults are the calibrated production values; raising the threshold
// trades recall for precision.
type Matching struct {
	TitleAcceptThreshold  float64 `toml:"title_accept_threshold"`
	ExactCodeConfidence   float64 `toml:"exact_code_confidence"`
	FuzzyCalibration      float64 `toml:"fuzzy_calibration"`
	ExactMatchSufficiency int     `toml:"exact_match_sufficiency"`
	Parallelism           int     `toml:"parallelism"`
}

// Lookup contains politeness and caching configuration for works-database
// searches.
type Lookup struct {
	RequestDelayMS  int    `toml:"request_delay_ms"`
	RequestJitterMS int    `toml:"request_jitter_ms"`
	MaxRetries      int    `toml:"max_retries"`
	BackoffMS       int    `toml:"backoff_ms"`
	CacheEnabled    bool   `toml:"cache_enabled"`
	CachePath       string `toml:"cache_path"`
	CacheTTLHours   int    `toml:"cache_ttl_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Notifications contains the optional ntfy push configuration. An empty
// topic URL disables notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Config encapsulates all configuration values for reprise.
//
// Configuration sections by subsystem:
//   - Paths: output, data (run database), and log directories
//   - Spotify: catalog provider credentials and market
//   - MLC: works database endpoint and paging
//   - Songview: ASCAP/BMI best-effort lookups
//   - Matching: evaluator thresholds and batch parallelism
//   - Lookup: request pacing, retries, and the response cache
//   - Logging: log format and level
//   - Notifications: ntfy pushes for finished analyses
type Config struct {
	Paths         Paths         `toml:"paths"`
	Spotify       Spotify       `toml:"spotify"`
	MLC           MLC           `toml:"mlc"`
	Songview      Songview      `toml:"songview"`
	Matching      Matching      `toml:"matching"`
	Lookup        Lookup        `toml:"lookup"`
	Logging       Logging       `toml:"logging"`
	Notifications Notifications `toml:"notifications"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reprise/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/reprise/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reprise.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SpotifyCredentials returns the trimmed client credentials.
func (c *Config) SpotifyCredentials() (id, secret string) {
	return strings.TrimSpace(c.Spotify.ClientID), strings.TrimSpace(c.Spotify.ClientSecret)
}

// RunDatabasePath returns the SQLite run database location under the data
// directory.
func (c *Config) RunDatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "runs.db")
}

// LogFilePath returns the process log location under the log directory.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "reprise.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "reprise", "lookup_cache.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/reprise/lookup_cache.json"
	}
	return filepath.Join(home, ".cache", "reprise", "lookup_cache.json")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
