package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSpotify()
	c.normalizeMLC()
	c.normalizeSongview()
	c.normalizeMatching()
	if err := c.normalizeLookup(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSpotify() {
	c.Spotify.ClientID = strings.TrimSpace(c.Spotify.ClientID)
	if c.Spotify.ClientID == "" {
		if value, ok := os.LookupEnv("SPOTIFY_CLIENT_ID"); ok {
			c.Spotify.ClientID = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("SPOTIFY_ID"); ok {
			c.Spotify.ClientID = strings.TrimSpace(value)
		}
	}
	c.Spotify.ClientSecret = strings.TrimSpace(c.Spotify.ClientSecret)
	if c.Spotify.ClientSecret == "" {
		if value, ok := os.LookupEnv("SPOTIFY_CLIENT_SECRET"); ok {
			c.Spotify.ClientSecret = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("SPOTIFY_SECRET"); ok {
			c.Spotify.ClientSecret = strings.TrimSpace(value)
		}
	}
	c.Spotify.Market = strings.ToUpper(strings.TrimSpace(c.Spotify.Market))
	if c.Spotify.Market == "" {
		c.Spotify.Market = defaultSpotifyMarket
	}
}

func (c *Config) normalizeMLC() {
	c.MLC.BaseURL = strings.TrimRight(strings.TrimSpace(c.MLC.BaseURL), "/")
	if c.MLC.BaseURL == "" {
		c.MLC.BaseURL = defaultMLCBaseURL
	}
	if c.MLC.PageSize <= 0 {
		c.MLC.PageSize = defaultMLCPageSize
	}
	if c.MLC.TimeoutSeconds <= 0 {
		c.MLC.TimeoutSeconds = defaultMLCTimeoutSeconds
	}
}

func (c *Config) normalizeSongview() {
	if c.Songview.TimeoutSeconds <= 0 {
		c.Songview.TimeoutSeconds = defaultSongviewTimeout
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.TitleAcceptThreshold == 0 {
		c.Matching.TitleAcceptThreshold = defaultTitleAcceptThreshold
	}
	if c.Matching.ExactCodeConfidence == 0 {
		c.Matching.ExactCodeConfidence = defaultExactCodeConfidence
	}
	if c.Matching.FuzzyCalibration == 0 {
		c.Matching.FuzzyCalibration = defaultFuzzyCalibration
	}
	if c.Matching.ExactMatchSufficiency <= 0 {
		c.Matching.ExactMatchSufficiency = defaultExactMatchSufficiency
	}
	if c.Matching.Parallelism <= 0 {
		c.Matching.Parallelism = defaultParallelism
	}
}

func (c *Config) normalizeLookup() error {
	if c.Lookup.RequestDelayMS < 0 {
		c.Lookup.RequestDelayMS = 0
	}
	if c.Lookup.RequestJitterMS < 0 {
		c.Lookup.RequestJitterMS = 0
	}
	if c.Lookup.MaxRetries <= 0 {
		c.Lookup.MaxRetries = defaultMaxRetries
	}
	if c.Lookup.BackoffMS <= 0 {
		c.Lookup.BackoffMS = defaultBackoffMS
	}
	if strings.TrimSpace(c.Lookup.CachePath) == "" {
		c.Lookup.CachePath = defaultCachePath()
	}
	var err error
	if c.Lookup.CachePath, err = expandPath(c.Lookup.CachePath); err != nil {
		return fmt.Errorf("lookup.cache_path: %w", err)
	}
	if c.Lookup.CacheTTLHours <= 0 {
		c.Lookup.CacheTTLHours = defaultCacheTTLHours
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.TimeoutSeconds <= 0 {
		c.Notifications.TimeoutSeconds = defaultNtfyTimeoutSeconds
	}
}
