package config

const (
	defaultOutputDir             = "~/reprise"
	defaultDataDir               = "~/.local/share/reprise"
	defaultLogDir                = "~/.local/share/reprise/logs"
	defaultSpotifyMarket         = "US"
	defaultMLCBaseURL            = "https://api.ptl.themlc.com/api2v/public"
	defaultMLCPageSize           = 20
	defaultMLCTimeoutSeconds     = 15
	defaultSongviewTimeout       = 10
	defaultTitleAcceptThreshold  = 0.85
	defaultExactCodeConfidence   = 0.95
	defaultFuzzyCalibration      = 0.85
	defaultExactMatchSufficiency = 2
	defaultParallelism           = 1
	defaultRequestDelayMS        = 500
	defaultRequestJitterMS       = 300
	defaultMaxRetries            = 3
	defaultBackoffMS             = 1000
	defaultCacheTTLHours         = 7 * 24
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 30
	defaultNtfyTimeoutSeconds    = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
		},
		Spotify: Spotify{
			Market: defaultSpotifyMarket,
		},
		MLC: MLC{
			BaseURL:        defaultMLCBaseURL,
			PageSize:       defaultMLCPageSize,
			TimeoutSeconds: defaultMLCTimeoutSeconds,
		},
		Songview: Songview{
			Enabled:        true,
			TimeoutSeconds: defaultSongviewTimeout,
		},
		Matching: Matching{
			TitleAcceptThreshold:  defaultTitleAcceptThreshold,
			ExactCodeConfidence:   defaultExactCodeConfidence,
			FuzzyCalibration:      defaultFuzzyCalibration,
			ExactMatchSufficiency: defaultExactMatchSufficiency,
			Parallelism:           defaultParallelism,
		},
		Lookup: Lookup{
			RequestDelayMS:  defaultRequestDelayMS,
			RequestJitterMS: defaultRequestJitterMS,
			MaxRetries:      defaultMaxRetries,
			BackoffMS:       defaultBackoffMS,
			CacheEnabled:    true,
			CachePath:       defaultCachePath(),
			CacheTTLHours:   defaultCacheTTLHours,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Notifications: Notifications{
			TimeoutSeconds: defaultNtfyTimeoutSeconds,
		},
	}
}
