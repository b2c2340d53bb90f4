// Package config loads, normalizes, and validates reprise configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SPOTIFY_CLIENT_ID. The Config type centralizes every knob the CLI needs,
// from report output directories to the matching-engine thresholds.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
