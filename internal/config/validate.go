package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Spotify credentials are
// deliberately not required here: commands that never reach the catalog
// provider (report regeneration, run inventory) stay usable without them,
// and the catalog client reports a configuration error when they are
// missing at connect time.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMLC(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateMLC() error {
	if c.MLC.PageSize > 200 {
		return errors.New("mlc.page_size must be at most 200")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if err := ensureUnitInterval(map[string]float64{
		"matching.title_accept_threshold": c.Matching.TitleAcceptThreshold,
		"matching.exact_code_confidence":  c.Matching.ExactCodeConfidence,
		"matching.fuzzy_calibration":      c.Matching.FuzzyCalibration,
	}); err != nil {
		return err
	}
	// The fuzzy ceiling is FuzzyCalibration (at similarity 1.0); exact-code
	// confidence must stay strictly above it so method tiers never invert
	// in a confidence-sorted ordering.
	if c.Matching.ExactCodeConfidence <= c.Matching.FuzzyCalibration {
		return errors.New("matching.exact_code_confidence must be greater than matching.fuzzy_calibration")
	}
	return nil
}

func ensureUnitInterval(values map[string]float64) error {
	for key, value := range values {
		if value <= 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", key)
		}
	}
	return nil
}
