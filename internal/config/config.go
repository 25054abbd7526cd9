// Package config loads pipeline configuration from an optional YAML
// file, merging it over defaults.
package config

import (
	"fmt"
	"os"

	"github.com/nvandessel/tilelens/internal/analysis"
	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration shape.
//
//	pipeline:
//	  max_mistakes: 5
//	  min_ev_diff: 0.5
//	  reviewed_seat: 0
//	cache:
//	  path: ~/.tilelens/cache.db
type File struct {
	Pipeline analysis.Config `yaml:"pipeline"`
	Cache    CacheConfig     `yaml:"cache"`
}

// CacheConfig configures the analysis result cache.
type CacheConfig struct {
	// Path to the sqlite cache database. Empty disables caching.
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() File {
	return File{Pipeline: analysis.DefaultConfig()}
}

// Load reads a YAML config file and merges it over defaults. A missing
// path returns defaults without error; a present but unreadable or
// malformed file is an error.
func Load(path string) (File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}

	// Zero values from a sparse file fall back to defaults.
	if cfg.Pipeline.MaxMistakes == 0 {
		cfg.Pipeline.MaxMistakes = analysis.DefaultConfig().MaxMistakes
	}
	if cfg.Pipeline.MinEVDiff == 0 {
		cfg.Pipeline.MinEVDiff = analysis.DefaultConfig().MinEVDiff
	}

	return cfg, nil
}
