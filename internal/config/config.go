// Package config aggregates every DEBTMAP_* environment variable from §6
// into one Config value, following the teacher's yaml-tagged config-struct
// idiom (inspector/info/config.go) for the optional on-disk override.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/viant/debtmap/internal/cache"
	"github.com/viant/debtmap/internal/purity"
)

// Config is the full set of behavior toggles §6 names, resolved from
// environment variables with an optional yaml file layered on top.
type Config struct {
	MaxFiles          int           `yaml:"maxFiles"`
	FileTimeout       time.Duration `yaml:"fileTimeout"`
	NoTimeout         bool          `yaml:"noTimeout"`
	Quiet             bool          `yaml:"quiet"`
	Timing            bool          `yaml:"timing"`
	ContextAware      bool          `yaml:"contextAware"`
	FunctionalProfile string        `yaml:"functionalAnalysisProfile"`
	Cache             cache.Config  `yaml:"cache"`
}

const (
	defaultFileTimeout       = 60 * time.Second
	reducedFileTimeoutForCap = 15 * time.Second
)

// Default returns §4.10's baseline: unlimited files, 60s per-file timeout,
// context-aware scoring off, balanced functional-analysis profile.
func Default() Config {
	return Config{
		MaxFiles:          0,
		FileTimeout:       defaultFileTimeout,
		FunctionalProfile: purity.BalancedProfile.Name,
		Cache:             cache.DefaultConfig(),
	}
}

// FromEnv resolves Config from DEBTMAP_* environment variables over
// Default(), per §6's table. DEBTMAP_MAX_FILES being set and nonzero also
// reduces the per-file timeout to 15s, per spec's explicit coupling between
// the two.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("DEBTMAP_MAX_FILES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFiles = n
			if n != 0 {
				cfg.FileTimeout = reducedFileTimeoutForCap
			}
		}
	}
	if v := os.Getenv("DEBTMAP_FILE_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.FileTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("DEBTMAP_NO_TIMEOUT"); v != "" {
		cfg.NoTimeout = true
	}
	if v := os.Getenv("DEBTMAP_QUIET"); v != "" {
		cfg.Quiet = true
	}
	if v := os.Getenv("DEBTMAP_TIMING"); v != "" {
		cfg.Timing = true
	}
	if v := os.Getenv("DEBTMAP_CONTEXT_AWARE"); strings.EqualFold(v, "true") {
		cfg.ContextAware = true
	}
	if v := os.Getenv("DEBTMAP_FUNCTIONAL_ANALYSIS_PROFILE"); v != "" {
		if _, ok := purity.Profiles[v]; ok {
			cfg.FunctionalProfile = v
		}
	}

	cfg.Cache = cache.FromEnv()
	return cfg
}

// Profile resolves the configured functional-analysis profile, falling back
// to balanced if the configured name isn't recognized.
func (c Config) Profile() purity.Profile {
	if p, ok := purity.Profiles[c.FunctionalProfile]; ok {
		return p
	}
	return purity.BalancedProfile
}

// EffectiveTimeout returns the per-file timeout to apply, or zero meaning
// "no timeout", per DEBTMAP_NO_TIMEOUT.
func (c Config) EffectiveTimeout() time.Duration {
	if c.NoTimeout {
		return 0
	}
	return c.FileTimeout
}

// Load resolves Config from the environment, then overlays a yaml file at
// path if one exists, following the optional-override design §6 allows for
// every env-driven setting. A missing file is not an error.
func Load(ctx context.Context, path string) (Config, error) {
	cfg := FromEnv()
	if path == "" {
		return cfg, nil
	}
	fs := afs.New()
	exists, err := fs.Exists(ctx, path)
	if err != nil {
		return cfg, fmt.Errorf("check config file %s: %w", path, err)
	}
	if !exists {
		return cfg, nil
	}
	data, err := fs.DownloadWithURL(ctx, path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}
