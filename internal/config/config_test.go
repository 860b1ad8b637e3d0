package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUsesBalancedProfileAndNoTimeoutCap(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0, cfg.MaxFiles)
	assert.Equal(t, "balanced", cfg.FunctionalProfile)
	assert.False(t, cfg.NoTimeout)
}

func TestFromEnvMaxFilesReducesTimeout(t *testing.T) {
	t.Setenv("DEBTMAP_MAX_FILES", "50")
	cfg := FromEnv()
	assert.Equal(t, 50, cfg.MaxFiles)
	assert.Equal(t, reducedFileTimeoutForCap, cfg.FileTimeout)
}

func TestFromEnvMaxFilesZeroKeepsDefaultTimeout(t *testing.T) {
	t.Setenv("DEBTMAP_MAX_FILES", "0")
	cfg := FromEnv()
	assert.Equal(t, 0, cfg.MaxFiles)
	assert.Equal(t, defaultFileTimeout, cfg.FileTimeout)
}

func TestFromEnvNoTimeoutOverridesFileTimeout(t *testing.T) {
	t.Setenv("DEBTMAP_NO_TIMEOUT", "1")
	cfg := FromEnv()
	assert.True(t, cfg.NoTimeout)
	assert.Equal(t, time.Duration(0), cfg.EffectiveTimeout())
}

func TestFromEnvRejectsUnknownFunctionalProfile(t *testing.T) {
	t.Setenv("DEBTMAP_FUNCTIONAL_ANALYSIS_PROFILE", "nonsense")
	cfg := FromEnv()
	assert.Equal(t, "balanced", cfg.FunctionalProfile)
}

func TestFromEnvAcceptsKnownFunctionalProfile(t *testing.T) {
	t.Setenv("DEBTMAP_FUNCTIONAL_ANALYSIS_PROFILE", "strict")
	cfg := FromEnv()
	assert.Equal(t, "strict", cfg.FunctionalProfile)
	assert.Equal(t, 3, cfg.Profile().MinDepth)
}

func TestLoadWithMissingFileReturnsEnvConfig(t *testing.T) {
	cfg, err := Load(context.Background(), "/no/such/file/debtmap.yaml")
	require.NoError(t, err)
	assert.Equal(t, "balanced", cfg.FunctionalProfile)
}
