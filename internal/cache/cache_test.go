package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesOriginalDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, int64(1024*1024*1024), cfg.MaxSizeBytes)
	assert.Equal(t, 30, cfg.MaxAgeDays)
	assert.Equal(t, 10000, cfg.MaxEntries)
	assert.Equal(t, LRU, cfg.Strategy)
}

func TestFromEnvOverlaysVariablesAndClampsPercentage(t *testing.T) {
	t.Setenv("DEBTMAP_CACHE_MAX_SIZE", "524288000")
	t.Setenv("DEBTMAP_CACHE_MAX_AGE_DAYS", "7")
	t.Setenv("DEBTMAP_CACHE_STRATEGY", "lfu")
	t.Setenv("DEBTMAP_CACHE_PRUNE_PERCENTAGE", "0.95")

	cfg := FromEnv()
	assert.Equal(t, int64(524288000), cfg.MaxSizeBytes)
	assert.Equal(t, 7, cfg.MaxAgeDays)
	assert.Equal(t, LFU, cfg.Strategy)
	assert.Equal(t, 0.9, cfg.PrunePercentage)
}

func TestShouldPruneOnSizeLimit(t *testing.T) {
	cfg := Config{MaxSizeBytes: 1000, MaxEntries: 100, MaxAgeDays: 30}
	assert.False(t, ShouldPrune(cfg, nil, 500, time.Now()))
	assert.True(t, ShouldPrune(cfg, nil, 1500, time.Now()))
}

func TestShouldPruneOnEntryLimit(t *testing.T) {
	cfg := Config{MaxSizeBytes: 1 << 30, MaxEntries: 2, MaxAgeDays: 30}
	entries := []Metadata{{Key: "a"}, {Key: "b"}, {Key: "c"}}
	assert.True(t, ShouldPrune(cfg, entries, 0, time.Now()))
}

func TestShouldPruneOnAgeRequiresCleanupIntervalElapsed(t *testing.T) {
	cfg := Config{MaxSizeBytes: 1 << 30, MaxEntries: 1000, MaxAgeDays: 1}
	old := []Metadata{{Key: "a", LastAccessed: time.Now().Add(-48 * time.Hour)}}

	// lastCleanup just happened: age check is skipped even though entry is old.
	assert.False(t, ShouldPrune(cfg, old, 0, time.Now()))

	// lastCleanup long ago (or zero, meaning never): age check fires.
	assert.True(t, ShouldPrune(cfg, old, 0, time.Time{}))
}

func TestCalculateEntriesToRemoveLRUOrdersByLastAccessed(t *testing.T) {
	now := time.Now()
	cfg := Config{MaxSizeBytes: 100, MaxEntries: 1000, MaxAgeDays: 9999, PrunePercentage: 0.5, Strategy: LRU}
	entries := []Metadata{
		{Key: "newest", LastAccessed: now, SizeBytes: 60},
		{Key: "oldest", LastAccessed: now.Add(-time.Hour), SizeBytes: 60},
	}
	removed := CalculateEntriesToRemove(cfg, entries, 120)
	require.NotEmpty(t, removed)
	assert.Equal(t, "oldest", removed[0].Key)
}

func TestCalculateEntriesToRemoveLFUOrdersByAccessCount(t *testing.T) {
	cfg := Config{MaxSizeBytes: 10, MaxEntries: 1000, MaxAgeDays: 9999, PrunePercentage: 0.5, Strategy: LFU}
	entries := []Metadata{
		{Key: "popular", AccessCount: 50, SizeBytes: 60},
		{Key: "rare", AccessCount: 1, SizeBytes: 60},
	}
	removed := CalculateEntriesToRemove(cfg, entries, 120)
	require.NotEmpty(t, removed)
	assert.Equal(t, "rare", removed[0].Key)
}

func TestCalculateEntriesToRemoveAgeOnlyIgnoresSizeAndCount(t *testing.T) {
	cfg := Config{MaxSizeBytes: 1 << 30, MaxEntries: 1000, MaxAgeDays: 1, Strategy: AgeOnly}
	now := time.Now()
	entries := []Metadata{
		{Key: "old", LastAccessed: now.Add(-48 * time.Hour)},
		{Key: "fresh", LastAccessed: now},
	}
	removed := CalculateEntriesToRemove(cfg, entries, 0)
	if assert.Len(t, removed, 1) {
		assert.Equal(t, "old", removed[0].Key)
	}
}

func TestOpenSetGetRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(dbPath, DefaultConfig())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	key, err := HashKey([]byte("hello world"))
	require.NoError(t, err)

	require.NoError(t, c.Set(key, []byte("cached analysis result")))

	got, found, err := c.Get(key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "cached analysis result", string(got))

	_, found, err = c.Get("does-not-exist")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHashKeyIsDeterministic(t *testing.T) {
	a, err := HashKey([]byte("same content"))
	require.NoError(t, err)
	b, err := HashKey([]byte("same content"))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := HashKey([]byte("different content"))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestPruneRemovesOverLimitEntries(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	cfg := Config{MaxSizeBytes: 1 << 30, MaxEntries: 2, MaxAgeDays: 9999, PrunePercentage: 0.5, Strategy: FIFO}
	c, err := Open(dbPath, cfg)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	for _, k := range []string{"k1", "k2", "k3"} {
		require.NoError(t, c.Set(k, []byte("payload-"+k)))
	}

	stats, err := c.MaybePrune()
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.GreaterOrEqual(t, stats.EntriesRemoved, 1)

	_, found, err := c.Get("k1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPruneIsANoOpWhenNothingExceedsLimits(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(dbPath, DefaultConfig())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	require.NoError(t, c.Set("k1", []byte("small")))
	stats, err := c.MaybePrune()
	require.NoError(t, err)
	assert.Nil(t, stats)
}
