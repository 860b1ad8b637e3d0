package cache

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/viant/debtmap/internal/logging"
)

// Strategy selects which entries a prune pass removes first.
type Strategy string

const (
	LRU      Strategy = "lru"
	LFU      Strategy = "lfu"
	FIFO     Strategy = "fifo"
	AgeOnly  Strategy = "age"
	cleanupInterval = 24 * time.Hour
)

// Config mirrors the original's AutoPruner: size/age/count limits, the
// fraction removed per prune pass, and the strategy used to rank candidates.
type Config struct {
	MaxSizeBytes     int64
	MaxAgeDays       int
	MaxEntries       int
	PrunePercentage  float64
	Strategy         Strategy
	WarnSizeBytes    int64 // §6: size-threshold logging; 0 disables
}

// DefaultConfig mirrors the original's 1GB/30-day/10k-entry/25% defaults.
func DefaultConfig() Config {
	return Config{
		MaxSizeBytes:    1024 * 1024 * 1024,
		MaxAgeDays:      30,
		MaxEntries:      10000,
		PrunePercentage: 0.25,
		Strategy:        LRU,
		WarnSizeBytes:   512 * 1024 * 1024,
	}
}

// FromEnv overlays DEBTMAP_CACHE_* environment variables onto DefaultConfig,
// per §6's recognized-variables table.
func FromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("DEBTMAP_CACHE_MAX_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxSizeBytes = n
		}
	}
	if v := os.Getenv("DEBTMAP_CACHE_MAX_AGE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxAgeDays = n
		}
	}
	if v := os.Getenv("DEBTMAP_CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxEntries = n
		}
	}
	if v := os.Getenv("DEBTMAP_CACHE_PRUNE_PERCENTAGE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.PrunePercentage = clamp(f, 0.1, 0.9)
		}
	}
	if v := os.Getenv("DEBTMAP_CACHE_STRATEGY"); v != "" {
		switch strings.ToLower(v) {
		case "lru":
			cfg.Strategy = LRU
		case "lfu":
			cfg.Strategy = LFU
		case "fifo":
			cfg.Strategy = FIFO
		case "age", "age_based":
			cfg.Strategy = AgeOnly
		}
	}
	return cfg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ShouldPrune reports whether the index has crossed a size, count, or
// age-based threshold, following the original's should_prune: age checks
// only fire once per cleanupInterval since the last cleanup, or immediately
// if no cleanup has ever run and an entry is already over-aged.
func ShouldPrune(cfg Config, entries []Metadata, totalSize int64, lastCleanup time.Time) bool {
	if totalSize > cfg.MaxSizeBytes {
		return true
	}
	if len(entries) > cfg.MaxEntries {
		return true
	}

	maxAge := time.Duration(cfg.MaxAgeDays) * 24 * time.Hour
	now := time.Now()

	checkAge := lastCleanup.IsZero() || now.Sub(lastCleanup) > cleanupInterval
	if !checkAge {
		return false
	}
	for _, m := range entries {
		if now.Sub(m.LastAccessed) > maxAge {
			return true
		}
	}
	return false
}

// CalculateEntriesToRemove ranks and selects candidates per strategy, then
// applies the original's select_entries_to_remove target/overflow logic:
// keep removing past the size/count targets as long as the next candidate is
// already older than MaxAgeDays.
func CalculateEntriesToRemove(cfg Config, entries []Metadata, totalSize int64) []Metadata {
	if cfg.Strategy == AgeOnly {
		return pruneByAgeOnly(cfg, entries)
	}

	sorted := append([]Metadata(nil), entries...)
	switch cfg.Strategy {
	case LFU:
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].AccessCount < sorted[j].AccessCount })
	case FIFO:
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })
	default: // LRU
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].LastAccessed.Before(sorted[j].LastAccessed) })
	}

	return selectEntriesToRemove(cfg, sorted, totalSize, len(entries))
}

func pruneByAgeOnly(cfg Config, entries []Metadata) []Metadata {
	maxAge := time.Duration(cfg.MaxAgeDays) * 24 * time.Hour
	now := time.Now()
	var out []Metadata
	for _, m := range entries {
		if now.Sub(m.LastAccessed) > maxAge {
			out = append(out, m)
		}
	}
	return out
}

func selectEntriesToRemove(cfg Config, sorted []Metadata, totalSize int64, entryCount int) []Metadata {
	targetSize := int64(0)
	if totalSize > cfg.MaxSizeBytes {
		excess := totalSize - cfg.MaxSizeBytes
		pruneAmount := int64(float64(cfg.MaxSizeBytes) * cfg.PrunePercentage)
		targetSize = maxInt64(excess, pruneAmount)
	}

	targetCount := 0
	if entryCount > cfg.MaxEntries {
		excess := entryCount - cfg.MaxEntries
		pruneAmount := int(float64(cfg.MaxEntries) * cfg.PrunePercentage)
		targetCount = maxInt(excess, pruneAmount)
	}

	maxAge := time.Duration(cfg.MaxAgeDays) * 24 * time.Hour
	now := time.Now()

	var removed []Metadata
	var removedSize int64
	removedCount := 0
	for _, m := range sorted {
		if removedSize >= targetSize && removedCount >= targetCount {
			if now.Sub(m.LastAccessed) <= maxAge {
				break
			}
		}
		removed = append(removed, m)
		removedSize += m.SizeBytes
		removedCount++
	}
	return removed
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// PruneStats summarizes one pruning pass.
type PruneStats struct {
	EntriesRemoved   int
	BytesFreed       int64
	EntriesRemaining int
	BytesRemaining   int64
	Duration         time.Duration
}

// MaybePrune checks ShouldPrune and, if needed, runs Prune synchronously.
// Returns nil stats if no pruning was necessary or one is already running.
func (c *Cache) MaybePrune() (*PruneStats, error) {
	entries, totalSize, lastCleanup := c.index.snapshot()
	if !ShouldPrune(c.cfg, entries, totalSize, lastCleanup) {
		return nil, nil
	}
	return c.Prune()
}

// Prune runs one pruning pass synchronously. Only one pruner runs at a time;
// a concurrent caller gets (nil, nil) immediately rather than blocking, per
// §5's "pruning in progress" flag policy.
func (c *Cache) Prune() (*PruneStats, error) {
	if !c.pruning.CompareAndSwap(false, true) {
		return nil, nil
	}
	defer c.pruning.Store(false)

	start := time.Now()
	entries, totalSize, _ := c.index.snapshot()
	toRemove := CalculateEntriesToRemove(c.cfg, entries, totalSize)
	if len(toRemove) == 0 {
		return nil, nil
	}

	keys := make([]string, len(toRemove))
	for i, m := range toRemove {
		keys[i] = m.Key
	}

	c.connLock.Lock()
	err := c.deleteRows(keys)
	c.connLock.Unlock()
	if err != nil {
		return nil, err
	}

	bytesFreed := c.index.removeAll(keys)
	remaining, remainingSize, _ := c.index.snapshot()

	if c.cfg.WarnSizeBytes > 0 && remainingSize > c.cfg.WarnSizeBytes {
		logging.New("cache").Warnf("cache size %s exceeds warning threshold %s after pruning",
			humanize.Bytes(uint64(remainingSize)), humanize.Bytes(uint64(c.cfg.WarnSizeBytes)))
	}

	return &PruneStats{
		EntriesRemoved:   len(toRemove),
		BytesFreed:       bytesFreed,
		EntriesRemaining: len(remaining),
		BytesRemaining:   remainingSize,
		Duration:         time.Since(start),
	}, nil
}

func (c *Cache) deleteRows(keys []string) error {
	stmt, err := c.conn.Prepare("DELETE FROM entries WHERE key = ?")
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Finalize() }()
	for _, k := range keys {
		stmt.BindText(1, k)
		if _, err := stmt.Step(); err != nil {
			return err
		}
		if err := stmt.Reset(); err != nil {
			return err
		}
	}
	return nil
}
