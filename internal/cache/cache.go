// Package cache implements §4.11/§5/§9's on-disk analysis cache: a
// SQLite-backed key->blob store behind a read-write-locked in-memory index,
// with highwayhash-derived keys and an auto-pruner supporting LRU/LFU/FIFO/
// AgeOnly strategies. Grounded on overkam-code-property-graph's db.go for the
// zombiezen.com/go/sqlite connection/pragma/prepare idiom, the teacher's own
// inspector/graph/hash.go for highwayhash key derivation, and
// original_source/src/cache/auto_pruner.rs for the pruning trigger and
// removal-quantity formulas.
package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/minio/highwayhash"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

var hashKeyBytes = []byte("0123456789ABCDEF0123456789ABCDEF")

// HashKey derives a stable cache key from content, following the teacher's
// own highwayhash usage in inspector/graph/hash.go.
func HashKey(data []byte) (string, error) {
	h, err := highwayhash.New64(hashKeyBytes)
	if err != nil {
		return "", err
	}
	if _, err := h.Write(data); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// Metadata tracks bookkeeping for one cached entry, mirroring the original's
// CacheMetadata.
type Metadata struct {
	Key          string
	CreatedAt    time.Time
	LastAccessed time.Time
	AccessCount  int64
	SizeBytes    int64
}

// Index is the in-memory mirror of the cache's entries, guarded by an
// RWMutex so a pruning pass and concurrent file-analysis reads can proceed
// without serializing on each other except during the brief removal step.
type Index struct {
	mu          sync.RWMutex
	entries     map[string]Metadata
	totalSize   int64
	lastCleanup time.Time
}

func newIndex() *Index {
	return &Index{entries: map[string]Metadata{}}
}

func (idx *Index) snapshot() ([]Metadata, int64, time.Time) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]Metadata, 0, len(idx.entries))
	for _, m := range idx.entries {
		out = append(out, m)
	}
	return out, idx.totalSize, idx.lastCleanup
}

func (idx *Index) record(m Metadata) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if old, ok := idx.entries[m.Key]; ok {
		idx.totalSize -= old.SizeBytes
	}
	idx.entries[m.Key] = m
	idx.totalSize += m.SizeBytes
}

func (idx *Index) touch(key string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	m, ok := idx.entries[key]
	if !ok {
		return
	}
	m.LastAccessed = time.Now()
	m.AccessCount++
	idx.entries[key] = m
}

func (idx *Index) removeAll(keys []string) (bytesFreed int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, k := range keys {
		if m, ok := idx.entries[k]; ok {
			bytesFreed += m.SizeBytes
			idx.totalSize -= m.SizeBytes
			delete(idx.entries, k)
		}
	}
	idx.lastCleanup = time.Now()
	return bytesFreed
}

// Cache is the on-disk key->blob store with its in-memory Index.
type Cache struct {
	conn     *sqlite.Conn
	index    *Index
	cfg      Config
	pruning  atomic.Bool
	connLock sync.Mutex
}

// Open creates (or reopens) a SQLite-backed cache at path.
func Open(path string, cfg Config) (*Cache, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate, sqlite.OpenReadWrite, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	} {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	ddl := `
CREATE TABLE IF NOT EXISTS entries (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    created_at INTEGER NOT NULL,
    last_accessed INTEGER NOT NULL,
    access_count INTEGER NOT NULL,
    size_bytes INTEGER NOT NULL
);`
	if err := sqlitex.ExecuteScript(conn, ddl, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create entries table: %w", err)
	}

	c := &Cache{conn: conn, index: newIndex(), cfg: cfg}
	if err := c.loadIndex(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) loadIndex() error {
	return sqlitex.ExecuteTransient(c.conn,
		"SELECT key, created_at, last_accessed, access_count, size_bytes FROM entries", &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				c.index.record(Metadata{
					Key:          stmt.ColumnText(0),
					CreatedAt:    time.Unix(stmt.ColumnInt64(1), 0),
					LastAccessed: time.Unix(stmt.ColumnInt64(2), 0),
					AccessCount:  stmt.ColumnInt64(3),
					SizeBytes:    stmt.ColumnInt64(4),
				})
				return nil
			},
		})
}

// Get returns the cached blob for key, and whether it was found.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	c.connLock.Lock()
	defer c.connLock.Unlock()

	stmt, err := c.conn.Prepare("SELECT value FROM entries WHERE key = ?")
	if err != nil {
		return nil, false, fmt.Errorf("prepare get: %w", err)
	}
	defer func() { _ = stmt.Finalize() }()
	stmt.BindText(1, key)

	hasRow, err := stmt.Step()
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	if !hasRow {
		return nil, false, nil
	}
	buf := make([]byte, stmt.ColumnLen(0))
	stmt.ColumnBytes(0, buf)
	c.index.touch(key)
	c.touchRow(key)
	return buf, true, nil
}

func (c *Cache) touchRow(key string) {
	_ = sqlitex.Execute(c.conn,
		"UPDATE entries SET last_accessed = ?, access_count = access_count + 1 WHERE key = ?",
		&sqlitex.ExecOptions{Args: []any{time.Now().Unix(), key}})
}

// Set inserts or replaces the blob stored under key.
func (c *Cache) Set(key string, data []byte) error {
	c.connLock.Lock()
	defer c.connLock.Unlock()

	now := time.Now()
	stmt, err := c.conn.Prepare(`
INSERT INTO entries (key, value, created_at, last_accessed, access_count, size_bytes)
VALUES (?, ?, ?, ?, 0, ?)
ON CONFLICT(key) DO UPDATE SET
    value = excluded.value,
    last_accessed = excluded.last_accessed,
    size_bytes = excluded.size_bytes`)
	if err != nil {
		return fmt.Errorf("prepare set: %w", err)
	}
	defer func() { _ = stmt.Finalize() }()

	stmt.BindText(1, key)
	stmt.BindBytes(2, data)
	stmt.BindInt64(3, now.Unix())
	stmt.BindInt64(4, now.Unix())
	stmt.BindInt64(5, int64(len(data)))
	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	c.index.record(Metadata{
		Key:          key,
		CreatedAt:    now,
		LastAccessed: now,
		AccessCount:  0,
		SizeBytes:    int64(len(data)),
	})
	return nil
}

// Close closes the underlying connection.
func (c *Cache) Close() error {
	return c.conn.Close()
}
