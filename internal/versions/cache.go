package versions

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// Cache memoizes a Registry in a SQLite database. Entries older than TTL are
// refetched; a failed refetch is not cached.
type Cache struct {
	db       *sql.DB
	inner    Registry
	registry string
	ttl      time.Duration
	now      func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock sets the time source, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// OpenCache opens or creates the cache database at path. registry
// namespaces the entries so one file can serve several registries.
//
// The database runs in WAL mode with a single connection and a 5 second
// busy timeout, so concurrent pinning goroutines queue on the writer.
func OpenCache(path, registry string, inner Registry, ttl time.Duration, opts ...CacheOption) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	c := &Cache{db: db, inner: inner, registry: registry, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) Latest(ctx context.Context, name string) (string, error) {
	var (
		version   string
		fetchedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT version, fetched_at FROM versions WHERE registry = ? AND name = ?`,
		c.registry, name,
	).Scan(&version, &fetchedAt)
	switch {
	case err == nil:
		if c.now().Sub(time.Unix(fetchedAt, 0)) < c.ttl {
			return version, nil
		}
	case !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("reading cache: %w", err)
	}

	version, err = c.inner.Latest(ctx, name)
	if err != nil {
		return "", err
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO versions (registry, name, version, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (registry, name) DO UPDATE SET version = excluded.version, fetched_at = excluded.fetched_at`,
		c.registry, name, version, c.now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("writing cache: %w", err)
	}
	return version, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates the tables and records the schema version. It is
// idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}
