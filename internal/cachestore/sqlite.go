package cachestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current cache schema version. A mismatch drops and
// recreates the table since every row is disposable.
const schemaVersion = 1

// SQLiteOptions bounds the SQLite medium. Zero values disable a limit.
type SQLiteOptions struct {
	MaxEntries int
	MaxBytes   int64
	TTL        time.Duration
}

// SQLiteMedium persists entries in a single SQLite table.
type SQLiteMedium struct {
	db   *sql.DB
	path string
	opts SQLiteOptions
	now  func() time.Time
}

// OpenSQLite opens or creates the cache database at path.
func OpenSQLite(path string, opts SQLiteOptions) (*SQLiteMedium, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	m := &SQLiteMedium{db: db, path: path, opts: opts, now: time.Now}
	if err := m.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

func (m *SQLiteMedium) initSchema(ctx context.Context) error {
	var tableExists int
	err := m.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists > 0 {
		var version int
		err = m.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
		if err == nil && version == schemaVersion {
			return nil
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("read schema version: %w", err)
		}
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DROP TABLE IF EXISTS cache_entries", "DROP TABLE IF EXISTS schema_version", schemaSQL} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (m *SQLiteMedium) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

func (m *SQLiteMedium) Read(ctx context.Context, key string) (Entry, bool, error) {
	var (
		value     []byte
		writtenAt int64
	)
	err := m.db.QueryRowContext(ctx,
		"SELECT value, written_at FROM cache_entries WHERE key = ?", key,
	).Scan(&value, &writtenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("read cache entry: %w", err)
	}
	return Entry{Value: value, WrittenAt: writtenAt}, true, nil
}

func (m *SQLiteMedium) Write(ctx context.Context, key string, entry Entry) error {
	if err := m.ensureRoom(ctx, key, int64(len(entry.Value))); err != nil {
		return err
	}
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, written_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, written_at = excluded.written_at`,
		key, []byte(entry.Value), entry.WrittenAt,
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// ensureRoom enforces the quota for a write of size bytes under key. Expired
// rows are pruned once before the write is refused.
func (m *SQLiteMedium) ensureRoom(ctx context.Context, key string, size int64) error {
	if m.opts.MaxEntries <= 0 && m.opts.MaxBytes <= 0 {
		return nil
	}
	fits, err := m.fits(ctx, key, size)
	if err != nil || fits {
		return err
	}
	if m.opts.TTL > 0 {
		if _, err := m.Prune(ctx, m.now().Add(-m.opts.TTL)); err != nil {
			return err
		}
		fits, err = m.fits(ctx, key, size)
		if err != nil || fits {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrQuotaExceeded, m.path)
}

func (m *SQLiteMedium) fits(ctx context.Context, key string, size int64) (bool, error) {
	var count int
	var total sql.NullInt64
	err := m.db.QueryRowContext(ctx,
		"SELECT COUNT(1), SUM(LENGTH(value)) FROM cache_entries WHERE key <> ?", key,
	).Scan(&count, &total)
	if err != nil {
		return false, fmt.Errorf("measure cache: %w", err)
	}
	if m.opts.MaxEntries > 0 && count+1 > m.opts.MaxEntries {
		return false, nil
	}
	if m.opts.MaxBytes > 0 && total.Int64+size > m.opts.MaxBytes {
		return false, nil
	}
	return true, nil
}

func (m *SQLiteMedium) Delete(ctx context.Context, key string) error {
	if _, err := m.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

func (m *SQLiteMedium) Clear(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, "DELETE FROM cache_entries"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Prune deletes rows written before cutoff.
func (m *SQLiteMedium) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := m.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE written_at < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}
	return int(n), nil
}

func (m *SQLiteMedium) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Backend: "sqlite", Path: m.path}
	var total sql.NullInt64
	err := m.db.QueryRowContext(ctx,
		"SELECT COUNT(1), SUM(LENGTH(value)) FROM cache_entries",
	).Scan(&stats.Entries, &total)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	stats.Bytes = total.Int64
	return stats, nil
}
