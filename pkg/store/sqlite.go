package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/logging"
	_ "github.com/mattn/go-sqlite3"
)

// migration is one step of the sqlite schema.
type migration struct {
	version     int
	description string
	statements  []string
}

var sqliteMigrations = []migration{
	{
		version:     1,
		description: "key/value table with revisions",
		statements: []string{`
			CREATE TABLE IF NOT EXISTS kv (
				key TEXT PRIMARY KEY,
				value BLOB NOT NULL,
				revision INTEGER NOT NULL,
				updated_at INTEGER NOT NULL
			)`,
		},
	},
}

// SQLiteStore keeps blobs in a single sqlite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and applies
// pending migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Storage("open", path, err)
	}

	dsn := path + "?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Storage("open", path, err)
	}

	// sqlite has a single writer; one connection keeps writes serialized.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Storage("open", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, errors.Storage("migrate", path, err)
	}

	logging.NewLogger("store").WithField("path", path).Debug("Record store opened")
	return &SQLiteStore{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER,
			description TEXT
		)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	log := logging.NewLogger("store")
	for _, m := range sqliteMigrations {
		if m.version <= current {
			continue
		}
		log.WithField("version", m.version).Debugf("Applying migration: %s", m.description)

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		for _, stmt := range m.statements {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d: %w", m.version, err)
			}
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_version (version, applied_at, description) VALUES (?, ?, ?)",
			m.version, time.Now().UnixMilli(), m.description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Read(ctx context.Context, key string) (Blob, bool, error) {
	var (
		blob      Blob
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT value, revision, updated_at FROM kv WHERE key = ?", key,
	).Scan(&blob.Data, &blob.Revision, &updatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Blob{}, false, nil
	}
	if err != nil {
		return Blob{}, false, errors.Storage("read", key, err)
	}
	blob.UpdatedAt = time.UnixMilli(updatedAt)
	return blob, true, nil
}

func (s *SQLiteStore) Write(ctx context.Context, key string, data []byte, expectedRevision int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Storage("write", key, err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	var res sql.Result
	if expectedRevision == 0 {
		res, err = tx.ExecContext(ctx, `
			INSERT INTO kv (key, value, revision, updated_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT(key) DO NOTHING`,
			key, data, now)
	} else {
		res, err = tx.ExecContext(ctx, `
			UPDATE kv SET value = ?, revision = revision + 1, updated_at = ?
			WHERE key = ? AND revision = ?`,
			data, now, key, expectedRevision)
	}
	if err != nil {
		return 0, errors.Storage("write", key, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Storage("write", key, err)
	}
	if affected == 0 {
		var actual int64
		if err := tx.QueryRowContext(ctx, "SELECT revision FROM kv WHERE key = ?", key).Scan(&actual); err != nil && !stderrors.Is(err, sql.ErrNoRows) {
			return 0, errors.Storage("write", key, err)
		}
		return 0, errors.RevisionConflict(key, expectedRevision, actual)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Storage("write", key, err)
	}
	return expectedRevision + 1, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return errors.Storage("delete", key, err)
	}
	return nil
}

func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, errors.Storage("keys", "*", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Storage("keys", "*", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("keys", "*", err)
	}
	return keys, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
