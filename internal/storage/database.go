package storage

import (
	"context"
	"database/sql"

	_ "github.com/ncruces/go-sqlite3/driver" // registers the "sqlite3" database/sql driver
	_ "github.com/ncruces/go-sqlite3/embed"  // embeds the pure-Go SQLite runtime

	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

// DateTimeFormat is the on-disk timestamp layout used throughout the
// wallet tables, matching the legacy format exactly so existing rows keep
// sorting and parsing correctly.
const DateTimeFormat = "2006-01-02 15:04:05"

// DB wraps a database/sql handle to the wallet's SQLite file and enforces
// the WAL-checkpoint-after-every-write discipline at the call sites that
// perform mutations.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (creating if absent) the SQLite database at path, switches it
// into WAL journal mode, and runs schema creation and migrations.
func Open(ctx context.Context, path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, vaulterrors.Wrap(vaulterrors.ErrDatabase, "open %s", path)
	}
	conn.SetMaxOpenConns(1) // WAL + single-writer wallet file; avoid concurrent-writer lock storms

	db := &DB{conn: conn, path: path}

	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, vaulterrors.Wrap(err, "enable WAL mode")
	}
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys=OFF"); err != nil {
		_ = conn.Close()
		return nil, vaulterrors.Wrap(err, "set pragma")
	}

	if err := db.createSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := db.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the filesystem path the database was opened from.
func (db *DB) Path() string {
	return db.path
}

// Conn exposes the raw *sql.DB for packages (the data engine) that need to
// compose their own statements against the schema this package defines.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Checkpoint issues a truncating WAL checkpoint so a concurrent file-level
// copy of the database observes a complete main file. Call after every
// mutating statement; read paths never call this.
func (db *DB) Checkpoint(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return vaulterrors.Wrap(err, "checkpoint wal")
	}
	return nil
}

// Exec runs a mutating statement and checkpoints the WAL on success.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, vaulterrors.Wrap(vaulterrors.ErrDatabase, "exec: %v", err)
	}
	if err := db.Checkpoint(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// BeginTx starts an explicit transaction. Callers are responsible for
// issuing a WAL checkpoint (via CheckpointTx-adjacent calls or db.Checkpoint
// after Commit) since intermediate statements inside a transaction are not
// individually durable until commit.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, vaulterrors.Wrap(vaulterrors.ErrDatabase, "begin transaction: %v", err)
	}
	return tx, nil
}

func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range createAllTables {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return vaulterrors.Wrap(err, "create schema: %s", firstLine(stmt))
		}
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
