// Package sqlite persists sessions with their URL registry and documents
// in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fwojciec/navigator"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// schemaVersion is stored in PRAGMA user_version. Opening a database with a
// higher version fails rather than risk writing rows an older schema lacks.
const schemaVersion = 1

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	// WAL is unavailable for in-memory databases.
	if db.path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	db.db = conn

	if err := db.migrate(); err != nil {
		conn.Close()
		return err
	}

	return nil
}

// migrate creates the schema on a fresh database and records its version.
func (db *DB) migrate() error {
	var version int
	if err := db.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > schemaVersion {
		return navigator.Errorf(navigator.EINVALID, "database schema version %d is newer than supported version %d", version, schemaVersion)
	}
	if err := db.createSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			embedding_model TEXT NOT NULL,
			device TEXT NOT NULL,
			normalize INTEGER NOT NULL DEFAULT 1,
			llm_model TEXT NOT NULL,
			max_new_tokens INTEGER NOT NULL,
			top_k INTEGER NOT NULL,
			top_p REAL NOT NULL,
			typical_p REAL NOT NULL,
			temperature REAL NOT NULL,
			repetition_penalty REAL NOT NULL,
			prompt_template TEXT NOT NULL,
			index_path TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS url_records (
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			url TEXT NOT NULL,
			type TEXT NOT NULL,
			page_name TEXT NOT NULL DEFAULT '',
			scanned_at TEXT NOT NULL,
			ignored INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, position)
		);

		CREATE TABLE IF NOT EXISTS documents (
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			source_url TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			metadata TEXT NOT NULL DEFAULT '{}',
			PRIMARY KEY (session_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_url_records_url ON url_records(url);
		CREATE INDEX IF NOT EXISTS idx_documents_source_url ON documents(source_url);
	`

	_, err := db.db.Exec(schema)
	return err
}
