// Package accentdb stores formatted pitch-accent dictionary entries in
// SQLite and serves word lookups.
package accentdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB holding the pitch accent table.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens the accent database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// OpenMemory creates an in-memory accent database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// schemaVersion is stored in PRAGMA user_version. Bump it when the table
// layout changes; an older binary refuses to open a newer database instead
// of misreading it.
const schemaVersion = 1

func (d *DB) migrate() error {
	current, err := d.SchemaVersion()
	if err != nil {
		return err
	}
	if current > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, schemaVersion)
	}
	if _, err := d.Exec(schema); err != nil {
		return err
	}
	if current < schemaVersion {
		if _, err := d.Exec(fmt.Sprintf("PRAGMA user_version = %d;", schemaVersion)); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
	}
	return nil
}

// SchemaVersion reads the stored schema version. A fresh database reads 0.
func (d *DB) SchemaVersion() (int, error) {
	var v int
	if err := d.QueryRow("PRAGMA user_version;").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS pitch_accents_formatted(
    headword TEXT NOT NULL,
    katakana_reading TEXT NOT NULL,
    html_notation TEXT NOT NULL,
    pitch_number TEXT NOT NULL,
    frequency INTEGER NOT NULL,
    source TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS index_pitch_accents_headword
ON pitch_accents_formatted(headword);

CREATE INDEX IF NOT EXISTS index_pitch_accents_reading
ON pitch_accents_formatted(katakana_reading);

CREATE INDEX IF NOT EXISTS index_pitch_accents_source
ON pitch_accents_formatted(source);
`
