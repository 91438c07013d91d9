package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteCreateTable = `
CREATE TABLE IF NOT EXISTS filterx_values (
	handle   INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT UNIQUE NOT NULL,
	raw      BLOB,
	log_type TEXT NOT NULL DEFAULT ''
)`

// OpenSQLite opens (and, on first use, creates) a SQLite-backed
// fxhost.MessageStore at path, adapted from the teacher's
// internal/svc/sqlite connection service.
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("filterx: open sqlite message store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("filterx: ping sqlite message store: %w", err)
	}
	return newSQLStore(db, sqliteCreateTable, questionPlaceholder, false)
}
