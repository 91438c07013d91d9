package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const pqCreateTable = `
CREATE TABLE IF NOT EXISTS filterx_values (
	handle   SERIAL PRIMARY KEY,
	name     TEXT UNIQUE NOT NULL,
	raw      BYTEA,
	log_type TEXT NOT NULL DEFAULT ''
)`

// OpenPostgres opens (and, on first use, creates) a Postgres-backed
// fxhost.MessageStore against dsn, adapted from the teacher's
// internal/foreign io.db.connect "postgres" driver path
// (internal/foreign/slug_io_db.go). lib/pq's sql.Result doesn't
// implement LastInsertId, so the shared SQLStore uses "RETURNING
// handle" instead of driver-level auto-increment readback for this
// backend.
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("filterx: open postgres message store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("filterx: ping postgres message store: %w", err)
	}
	return newSQLStore(db, pqCreateTable, dollarPlaceholder, true)
}
