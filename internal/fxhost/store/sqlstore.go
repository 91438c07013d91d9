// Package store provides database/sql-backed fxhost.MessageStore
// implementations, adapted from the teacher's internal/svc/sqlite and
// internal/svc/mysql connection services: the same two drivers
// (mattn/go-sqlite3, go-sql-driver/mysql) back a log message store
// instead of a general-purpose SQL connection actor, since FilterX's
// MessageStore contract (RegisterName/GetValue/SetValue) is a narrow
// key/value/typed-value interface, not a query surface.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	"filterx/internal/fxlog"
)

// SQLStore is the shared implementation behind OpenSQLite, OpenMySQL,
// and OpenPostgres: all three drivers speak database/sql, so only the
// CREATE TABLE statement and the placeholder syntax (lib/pq wants
// "$1", "$2"; the other two accept "?") are driver-specific.
type SQLStore struct {
	db    *sql.DB
	mu    sync.Mutex
	names map[string]uint32
	ph    func(n int) string
	// returning is set for drivers (lib/pq) whose sql.Result doesn't
	// implement LastInsertId; RegisterName uses "INSERT ... RETURNING
	// handle" via QueryRow instead of Exec when set.
	returning bool
}

// questionPlaceholder is the "?" placeholder style shared by
// go-sql-driver/mysql and mattn/go-sqlite3.
func questionPlaceholder(int) string { return "?" }

// dollarPlaceholder is lib/pq's positional "$1", "$2", ... style.
func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func newSQLStore(db *sql.DB, createTableSQL string, ph func(n int) string, returning bool) (*SQLStore, error) {
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("filterx: create message store table: %w", err)
	}
	if ph == nil {
		ph = questionPlaceholder
	}
	return &SQLStore{db: db, names: make(map[string]uint32), ph: ph, returning: returning}, nil
}

// RegisterName interns name into the store's table, returning the
// handle FilterX variable references use. Handle 0 is never issued
// (AUTOINCREMENT/AUTO_INCREMENT starts at 1), and the top bit is
// reserved by FilterX itself to mark floating variables — a table
// that somehow grows past 2^31 rows fails loudly rather than handing
// out a colliding handle.
func (s *SQLStore) RegisterName(name string) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.names[name]; ok {
		return h
	}

	var handle int64
	row := s.db.QueryRow(fmt.Sprintf(`SELECT handle FROM filterx_values WHERE name = %s`, s.ph(1)), name)
	if err := row.Scan(&handle); err == nil {
		h := uint32(handle)
		s.names[name] = h
		return h
	}

	var id int64
	if s.returning {
		insert := fmt.Sprintf(`INSERT INTO filterx_values (name, raw, log_type) VALUES (%s, NULL, '') RETURNING handle`, s.ph(1))
		if err := s.db.QueryRow(insert, name).Scan(&id); err != nil {
			fxlog.Error("filterx: register message field %q: %v", name, err)
			return 0
		}
	} else {
		insert := fmt.Sprintf(`INSERT INTO filterx_values (name, raw, log_type) VALUES (%s, NULL, '')`, s.ph(1))
		res, err := s.db.Exec(insert, name)
		if err != nil {
			fxlog.Error("filterx: register message field %q: %v", name, err)
			return 0
		}
		id, err = res.LastInsertId()
		if err != nil {
			fxlog.Error("filterx: register message field %q: %v", name, err)
			return 0
		}
	}
	h := uint32(id)
	if h&0x80000000 != 0 {
		fxlog.Error("filterx: message field handle space exhausted registering %q", name)
		return 0
	}
	s.names[name] = h
	return h
}

func (s *SQLStore) GetValue(handle uint32) (raw []byte, logType string, ok bool) {
	query := fmt.Sprintf(`SELECT raw, log_type FROM filterx_values WHERE handle = %s`, s.ph(1))
	row := s.db.QueryRow(query, handle)
	if err := row.Scan(&raw, &logType); err != nil {
		if err != sql.ErrNoRows {
			fxlog.Error("filterx: get message field %d: %v", handle, err)
		}
		return nil, "", false
	}
	if logType == "" {
		return nil, "", false
	}
	return raw, logType, true
}

func (s *SQLStore) SetValue(handle uint32, raw []byte, logType string) {
	query := fmt.Sprintf(`UPDATE filterx_values SET raw = %s, log_type = %s WHERE handle = %s`, s.ph(1), s.ph(2), s.ph(3))
	if _, err := s.db.Exec(query, raw, logType, handle); err != nil {
		fxlog.Error("filterx: set message field %d: %v", handle, err)
	}
}

// Close releases the underlying database/sql handle.
func (s *SQLStore) Close() error { return s.db.Close() }
