package store

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

const mysqlCreateTable = `
CREATE TABLE IF NOT EXISTS filterx_values (
	handle   INT AUTO_INCREMENT PRIMARY KEY,
	name     VARCHAR(255) UNIQUE NOT NULL,
	raw      BLOB,
	log_type VARCHAR(32) NOT NULL DEFAULT ''
)`

// OpenMySQL opens (and, on first use, creates) a MySQL-backed
// fxhost.MessageStore against dsn, adapted from the teacher's
// internal/svc/mysql connection service.
func OpenMySQL(dsn string) (*SQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("filterx: open mysql message store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("filterx: ping mysql message store: %w", err)
	}
	return newSQLStore(db, mysqlCreateTable, questionPlaceholder, false)
}
