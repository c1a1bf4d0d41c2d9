package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps consolidation runs in a SQLite file.
// It implements the Store interface.
type SQLiteStore struct {
	sqlStore
	path string
}

// OpenSQLite opens an existing run store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	d := &SQLiteDialect{}

	conn, err := sql.Open(d.DriverName(), d.DSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Verify the connection works
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &SQLiteStore{sqlStore: newSQLStore(conn, d, nil), path: path}, nil
}

// CreateSQLite opens or creates a SQLite run store with the full schema.
func CreateSQLite(path string) (*SQLiteStore, error) {
	d := &SQLiteDialect{}

	conn, err := sql.Open(d.DriverName(), d.DSN(path))
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	db := &SQLiteStore{sqlStore: newSQLStore(conn, d, nil), path: path}

	if err := db.createSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return db, nil
}

// Path returns the file path of the database.
func (db *SQLiteStore) Path() string {
	return db.path
}
