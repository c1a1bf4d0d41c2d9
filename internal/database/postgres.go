package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// pgSanitizeString strips null bytes (0x00) from a string. SQLite stores these
// fine but PostgreSQL rejects them with "invalid byte sequence for encoding UTF8".
func pgSanitizeString(s string) string {
	if strings.ContainsRune(s, '\x00') {
		return strings.ReplaceAll(s, "\x00", "")
	}
	return s
}

// PostgresStore keeps consolidation runs in a PostgreSQL database.
// It implements the Store interface.
type PostgresStore struct {
	sqlStore
	connStr string
}

// OpenPostgres opens an existing PostgreSQL run store.
func OpenPostgres(connStr string) (*PostgresStore, error) {
	d := &PostgresDialect{}

	conn, err := sql.Open(d.DriverName(), d.DSN(connStr))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &PostgresStore{sqlStore: newSQLStore(conn, d, pgSanitizeString), connStr: connStr}, nil
}

// CreatePostgres creates the run store tables on a PostgreSQL database.
// The database itself must already exist.
func CreatePostgres(connStr string) (*PostgresStore, error) {
	d := &PostgresDialect{}

	conn, err := sql.Open(d.DriverName(), d.DSN(connStr))
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	db := &PostgresStore{sqlStore: newSQLStore(conn, d, pgSanitizeString), connStr: connStr}

	if err := db.createSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return db, nil
}

// Path returns the connection string used to connect to the database.
func (db *PostgresStore) Path() string {
	return db.connStr
}
