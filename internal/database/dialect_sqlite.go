package database

import "fmt"

// SQLiteDialect implements the Dialect interface for SQLite databases.
// It also satisfies query.QueryDialect through structural typing.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string             { return "sqlite" }
func (d *SQLiteDialect) DSN(pathOrConnStr string) string { return pathOrConnStr }
func (d *SQLiteDialect) Placeholder(index int) string    { return "?" }
func (d *SQLiteDialect) IDColumn() string                { return "rowid" }
func (d *SQLiteDialect) QuoteColumn(name string) string  { return name }

func (d *SQLiteDialect) CreateRunsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS tia_runs (
		id TEXT PRIMARY KEY, started_at TEXT, exports_path TEXT,
		dblist_path TEXT, documents INT, records INT, findings INT
	)`
}

func (d *SQLiteDialect) CreateAlarmsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS tia_alarms (
		run_id TEXT, seq INT, db TEXT, structure TEXT, subgroup TEXT,
		number INT, name TEXT, tag TEXT, value INT, message TEXT,
		priority INT, custom_key INT
	)`
}

func (d *SQLiteDialect) CreateFindingsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS tia_missing_comments (
		run_id TEXT, seq INT, db TEXT, structure TEXT, subgroup TEXT,
		element_name TEXT, mismatch TEXT, wrong_prefix TEXT
	)`
}

func (d *SQLiteDialect) CreateIndexSQL(indexName, tableName, column string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (%s)", indexName, tableName, column)
}
