package database

import "fmt"

// pgQuoteCol wraps a column name in double quotes if it is an SQL keyword
// that PostgreSQL may refuse as a bare identifier.
func pgQuoteCol(name string) string {
	switch name {
	case "value", "number":
		return `"` + name + `"`
	default:
		return name
	}
}

// PostgresDialect implements the Dialect interface for PostgreSQL databases.
// It also satisfies query.QueryDialect through structural typing.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string             { return "pgx" }
func (d *PostgresDialect) DSN(pathOrConnStr string) string { return pathOrConnStr }
func (d *PostgresDialect) Placeholder(index int) string    { return fmt.Sprintf("$%d", index) }
func (d *PostgresDialect) IDColumn() string                { return "id" }
func (d *PostgresDialect) QuoteColumn(name string) string  { return pgQuoteCol(name) }

func (d *PostgresDialect) CreateRunsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS tia_runs (
		id TEXT PRIMARY KEY, started_at TEXT, exports_path TEXT,
		dblist_path TEXT, documents INT, records INT, findings INT
	)`
}

func (d *PostgresDialect) CreateAlarmsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS tia_alarms (
		id SERIAL PRIMARY KEY,
		run_id TEXT, seq INT, db TEXT, structure TEXT, subgroup TEXT,
		"number" INT, name TEXT, tag TEXT, "value" INT, message TEXT,
		priority INT, custom_key INT
	)`
}

func (d *PostgresDialect) CreateFindingsTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS tia_missing_comments (
		id SERIAL PRIMARY KEY,
		run_id TEXT, seq INT, db TEXT, structure TEXT, subgroup TEXT,
		element_name TEXT, mismatch TEXT, wrong_prefix TEXT
	)`
}

func (d *PostgresDialect) CreateIndexSQL(indexName, tableName, column string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (%s)", indexName, tableName, pgQuoteCol(column))
}
