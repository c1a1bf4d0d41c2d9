package database

// Table names of the run store.
const (
	RunsTable     = "tia_runs"
	AlarmsTable   = "tia_alarms"
	FindingsTable = "tia_missing_comments"
)

// Dialect abstracts all database-specific SQL generation.
// Each database backend (SQLite, PostgreSQL) implements this interface.
// Placeholder, IDColumn and QuoteColumn match the query.QueryDialect
// interface through Go structural typing, so a Dialect can also serve as a QueryDialect.
type Dialect interface {
	// DriverName returns the database/sql driver name.
	DriverName() string

	// DSN returns the data source name for opening a connection.
	// For SQLite this is the file path; for PostgreSQL a connection string.
	DSN(pathOrConnStr string) string

	// Placeholder returns the parameter placeholder for the given 1-based index.
	// SQLite: "?" (ignoring index), PostgreSQL: "$1", "$2", etc.
	Placeholder(index int) string

	// IDColumn returns the row identifier column name.
	// SQLite: "rowid" (implicit), PostgreSQL: "id" (explicit serial).
	IDColumn() string

	// QuoteColumn returns the column name quoted appropriately for the dialect.
	QuoteColumn(name string) string

	// CreateRunsTableSQL returns the DDL for the run table.
	CreateRunsTableSQL() string

	// CreateAlarmsTableSQL returns the DDL for the alarm record table.
	CreateAlarmsTableSQL() string

	// CreateFindingsTableSQL returns the DDL for the validation finding table.
	CreateFindingsTableSQL() string

	// CreateIndexSQL returns DDL to create an index on a table column.
	CreateIndexSQL(indexName, tableName, column string) string
}

// placeholders renders n comma-separated placeholders starting at index 1.
func placeholders(d Dialect, n int) string {
	s := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			s += ", "
		}
		s += d.Placeholder(i)
	}
	return s
}
