package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cdtdelta/tiaalarms/internal/model"
)

// DefaultIndexFields are the alarm columns indexed when a store is created.
var DefaultIndexFields = []string{"run_id", "db", "custom_key"}

// sqlStore holds the operations shared by every backend. Backends differ only
// in their Dialect and in how strings are cleaned before insertion.
type sqlStore struct {
	conn     *sql.DB
	dialect  Dialect
	sanitize func(string) string
}

func newSQLStore(conn *sql.DB, d Dialect, sanitize func(string) string) sqlStore {
	if sanitize == nil {
		sanitize = func(s string) string { return s }
	}
	return sqlStore{conn: conn, dialect: d, sanitize: sanitize}
}

// Dialect returns the SQL dialect of the store.
func (db *sqlStore) Dialect() Dialect {
	return db.dialect
}

// Conn returns the underlying *sql.DB connection for advanced query usage.
func (db *sqlStore) Conn() *sql.DB {
	return db.conn
}

// Close closes the database connection.
func (db *sqlStore) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// createSchema builds all tables and indexes that do not exist yet.
func (db *sqlStore) createSchema() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(db.dialect.CreateRunsTableSQL()); err != nil {
		return fmt.Errorf("creating %s table: %w", RunsTable, err)
	}
	if _, err := tx.Exec(db.dialect.CreateAlarmsTableSQL()); err != nil {
		return fmt.Errorf("creating %s table: %w", AlarmsTable, err)
	}
	if _, err := tx.Exec(db.dialect.CreateFindingsTableSQL()); err != nil {
		return fmt.Errorf("creating %s table: %w", FindingsTable, err)
	}

	for _, field := range DefaultIndexFields {
		_, err = tx.Exec(db.dialect.CreateIndexSQL(AlarmsTable+"_"+field+"_idx", AlarmsTable, field))
		if err != nil {
			return fmt.Errorf("creating index on %s: %w", field, err)
		}
	}
	_, err = tx.Exec(db.dialect.CreateIndexSQL(FindingsTable+"_run_id_idx", FindingsTable, "run_id"))
	if err != nil {
		return fmt.Errorf("creating index on run_id: %w", err)
	}

	return tx.Commit()
}

// columnList joins columns quoted for the dialect.
func (db *sqlStore) columnList(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = db.dialect.QuoteColumn(c)
	}
	return strings.Join(quoted, ", ")
}

// SaveRun inserts run, or updates its totals when it is already stored.
func (db *sqlStore) SaveRun(run *Run) error {
	d := db.dialect
	res, err := db.conn.Exec(
		"UPDATE "+RunsTable+" SET started_at = "+d.Placeholder(1)+
			", exports_path = "+d.Placeholder(2)+", dblist_path = "+d.Placeholder(3)+
			", documents = "+d.Placeholder(4)+", records = "+d.Placeholder(5)+
			", findings = "+d.Placeholder(6)+" WHERE id = "+d.Placeholder(7),
		run.StartedAt.UTC().Format(timeLayout), db.sanitize(run.ExportsPath), db.sanitize(run.DBListPath),
		run.Documents, run.Records, run.Findings, run.ID,
	)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = db.conn.Exec(
		"INSERT INTO "+RunsTable+" (id, started_at, exports_path, dblist_path, documents, records, findings) VALUES ("+
			placeholders(d, 7)+")",
		run.ID, run.StartedAt.UTC().Format(timeLayout), db.sanitize(run.ExportsPath), db.sanitize(run.DBListPath),
		run.Documents, run.Records, run.Findings,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// ListRuns returns every stored run, newest first.
func (db *sqlStore) ListRuns() ([]*Run, error) {
	rows, err := db.conn.Query(
		"SELECT id, started_at, exports_path, dblist_path, documents, records, findings FROM " +
			RunsTable + " ORDER BY started_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.ExportsPath, &r.DBListPath, &r.Documents, &r.Records, &r.Findings); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, err = time.Parse(timeLayout, started)
		if err != nil {
			return nil, fmt.Errorf("parsing start time of run %s: %w", r.ID, err)
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recently started run, or ErrNoRuns.
func (db *sqlStore) LatestRun() (*Run, error) {
	runs, err := db.ListRuns()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	return runs[0], nil
}

// InsertRecords inserts records for a run inside a single transaction.
// The position of each record in the slice is stored as its seq.
func (db *sqlStore) InsertRecords(runID string, records []*model.CommentRecord) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	columns := append([]string{"run_id", "seq"}, model.RecordFields...)
	stmt, err := tx.Prepare("INSERT INTO " + AlarmsTable + " (" + db.columnList(columns) + ") VALUES (" +
		placeholders(db.dialect, len(columns)) + ")")
	if err != nil {
		return 0, fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i, r := range records {
		_, err := stmt.Exec(
			runID, i, db.sanitize(r.DB), db.sanitize(r.Structure), db.sanitize(r.SubGroup),
			r.Number, db.sanitize(r.Name), db.sanitize(r.Tag), r.Value, db.sanitize(r.Message),
			r.Priority, r.CustomKey,
		)
		if err != nil {
			return inserted, fmt.Errorf("inserting record %d: %w", inserted+1, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("committing transaction: %w", err)
	}
	return inserted, nil
}

// InsertFindings inserts validation findings for a run inside a single transaction.
func (db *sqlStore) InsertFindings(runID string, findings []*model.MissingCommentElement) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO " + FindingsTable + " (" + db.columnList(model.FindingFields) + ") VALUES (" +
		placeholders(db.dialect, len(model.FindingFields)) + ")")
	if err != nil {
		return 0, fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i, f := range findings {
		_, err := stmt.Exec(
			runID, i, db.sanitize(f.DBName), db.sanitize(f.Structure), db.sanitize(f.SubGroup),
			db.sanitize(f.ElementName), f.Mismatch, db.sanitize(f.WrongPrefix),
		)
		if err != nil {
			return inserted, fmt.Errorf("inserting finding %d: %w", inserted+1, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("committing transaction: %w", err)
	}
	return inserted, nil
}

// QueryFindings returns the findings of a run in the order they were reported.
func (db *sqlStore) QueryFindings(runID string) ([]*model.MissingCommentElement, error) {
	rows, err := db.conn.Query(
		"SELECT db, structure, subgroup, element_name, mismatch, wrong_prefix FROM "+FindingsTable+
			" WHERE run_id = "+db.dialect.Placeholder(1)+" ORDER BY seq", runID)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close()

	var findings []*model.MissingCommentElement
	for rows.Next() {
		var f model.MissingCommentElement
		if err := rows.Scan(&f.DBName, &f.Structure, &f.SubGroup, &f.ElementName, &f.Mismatch, &f.WrongPrefix); err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}
		findings = append(findings, &f)
	}
	return findings, rows.Err()
}

// QueryRecords runs a filtered SELECT over the alarm table.
// whereClause is a WHERE fragment without the keyword; orderBy defaults to run_id, seq.
func (db *sqlStore) QueryRecords(whereClause string, args []interface{}, orderBy string, limit, offset int) ([]*model.CommentRecord, error) {
	query := "SELECT " + db.dialect.IDColumn() + ", " + db.columnList(model.RecordFields) + " FROM " + AlarmsTable

	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	if orderBy == "" {
		orderBy = "run_id, seq"
	}
	if err := orderColumns(orderBy); err != nil {
		return nil, err
	}
	query += " ORDER BY " + orderBy

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", offset)
		}
	}

	return db.ExecuteQuery(query, args)
}

// CountRecords returns the number of alarm records, optionally filtered by a WHERE clause.
func (db *sqlStore) CountRecords(whereClause string, args []interface{}) (int64, error) {
	query := "SELECT COUNT(*) FROM " + AlarmsTable
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	return db.ExecuteCountQuery(query, args)
}

// ExecuteQuery runs a pre-built SELECT and scans the row id followed by model.RecordFields.
func (db *sqlStore) ExecuteQuery(sqlStr string, args []interface{}) ([]*model.CommentRecord, error) {
	rows, err := db.conn.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ExecuteCountQuery runs a pre-built COUNT query.
func (db *sqlStore) ExecuteCountQuery(sqlStr string, args []interface{}) (int64, error) {
	var count int64
	if err := db.conn.QueryRow(sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

func scanRecords(rows *sql.Rows) ([]*model.CommentRecord, error) {
	var records []*model.CommentRecord
	for rows.Next() {
		var r model.CommentRecord
		err := rows.Scan(
			&r.ID, &r.DB, &r.Structure, &r.SubGroup, &r.Number,
			&r.Name, &r.Tag, &r.Value, &r.Message, &r.Priority, &r.CustomKey,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// isValidField reports whether name is a filterable alarm column.
func isValidField(name string) bool {
	for _, f := range model.AlarmFields {
		if f == name {
			return true
		}
	}
	return false
}

// orderColumns validates a comma-separated order by list against the alarm columns.
func orderColumns(orderBy string) error {
	for _, part := range strings.Split(orderBy, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 || len(fields) > 2 || !isValidField(fields[0]) {
			return fmt.Errorf("invalid order by: %s", orderBy)
		}
		if len(fields) == 2 && !strings.EqualFold(fields[1], "ASC") && !strings.EqualFold(fields[1], "DESC") {
			return fmt.Errorf("invalid order by: %s", orderBy)
		}
	}
	return nil
}
