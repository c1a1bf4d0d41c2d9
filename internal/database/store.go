package database

import "github.com/cdtdelta/tiaalarms/internal/model"

// Store defines the interface for all run store operations.
// The CLI depends on the interface, not on a concrete database type.
type Store interface {
	// Runs
	SaveRun(run *Run) error
	ListRuns() ([]*Run, error)
	LatestRun() (*Run, error)

	// Alarm records, stored in consolidated order.
	InsertRecords(runID string, records []*model.CommentRecord) (int, error)
	QueryRecords(where string, args []interface{}, orderBy string, limit, offset int) ([]*model.CommentRecord, error)
	CountRecords(where string, args []interface{}) (int64, error)

	// Validation findings
	InsertFindings(runID string, findings []*model.MissingCommentElement) (int, error)
	QueryFindings(runID string) ([]*model.MissingCommentElement, error)

	// Query execution for pre-built SQL (from query.Build).
	// The scan order is the row id followed by model.RecordFields.
	ExecuteQuery(sql string, args []interface{}) ([]*model.CommentRecord, error)
	ExecuteCountQuery(sql string, args []interface{}) (int64, error)

	// Dialect returns the SQL dialect of the store.
	Dialect() Dialect

	// Lifecycle
	Close() error
	Path() string
}
