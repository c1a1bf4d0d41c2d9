package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoRuns is returned by LatestRun when the store holds no runs yet.
var ErrNoRuns = errors.New("no runs stored")

// timeLayout keeps stored timestamps sortable as text.
const timeLayout = "2006-01-02 15:04:05.000000"

// Run describes one consolidation run and the totals it produced.
type Run struct {
	ID          string    `json:"id" yaml:"id"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	ExportsPath string    `json:"exports_path" yaml:"exports_path"`
	DBListPath  string    `json:"dblist_path" yaml:"dblist_path"`
	Documents   int       `json:"documents" yaml:"documents"`
	Records     int       `json:"records" yaml:"records"`
	Findings    int       `json:"findings" yaml:"findings"`
}

// NewRun creates a run with a fresh id, started now.
func NewRun(exportsPath, dbListPath string) *Run {
	return &Run{
		ID:          uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		ExportsPath: exportsPath,
		DBListPath:  dbListPath,
	}
}
