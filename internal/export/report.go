package export

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cdtdelta/tiaalarms/internal/model"
)

// Report summarizes the validation outcome of one run.
type Report struct {
	RunID       string                         `yaml:"run_id"`
	GeneratedAt time.Time                      `yaml:"generated_at"`
	Documents   int                            `yaml:"documents"`
	Records     int                            `yaml:"records"`
	Totals      map[string]int                 `yaml:"totals"`
	Findings    []*model.MissingCommentElement `yaml:"findings"`
}

// NewReport builds a report and counts findings per mismatch kind.
func NewReport(runID string, documents, records int, findings []*model.MissingCommentElement) *Report {
	r := &Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Documents:   documents,
		Records:     records,
		Totals: map[string]int{
			model.MismatchMissing:  0,
			model.MismatchDetected: 0,
		},
		Findings: findings,
	}
	for _, f := range findings {
		r.Totals[f.Mismatch]++
	}
	return r
}

// WriteReport writes report as YAML to path.
func WriteReport(path string, report *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return f.Close()
}
