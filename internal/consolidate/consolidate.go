// Package consolidate merges the alarm comments of every data block in the
// DB list, across all staging locations, into one ordered result.
package consolidate

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cdtdelta/tiaalarms/internal/extractor"
	"github.com/cdtdelta/tiaalarms/internal/model"
)

// DuplicatePolicy decides what happens when several staging locations hold a
// document for the same DB list entry.
type DuplicatePolicy string

const (
	// DuplicatesKeep lets every matching copy contribute its records.
	DuplicatesKeep DuplicatePolicy = "keep"
	// DuplicatesFirst keeps only the first location that yields a matching document.
	DuplicatesFirst DuplicatePolicy = "first"
)

// ParseDuplicatePolicy converts a configuration value into a policy.
// An empty value selects DuplicatesKeep.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicatesKeep:
		return DuplicatesKeep, nil
	case DuplicatesFirst:
		return DuplicatesFirst, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy: %s", s)
	}
}

// Result is the consolidated output of a run.
type Result struct {
	extractor.Result
	// Documents counts the documents read, one per matching file per entry.
	Documents int
}

// Engine runs extraction over a DB list and a set of staging locations.
type Engine struct {
	extractor *extractor.Extractor
	logger    *zap.Logger
	policy    DuplicatePolicy
}

// NewEngine creates an Engine. A nil extractor gets default settings and a
// nil logger disables logging.
func NewEngine(ex *extractor.Extractor, logger *zap.Logger, policy DuplicatePolicy) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ex == nil {
		ex = extractor.New(logger)
	}
	if policy == "" {
		policy = DuplicatesKeep
	}
	return &Engine{extractor: ex, logger: logger, policy: policy}
}

// Run visits entries in list order and, for each, locations in discovery
// order. Failures on a location or document are logged and skipped.
func (e *Engine) Run(entries []model.DBListEntry, locations []model.ProjectInfo) *Result {
	result := &Result{}

	for _, entry := range entries {
		contributed := false

		for _, loc := range locations {
			if !loc.IsValid {
				e.logger.Warn("Skipping invalid staging location",
					zap.String("path", loc.Path), zap.String("reason", loc.ValidationMessage))
				continue
			}
			if contributed && e.policy == DuplicatesFirst {
				e.logger.Debug("Skipping duplicate location",
					zap.String("db", entry.Name), zap.String("path", loc.Path))
				continue
			}

			e.logger.Info("Processing DB", zap.String("db", entry.Name), zap.String("directory", loc.Path))

			extracted, docs := e.extractLocation(loc, entry)
			result.Documents += docs
			if docs > 0 {
				contributed = true
			}

			if len(extracted.Records) > 0 {
				e.logger.Info("Extracted comments for DB",
					zap.String("db", entry.Name), zap.Int("count", len(extracted.Records)))
			} else {
				e.logger.Info("No comments found for DB", zap.String("db", entry.Name), zap.String("directory", loc.Path))
			}
			result.Append(extracted)
		}
	}

	return result
}

// extractLocation extracts every document in loc whose base name matches the
// entry, case-insensitively. It returns the documents actually read.
func (e *Engine) extractLocation(loc model.ProjectInfo, entry model.DBListEntry) (*extractor.Result, int) {
	result := &extractor.Result{}

	paths, err := Documents(loc.Path)
	if err != nil {
		e.logger.Error("Cannot list staging location", zap.String("path", loc.Path), zap.Error(err))
		return result, 0
	}

	docs := 0
	for _, path := range paths {
		dbName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if !strings.EqualFold(dbName, entry.Name) {
			continue
		}

		e.logger.Debug("Processing document",
			zap.String("db", dbName), zap.Int("baseKey", entry.BaseKey), zap.String("path", path))

		extracted, err := e.extractor.ExtractFile(path, dbName, entry.BaseKey)
		if err != nil {
			e.logger.Error("Error processing document", zap.String("path", path), zap.Error(err))
			continue
		}
		docs++
		result.Append(extracted)
	}

	return result, docs
}
