// Package dblist reads the governing list of data blocks: one "name,baseKey"
// pair per line, in the order their alarms are exported.
package dblist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cdtdelta/tiaalarms/internal/model"
)

// Reasons a line is rejected.
const (
	ReasonEmpty      = "empty line"
	ReasonFieldCount = "expected 2 comma-separated fields"
	ReasonBadKey     = "base key is not an integer"
)

// RejectedLine is a line of the list that did not produce an entry.
type RejectedLine struct {
	Line   int    `json:"line" yaml:"line"`
	Text   string `json:"text" yaml:"text"`
	Reason string `json:"reason" yaml:"reason"`
}

// ReadResult contains the outcome of reading a DB list.
type ReadResult struct {
	Entries  []model.DBListEntry
	Rejected []RejectedLine
	Count    int
}

// ReadFile reads a DB list from path.
func ReadFile(path string) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a DB list from r. Malformed lines are collected in Rejected
// and never stop parsing. Input may be UTF-8 or UTF-16 with a byte order mark.
func Parse(r io.Reader) (*ReadResult, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)

	result := &ReadResult{}
	lineNum := 0

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++

		entry, reason := ParseLine(line)
		if reason != "" {
			result.Rejected = append(result.Rejected, RejectedLine{Line: lineNum, Text: line, Reason: reason})
			continue
		}

		result.Entries = append(result.Entries, entry)
		result.Count++
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return result, nil
}

// ParseLine parses a single "name,baseKey" line. It returns a non-empty
// reason when the line is rejected.
func ParseLine(line string) (model.DBListEntry, string) {
	if strings.TrimSpace(line) == "" {
		return model.DBListEntry{}, ReasonEmpty
	}

	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return model.DBListEntry{}, ReasonFieldCount
	}

	key, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return model.DBListEntry{}, ReasonBadKey
	}

	return model.DBListEntry{Name: strings.TrimSpace(parts[0]), BaseKey: key}, ""
}
