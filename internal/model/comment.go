package model

import (
	"fmt"
	"strings"
)

// SignStructure is the structure holding signals rather than alarms.
// Records under it are exported with priority 1.
const SignStructure = "Sign"

// RecordFields is the ordered list of stored columns that make up a CommentRecord.
// Query results are scanned in this order after the row id.
var RecordFields = []string{
	"db", "structure", "subgroup", "number",
	"name", "tag", "value", "message", "priority", "custom_key",
}

// AlarmFields is every filterable column of the alarm table.
// Used for query building and field validation.
var AlarmFields = append([]string{"run_id", "seq"}, RecordFields...)

// CommentRecord represents one numbered comment slot inside a data block structure.
// Records are built with NewCommentRecord and not modified afterwards.
type CommentRecord struct {
	ID        int64  `json:"id,omitempty" db:"rowid"`
	DB        string `json:"db" db:"db"`
	Structure string `json:"structure" db:"structure"`
	SubGroup  string `json:"subgroup" db:"subgroup"`
	Number    int    `json:"number" db:"number"`
	Name      string `json:"name" db:"name"`
	Tag       string `json:"tag" db:"tag"`
	Value     int    `json:"value" db:"value"`
	Message   string `json:"message" db:"message"`
	Priority  int    `json:"priority" db:"priority"`
	CustomKey int    `json:"custom_key" db:"custom_key"`
}

// NewCommentRecord builds a record for one slot and derives its display fields.
// value is the structure-local running counter at the time the slot was visited.
func NewCommentRecord(db, structure, subGroup string, number, value int, comment string, customKey int) *CommentRecord {
	_, message, _ := SplitComment(comment)

	priority := 0
	if strings.EqualFold(structure, SignStructure) {
		priority = 1
	}

	return &CommentRecord{
		DB:        db,
		Structure: structure,
		SubGroup:  subGroup,
		Number:    number,
		Name:      fmt.Sprintf("%s.%s.%s.%d", db, structure, subGroup, number),
		Tag:       fmt.Sprintf("HMI_%s.%s", db, structure),
		Value:     value,
		Message:   message,
		Priority:  priority,
		CustomKey: customKey,
	}
}

// SplitComment splits a raw comment on its first '>' delimiter.
// prefix is the trimmed text before the delimiter, or the whole trimmed text
// when there is none. message is the trimmed text after it, empty without one.
func SplitComment(comment string) (prefix, message string, found bool) {
	before, after, found := strings.Cut(comment, ">")
	if !found {
		return strings.TrimSpace(comment), "", false
	}
	return strings.TrimSpace(before), strings.TrimSpace(after), true
}
