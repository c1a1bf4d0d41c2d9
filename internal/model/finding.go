package model

// Mismatch kinds reported for a comment slot.
const (
	MismatchNone     = ""
	MismatchMissing  = "missing comment"
	MismatchDetected = "mismatch detected"
)

// FindingFields is the ordered list of stored columns for validation findings.
var FindingFields = []string{
	"run_id", "seq", "db", "structure", "subgroup",
	"element_name", "mismatch", "wrong_prefix",
}

// MissingCommentElement is a validation finding for one comment slot whose
// comment is empty or does not start with the expected prefix.
type MissingCommentElement struct {
	DBName      string `json:"db" yaml:"db" db:"db"`
	Structure   string `json:"structure" yaml:"structure" db:"structure"`
	SubGroup    string `json:"subgroup" yaml:"subgroup" db:"subgroup"`
	ElementName string `json:"element" yaml:"element" db:"element_name"`
	Mismatch    string `json:"mismatch" yaml:"mismatch" db:"mismatch"`
	WrongPrefix string `json:"wrong_prefix,omitempty" yaml:"wrong_prefix,omitempty" db:"wrong_prefix"`
}
