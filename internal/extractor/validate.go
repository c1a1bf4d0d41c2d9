package extractor

import (
	"fmt"

	"github.com/cdtdelta/tiaalarms/internal/model"
)

// ExpectedPrefix is the text every slot comment must start with, before its '>' delimiter.
func ExpectedPrefix(db, structure, subGroup, rawOrdinal string) string {
	return fmt.Sprintf("%s.%s.%s.%s", db, structure, subGroup, rawOrdinal)
}

// Validate classifies a slot comment. It returns nil when the comment's prefix
// equals the expected prefix exactly (case-sensitive), a "missing comment"
// finding when the comment is empty, and a "mismatch detected" finding otherwise.
func Validate(comment, db, structure, subGroup, rawOrdinal string) *model.MissingCommentElement {
	if comment == "" {
		return &model.MissingCommentElement{
			DBName:      db,
			Structure:   structure,
			SubGroup:    subGroup,
			ElementName: rawOrdinal,
			Mismatch:    model.MismatchMissing,
		}
	}

	actual, _, _ := model.SplitComment(comment)
	if actual == ExpectedPrefix(db, structure, subGroup, rawOrdinal) {
		return nil
	}

	return &model.MissingCommentElement{
		DBName:      db,
		Structure:   structure,
		SubGroup:    subGroup,
		ElementName: rawOrdinal,
		Mismatch:    model.MismatchDetected,
		WrongPrefix: actual,
	}
}
