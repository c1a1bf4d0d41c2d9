// Package export writes consolidated alarms and validation findings to the
// files handed to the HMI import and to the people fixing comments.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cdtdelta/tiaalarms/internal/model"
)

// findingsHeader is the header of the missing comment table.
var findingsHeader = []string{"DB", "Structure", "SubGroup", "Element", "Mismatch", "WrongPrefix"}

// WriteAlarms writes records to a CSV file at path in alarm table format.
func WriteAlarms(path string, records []*model.CommentRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := WriteAlarmsTo(f, records); err != nil {
		return err
	}
	return f.Close()
}

// WriteAlarmsTo writes the alarm table header followed by one row per record.
func WriteAlarmsTo(w io.Writer, records []*model.CommentRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(model.AlarmColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range records {
		if err := writer.Write(alarmRow(r, model.AlarmDefaults)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// alarmRow renders one record in AlarmColumns order.
func alarmRow(r *model.CommentRecord, p model.Presentation) []string {
	return []string{
		r.Name,
		p.Folder,
		r.Tag,
		p.ActivationType,
		strconv.Itoa(r.Value),
		p.AlarmType,
		r.Message,
		strconv.Itoa(r.Priority),
		p.PageType,
		p.Page,
		formatBool(p.IsLogged),
		formatBool(p.IsPrinted),
		formatBool(p.HasAcknowledgeTag),
		p.AcknowledgeType,
		p.AcknowledgeTag,
		strconv.Itoa(p.AcknowledgeValue),
		p.RangeMin,
		p.RangeMax,
		formatBool(p.SingleInstance),
		formatBool(p.NegativeLogic),
		strconv.Itoa(r.CustomKey),
		formatBool(p.TagOPC),
		p.OPCFolder,
		p.Identifier,
		strconv.Itoa(p.NodeID),
		p.NumPath,
	}
}

// formatBool matches the spelling the HMI import expects.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// WriteFindings writes validation findings to a CSV file at path.
func WriteFindings(path string, findings []*model.MissingCommentElement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	if err := writer.Write(findingsHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, m := range findings {
		row := []string{m.DBName, m.Structure, m.SubGroup, m.ElementName, m.Mismatch, m.WrongPrefix}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing findings: %w", err)
	}
	return f.Close()
}
