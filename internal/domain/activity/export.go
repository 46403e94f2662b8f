package activity

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// csvHeader is the first row of an audit export.
var csvHeader = []string{"Date", "Action", "User", "Metadata"}

// WriteCSV writes entries as CSV with every cell quoted and metadata JSON-encoded.
func WriteCSV(w io.Writer, entries []AuditLogEntry) error {
	if err := writeCSVRow(w, csvHeader, false); err != nil {
		return err
	}
	for _, entry := range entries {
		metadata := entry.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		encoded, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata for entry %d: %w", entry.ID, err)
		}
		row := []string{
			entry.CreatedAt.UTC().Format(time.RFC3339),
			string(entry.Action),
			entry.UserID,
			string(encoded),
		}
		if err := writeCSVRow(w, row, true); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVRow quotes every cell; encoding/csv only quotes when needed.
func writeCSVRow(w io.Writer, cells []string, quote bool) error {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if quote {
			parts[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
		} else {
			parts[i] = cell
		}
	}
	if _, err := io.WriteString(w, strings.Join(parts, ",")+"\n"); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}
	return nil
}
