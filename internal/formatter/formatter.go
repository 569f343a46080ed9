// package formatter provides functions to export migrated contact data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/tagshift/internal/models"
	"github.com/desertthunder/tagshift/internal/shared"
)

// ContactRecord pairs a consolidated contact with its assigned tags for export.
type ContactRecord struct {
	Contact *models.Contact
	Tags    []*models.Tag
}

// tagList renders a record's tag names as a comma-separated string.
func tagList(record ContactRecord) string {
	names := make([]string, len(record.Tags))
	for i, tag := range record.Tags {
		names[i] = tag.Name()
	}
	return strings.Join(names, ", ")
}

// ExportToCSV converts contact records to CSV format with columns: Email, Name, Status, Tags, Subscribed At, Unsubscribed At
func ExportToCSV(records []ContactRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Email", "Name", "Status", "Tags", "Subscribed At", "Unsubscribed At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		c := record.Contact
		row := []string{
			c.Email(),
			c.Name(),
			string(c.Status()),
			tagList(record),
			shared.FormatTime(c.SubscribedAt()),
			shared.FormatTime(c.UnsubscribedAt()),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts contact records to a Markdown table with a title header
func ExportToMarkdown(records []ContactRecord, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Contacts"
	}

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Contacts**: %d\n\n", len(records)))

	buf.WriteString("| Email | Name | Status | Tags |\n")
	buf.WriteString("| --- | --- | --- | --- |\n")
	for _, record := range records {
		c := record.Contact
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.Email(), c.Name(), c.Status(), tagList(record)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts contact records to plain text format
func ExportToText(records []ContactRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Contacts: %d\n\n", len(records)))

	for i, record := range records {
		c := record.Contact
		buf.WriteString(fmt.Sprintf("%d. %s (%s) [%s]", i+1, c.Email(), c.Name(), c.Status()))
		if tags := tagList(record); tags != "" {
			buf.WriteString(" - " + tags)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// WriteExport renders records in the requested format and writes them to path.
// Format must be one of "csv", "markdown", or "text".
func WriteExport(records []ContactRecord, path, format string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = ExportToCSV(records)
	case "markdown", "md":
		data, err = ExportToMarkdown(records, "")
	case "text", "txt":
		data, err = ExportToText(records)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to render export: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}
