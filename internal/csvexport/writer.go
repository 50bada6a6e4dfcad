package csvexport

import (
	"encoding/csv"
	"io"
	"regexp"
	"strconv"
	"strings"

	"lexmerge/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{"S.No", "Field Name", "Value"}

// Writer wraps csv.Writer for exporting an extraction record as CSV.
type Writer struct {
	out io.Writer
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w, csv: csv.NewWriter(w)}
}

// WriteBOM writes the UTF-8 byte order mark. Call it before anything else.
func (w *Writer) WriteBOM() error {
	_, err := w.out.Write(BOM)
	return err
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecord writes one row per field followed by the two free-text sections.
func (w *Writer) WriteRecord(record *domain.ExtractionRecord) error {
	for _, row := range record.ExportRows() {
		if err := w.csv.Write([]string{strconv.Itoa(row.SNo), row.FieldName, row.Value}); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Export writes a complete CSV document for record: BOM, header and rows.
func Export(out io.Writer, record *domain.ExtractionRecord) error {
	w := NewWriter(out)
	if err := w.WriteBOM(); err != nil {
		return err
	}
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteRecord(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// nonAlphanumeric matches characters that are not alphanumeric, dot, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a file name for use in Content-Disposition.
// Replaces disallowed chars with _, collapses consecutive underscores, and
// truncates to 100 chars. An empty result becomes "download".
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		return "download"
	}
	return s
}

// BuildFilename returns the download name for a CSV export with the given base.
func BuildFilename(base string) string {
	return SanitizeFilename(base) + ".csv"
}
