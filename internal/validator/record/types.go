// Package record holds the built-in review checks for extraction records.
package record

import (
	"strings"

	"lexmerge/internal/domain"
)

// ValidationResult is the outcome of one check against one field.
type ValidationResult struct {
	Passed        bool
	FieldID       int
	FieldName     string
	ExpectedValue string
	ActualValue   string
	Message       string
}

// fieldIndex looks fields up by upper-cased, trimmed name.
type fieldIndex map[string]domain.ExtractionField

func indexFields(r *domain.ExtractionRecord) fieldIndex {
	ix := make(fieldIndex, len(r.Fields))
	for _, f := range r.Fields {
		ix[normalizeName(f.FieldName)] = f
	}
	return ix
}

func (ix fieldIndex) get(name string) (domain.ExtractionField, bool) {
	f, ok := ix[normalizeName(name)]
	return f, ok
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

// fieldsWhere returns the record's fields whose names satisfy match, in order.
func fieldsWhere(r *domain.ExtractionRecord, match func(name string) bool) []domain.ExtractionField {
	var out []domain.ExtractionField
	for _, f := range r.Fields {
		if match(normalizeName(f.FieldName)) {
			out = append(out, f)
		}
	}
	return out
}
