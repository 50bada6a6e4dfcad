package validator

import (
	"strings"

	"lexmerge/internal/domain"
)

// FieldStatus represents the computed review state for a single field.
type FieldStatus struct {
	FieldName string                       `json:"field_name"`
	Status    domain.FieldValidationStatus `json:"status"`
	Messages  []string                     `json:"messages"`
}

// ComputeFieldStatuses derives a status for every field of rec, keyed by field id.
// Empty values are missing unless a check failed on them.
func ComputeFieldStatuses(rec *domain.ExtractionRecord, results []ResultEntry) map[int]*FieldStatus {
	statuses := make(map[int]*FieldStatus, len(rec.Fields))
	for _, f := range rec.Fields {
		status := domain.FieldStatusValid
		if strings.TrimSpace(f.Value) == "" {
			status = domain.FieldStatusMissing
		}
		statuses[f.ID] = &FieldStatus{FieldName: f.FieldName, Status: status, Messages: []string{}}
	}

	for _, r := range results {
		if r.Passed {
			continue
		}
		fs, ok := statuses[r.FieldID]
		if !ok {
			continue
		}
		if r.Severity == domain.ValidationSeverityError {
			fs.Status = domain.FieldStatusInvalid
		} else if fs.Status != domain.FieldStatusInvalid {
			fs.Status = domain.FieldStatusUnsure
		}
		fs.Messages = append(fs.Messages, r.Message)
	}
	return statuses
}
