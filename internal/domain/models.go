package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExtractionField is one extracted datum. An empty Value means the datum was not found.
type ExtractionField struct {
	ID        int    `json:"id"`
	FieldName string `json:"fieldName"`
	Value     string `json:"value"`
}

// ExtractionRecord is the full result of one extraction run. Field order is the
// canonical order and is preserved by every export.
type ExtractionRecord struct {
	Fields                       []ExtractionField `json:"fields"`
	ImmovablePropertyDescription string            `json:"immovablePropertyDescription"`
	ApplicantsAndCoBorrowers     string            `json:"applicantsAndCoBorrowers"`
}

// Clone returns a deep copy of the record.
func (r *ExtractionRecord) Clone() *ExtractionRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Fields = make([]ExtractionField, len(r.Fields))
	copy(out.Fields, r.Fields)
	return &out
}

// FieldByID returns the index of the field with the given id, or -1.
func (r *ExtractionRecord) FieldByID(id int) int {
	for i := range r.Fields {
		if r.Fields[i].ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the structural invariants of a record: positive, unique ids and
// non-empty field names.
func (r *ExtractionRecord) Validate() error {
	seen := make(map[int]struct{}, len(r.Fields))
	for _, f := range r.Fields {
		if f.ID <= 0 {
			return ErrInvalidRecord
		}
		if _, dup := seen[f.ID]; dup {
			return ErrInvalidRecord
		}
		seen[f.ID] = struct{}{}
		if f.FieldName == "" {
			return ErrInvalidRecord
		}
	}
	return nil
}

// SourceFile is an uploaded document destined for the extraction provider.
type SourceFile struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Pages       int       `json:"pages,omitempty"`
	Data        []byte    `json:"-"`
}

// TemplateFile is an uploaded Word template used for mail merge.
type TemplateFile struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	Placeholders []string  `json:"placeholders"`
	Data         []byte    `json:"-"`
}

// Session holds the state of one review session: the uploaded files, the current
// record and whether an extraction is outstanding. It lives in memory only.
type Session struct {
	ID         uuid.UUID         `json:"id"`
	Files      []SourceFile      `json:"files"`
	Template   *TemplateFile     `json:"template,omitempty"`
	Record     *ExtractionRecord `json:"record,omitempty"`
	Extracting bool              `json:"extracting"`
	ModelUsed  string            `json:"model_used,omitempty"`
	LastError  string            `json:"last_error,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Clone returns a copy of the session that shares no mutable slices with s.
// File payloads are immutable once stored and are shared.
func (s *Session) Clone() *Session {
	out := *s
	out.Files = make([]SourceFile, len(s.Files))
	copy(out.Files, s.Files)
	if s.Template != nil {
		t := *s.Template
		out.Template = &t
	}
	out.Record = s.Record.Clone()
	return &out
}

// StoredTemplate describes a template kept in the object store.
type StoredTemplate struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	Placeholders []string  `json:"placeholders,omitempty"`
	DownloadURL  string    `json:"download_url,omitempty"`
}
