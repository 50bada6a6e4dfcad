package port

import (
	"context"

	"lexmerge/internal/domain"
)

// DocumentInput is one source document sent to an extraction provider.
type DocumentInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ParseInput carries the documents for a single extraction round trip.
type ParseInput struct {
	Documents []DocumentInput
}

// ParseOutput contains the structured result from an LLM parser.
type ParseOutput struct {
	Record         *domain.ExtractionRecord
	ModelUsed      string
	PromptUsed     string
	SecondaryModel string         // set when two providers contributed
	FilledFields   map[int]string // field id -> model that supplied the value in merge mode
}

// DocumentParser abstracts LLM-based extraction of an ExtractionRecord.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}
