package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"lexmerge/internal/docmerge"
	"lexmerge/internal/domain"
	"lexmerge/internal/port"
)

// MergeInput describes a stateless merge. Exactly one of Template and TemplateKey
// is used; Template wins when both are set.
type MergeInput struct {
	Template    *docmerge.Template
	TemplateKey string
	Record      *domain.ExtractionRecord
}

// MergeService populates Word templates from extraction records.
type MergeService interface {
	// MergeSession merges the session's record into its template, or into the
	// stored template named by templateKey when it is non-empty.
	MergeSession(ctx context.Context, sessionID uuid.UUID, templateKey string) (*docmerge.Output, error)
	Merge(ctx context.Context, input MergeInput) (*docmerge.Output, error)
}

type mergeService struct {
	store     port.SessionStore
	templates TemplateService
	engine    *docmerge.Engine
}

// NewMergeService creates a new MergeService.
func NewMergeService(store port.SessionStore, templates TemplateService, engine *docmerge.Engine) MergeService {
	return &mergeService{store: store, templates: templates, engine: engine}
}

func (s *mergeService) MergeSession(ctx context.Context, sessionID uuid.UUID, templateKey string) (*docmerge.Output, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Record == nil {
		return nil, domain.ErrNoExtractionResult
	}

	input := MergeInput{Record: sess.Record, TemplateKey: templateKey}
	if templateKey == "" {
		if sess.Template == nil {
			return nil, domain.ErrNoTemplate
		}
		input.Template = &docmerge.Template{Name: sess.Template.Name, Data: sess.Template.Data}
	}
	return s.Merge(ctx, input)
}

func (s *mergeService) Merge(ctx context.Context, input MergeInput) (*docmerge.Output, error) {
	if input.Record == nil {
		return nil, domain.ErrNoExtractionResult
	}
	if err := input.Record.Validate(); err != nil {
		return nil, err
	}

	tpl := input.Template
	if tpl == nil {
		if input.TemplateKey == "" {
			return nil, domain.ErrNoTemplate
		}
		fetched, err := s.templates.Fetch(ctx, input.TemplateKey)
		if err != nil {
			return nil, err
		}
		tpl = fetched
	}

	out, err := s.engine.Merge(*tpl, input.Record)
	if err != nil {
		var unresolved *docmerge.UnresolvedPlaceholderError
		if errors.As(err, &unresolved) {
			log.Printf("mergeService.Merge: %s: %d unresolved placeholder(s)", tpl.Name, len(unresolved.Placeholders))
		} else {
			log.Printf("mergeService.Merge: %s: %v", tpl.Name, err)
		}
		return nil, err
	}
	return out, nil
}
