package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"lexmerge/internal/domain"
	"lexmerge/internal/inspect"
	"lexmerge/internal/port"
)

// ExtractionService sends source documents to the configured provider and stores
// the resulting record.
type ExtractionService interface {
	// Extract runs one extraction over the session's source files. At most one
	// extraction runs per session at a time.
	Extract(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	// ExtractDocuments runs one extraction without a session.
	ExtractDocuments(ctx context.Context, docs []port.DocumentInput) (*port.ParseOutput, error)
}

type extractionService struct {
	store  port.SessionStore
	parser port.DocumentParser
	sem    *semaphore.Weighted
}

// NewExtractionService creates a new ExtractionService. maxConcurrent bounds
// provider calls across all sessions.
func NewExtractionService(store port.SessionStore, parser port.DocumentParser, maxConcurrent int) ExtractionService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &extractionService{
		store:  store,
		parser: parser,
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

func (s *extractionService) Extract(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	claimed, err := s.store.Update(ctx, sessionID, func(sess *domain.Session) error {
		if sess.Extracting {
			return domain.ErrExtractionInProgress
		}
		if len(sess.Files) == 0 {
			return domain.ErrNoSourceDocuments
		}
		sess.Extracting = true
		sess.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	docs := make([]port.DocumentInput, 0, len(claimed.Files))
	for _, f := range claimed.Files {
		docs = append(docs, port.DocumentInput{FileName: f.Name, ContentType: f.ContentType, Data: f.Data})
	}

	out, runErr := s.ExtractDocuments(ctx, docs)

	// The claim must be released even when the request context is gone.
	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	updated, err := s.store.Update(finishCtx, sessionID, func(sess *domain.Session) error {
		sess.Extracting = false
		if runErr != nil {
			sess.LastError = runErr.Error()
			return nil
		}
		sess.Record = out.Record
		sess.ModelUsed = out.ModelUsed
		sess.LastError = ""
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			log.Printf("extractionService.Extract: session %s was reset during extraction, result dropped", sessionID)
		}
		return nil, err
	}
	if runErr != nil {
		return nil, runErr
	}

	log.Printf("extractionService.Extract: session %s extracted %d fields from %d documents (model=%s)",
		sessionID, len(out.Record.Fields), len(docs), out.ModelUsed)
	return updated, nil
}

func (s *extractionService) ExtractDocuments(ctx context.Context, docs []port.DocumentInput) (*port.ParseOutput, error) {
	if len(docs) == 0 {
		return nil, domain.ErrNoSourceDocuments
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: waiting for a provider slot: %w", domain.ErrExtractionFailed, err)
	}
	defer s.sem.Release(1)

	start := time.Now()
	out, err := s.parser.Parse(ctx, port.ParseInput{Documents: docs})
	if err != nil {
		log.Printf("extractionService.ExtractDocuments: provider failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	if out == nil || out.Record == nil {
		return nil, fmt.Errorf("%w: provider returned no record", domain.ErrExtractionFailed)
	}
	if err := out.Record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	return out, nil
}

// SourceDocuments classifies uploaded files for a stateless extraction. Word
// templates are rejected; they are never sent to a provider.
func SourceDocuments(files []UploadedFile, maxFileBytes int64) ([]port.DocumentInput, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoSourceDocuments
	}
	docs := make([]port.DocumentInput, 0, len(files))
	for _, f := range files {
		if maxFileBytes > 0 && int64(len(f.Data)) > maxFileBytes {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileTooLarge, f.Name)
		}
		res, err := inspect.Classify(f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		if res.Kind == domain.FileKindTemplate {
			return nil, fmt.Errorf("%w: %s is a template, not a source document", domain.ErrUnsupportedFileType, f.Name)
		}
		docs = append(docs, port.DocumentInput{FileName: f.Name, ContentType: res.ContentType, Data: f.Data})
	}
	return docs, nil
}
