package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"lexmerge/internal/docmerge"
	"lexmerge/internal/domain"
	"lexmerge/internal/inspect"
	"lexmerge/internal/port"
)

// UploadedFile is one file received for a session.
type UploadedFile struct {
	Name string
	Data []byte
}

// SectionsUpdate carries edits to the free-text sections. Nil leaves a section as is.
type SectionsUpdate struct {
	ImmovablePropertyDescription *string `json:"immovablePropertyDescription"`
	ApplicantsAndCoBorrowers     *string `json:"applicantsAndCoBorrowers"`
}

// UploadLimits bounds what a session accepts.
type UploadLimits struct {
	MaxFileBytes int64
	MaxFiles     int
}

// SessionService manages review sessions: uploads, the current record and edits to it.
type SessionService interface {
	Create(ctx context.Context) (*domain.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Reset(ctx context.Context, id uuid.UUID) error
	AddFiles(ctx context.Context, id uuid.UUID, files []UploadedFile) (*domain.Session, error)
	RemoveFile(ctx context.Context, id, fileID uuid.UUID) (*domain.Session, error)
	UpdateField(ctx context.Context, id uuid.UUID, fieldID int, value string) (*domain.Session, error)
	UpdateSections(ctx context.Context, id uuid.UUID, update SectionsUpdate) (*domain.Session, error)
	ReplaceRecord(ctx context.Context, id uuid.UUID, record *domain.ExtractionRecord) (*domain.Session, error)
}

type sessionService struct {
	store  port.SessionStore
	engine *docmerge.Engine
	limits UploadLimits
}

// NewSessionService creates a new SessionService.
func NewSessionService(store port.SessionStore, engine *docmerge.Engine, limits UploadLimits) SessionService {
	return &sessionService{store: store, engine: engine, limits: limits}
}

func (s *sessionService) Create(ctx context.Context) (*domain.Session, error) {
	session := &domain.Session{ID: uuid.New(), Files: []domain.SourceFile{}}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	log.Printf("sessionService.Create: session %s created", session.ID)
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.store.Get(ctx, id)
}

// Reset discards the session. An extraction still in flight finishes against a
// missing session and its result is dropped.
func (s *sessionService) Reset(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("sessionService.Reset: session %s discarded", id)
	return nil
}

func (s *sessionService) AddFiles(ctx context.Context, id uuid.UUID, files []UploadedFile) (*domain.Session, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files in request", domain.ErrUnsupportedFileType)
	}

	var sources []domain.SourceFile
	var template *domain.TemplateFile
	for _, f := range files {
		if s.limits.MaxFileBytes > 0 && int64(len(f.Data)) > s.limits.MaxFileBytes {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileTooLarge, f.Name)
		}
		res, err := inspect.Classify(f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		if res.Kind == domain.FileKindTemplate {
			tpl, err := s.newTemplate(f)
			if err != nil {
				return nil, err
			}
			// A later template in the same request replaces an earlier one.
			template = tpl
			continue
		}
		sources = append(sources, domain.SourceFile{
			ID:          uuid.New(),
			Name:        f.Name,
			ContentType: res.ContentType,
			Size:        int64(len(f.Data)),
			Pages:       res.Pages,
			Data:        f.Data,
		})
	}

	return s.store.Update(ctx, id, func(sess *domain.Session) error {
		total := len(sess.Files) + len(sources)
		if template != nil || sess.Template != nil {
			total++
		}
		if s.limits.MaxFiles > 0 && total > s.limits.MaxFiles {
			return domain.ErrTooManyFiles
		}
		sess.Files = append(sess.Files, sources...)
		if template != nil {
			sess.Template = template
		}
		return nil
	})
}

// newTemplate checks the container and records the template's placeholders.
// Malformed tags are reported at merge time, not here.
func (s *sessionService) newTemplate(f UploadedFile) (*domain.TemplateFile, error) {
	names, err := s.engine.Placeholders(f.Data)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTemplateFormat) {
			return nil, err
		}
		log.Printf("sessionService.AddFiles: template %s has tag problems: %v", f.Name, err)
	}
	return &domain.TemplateFile{
		ID:           uuid.New(),
		Name:         f.Name,
		Size:         int64(len(f.Data)),
		Placeholders: names,
		Data:         f.Data,
	}, nil
}

func (s *sessionService) RemoveFile(ctx context.Context, id, fileID uuid.UUID) (*domain.Session, error) {
	return s.store.Update(ctx, id, func(sess *domain.Session) error {
		if sess.Template != nil && sess.Template.ID == fileID {
			sess.Template = nil
			return nil
		}
		for i := range sess.Files {
			if sess.Files[i].ID == fileID {
				sess.Files = append(sess.Files[:i], sess.Files[i+1:]...)
				return nil
			}
		}
		return domain.ErrFileNotFound
	})
}

func (s *sessionService) UpdateField(ctx context.Context, id uuid.UUID, fieldID int, value string) (*domain.Session, error) {
	return s.store.Update(ctx, id, func(sess *domain.Session) error {
		if sess.Record == nil {
			return domain.ErrNoExtractionResult
		}
		idx := sess.Record.FieldByID(fieldID)
		if idx < 0 {
			return domain.ErrFieldNotFound
		}
		sess.Record.Fields[idx].Value = value
		return nil
	})
}

func (s *sessionService) UpdateSections(ctx context.Context, id uuid.UUID, update SectionsUpdate) (*domain.Session, error) {
	return s.store.Update(ctx, id, func(sess *domain.Session) error {
		if sess.Record == nil {
			return domain.ErrNoExtractionResult
		}
		if update.ImmovablePropertyDescription != nil {
			sess.Record.ImmovablePropertyDescription = *update.ImmovablePropertyDescription
		}
		if update.ApplicantsAndCoBorrowers != nil {
			sess.Record.ApplicantsAndCoBorrowers = *update.ApplicantsAndCoBorrowers
		}
		return nil
	})
}

func (s *sessionService) ReplaceRecord(ctx context.Context, id uuid.UUID, record *domain.ExtractionRecord) (*domain.Session, error) {
	if record == nil {
		return nil, domain.ErrInvalidRecord
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	clone := record.Clone()
	return s.store.Update(ctx, id, func(sess *domain.Session) error {
		if sess.Extracting {
			return domain.ErrExtractionInProgress
		}
		sess.Record = clone
		return nil
	})
}
