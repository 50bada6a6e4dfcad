package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"

	"lexmerge/internal/config"
	"lexmerge/internal/csvexport"
	"lexmerge/internal/docmerge"
	"lexmerge/internal/domain"
	"lexmerge/internal/inspect"
	"lexmerge/internal/port"
)

const templatePrefix = "templates/"

// TemplateService keeps a library of Word templates in object storage.
type TemplateService interface {
	Enabled() bool
	Upload(ctx context.Context, name string, data []byte) (*domain.StoredTemplate, error)
	List(ctx context.Context) ([]domain.StoredTemplate, error)
	GetDownloadURL(ctx context.Context, id uuid.UUID) (*domain.StoredTemplate, error)
	// Fetch loads a stored template by its key for merging.
	Fetch(ctx context.Context, key string) (*docmerge.Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type templateService struct {
	storage port.ObjectStorage
	engine  *docmerge.Engine
	cfg     *config.StorageConfig
}

// NewTemplateService creates a new TemplateService. A nil storage disables the
// library and every call returns domain.ErrStorageDisabled.
func NewTemplateService(storage port.ObjectStorage, engine *docmerge.Engine, cfg *config.StorageConfig) TemplateService {
	return &templateService{storage: storage, engine: engine, cfg: cfg}
}

func (s *templateService) Enabled() bool {
	return s.storage != nil
}

func (s *templateService) Upload(ctx context.Context, name string, data []byte) (*domain.StoredTemplate, error) {
	if !s.Enabled() {
		return nil, domain.ErrStorageDisabled
	}
	res, err := inspect.Classify(name, data)
	if err != nil {
		return nil, err
	}
	if res.Kind != domain.FileKindTemplate {
		return nil, fmt.Errorf("%w: templates must be .docx", domain.ErrUnsupportedFileType)
	}
	placeholders, err := s.engine.Placeholders(data)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	fileName := csvexport.SanitizeFilename(name)
	key := fmt.Sprintf("%s%s/%s", templatePrefix, id, fileName)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: domain.DocxContentType,
		Size:        int64(len(data)),
	}); err != nil {
		log.Printf("templateService.Upload: %s: %v", key, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	log.Printf("templateService.Upload: stored %s (%d placeholders)", key, len(placeholders))
	return &domain.StoredTemplate{
		ID:           id,
		Name:         fileName,
		Key:          key,
		Size:         int64(len(data)),
		Placeholders: placeholders,
	}, nil
}

func (s *templateService) List(ctx context.Context) ([]domain.StoredTemplate, error) {
	if !s.Enabled() {
		return nil, domain.ErrStorageDisabled
	}
	objects, err := s.storage.List(ctx, s.cfg.Bucket, templatePrefix)
	if err != nil {
		return nil, err
	}
	templates := make([]domain.StoredTemplate, 0, len(objects))
	for _, obj := range objects {
		t, ok := parseTemplateKey(obj.Key)
		if !ok {
			continue
		}
		t.Size = obj.Size
		templates = append(templates, *t)
	}
	return templates, nil
}

func (s *templateService) GetDownloadURL(ctx context.Context, id uuid.UUID) (*domain.StoredTemplate, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, t.Key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, err
	}
	t.DownloadURL = url
	return t, nil
}

func (s *templateService) Fetch(ctx context.Context, key string) (*docmerge.Template, error) {
	if !s.Enabled() {
		return nil, domain.ErrStorageDisabled
	}
	t, ok := parseTemplateKey(key)
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	data, err := s.storage.Download(ctx, s.cfg.Bucket, t.Key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return &docmerge.Template{Name: t.Name, Data: data}, nil
}

func (s *templateService) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, s.cfg.Bucket, t.Key); err != nil {
		return err
	}
	log.Printf("templateService.Delete: removed %s", t.Key)
	return nil
}

func (s *templateService) find(ctx context.Context, id uuid.UUID) (*domain.StoredTemplate, error) {
	if !s.Enabled() {
		return nil, domain.ErrStorageDisabled
	}
	objects, err := s.storage.List(ctx, s.cfg.Bucket, fmt.Sprintf("%s%s/", templatePrefix, id))
	if err != nil {
		return nil, err
	}
	for _, obj := range objects {
		if t, ok := parseTemplateKey(obj.Key); ok {
			t.Size = obj.Size
			return t, nil
		}
	}
	return nil, domain.ErrTemplateNotFound
}

// parseTemplateKey accepts only keys of the form templates/<uuid>/<name>.
func parseTemplateKey(key string) (*domain.StoredTemplate, bool) {
	rest, ok := strings.CutPrefix(key, templatePrefix)
	if !ok {
		return nil, false
	}
	idPart, name, ok := strings.Cut(rest, "/")
	if !ok || name == "" || name == ".." || strings.Contains(name, "/") || path.Clean(name) != name {
		return nil, false
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, false
	}
	return &domain.StoredTemplate{ID: id, Name: name, Key: key}, true
}
