package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"lexmerge/internal/domain"
	"lexmerge/internal/port"
	"lexmerge/internal/validator"
)

// ReviewService runs the built-in record checks that flag values needing a
// second look before merging.
type ReviewService interface {
	CheckSession(ctx context.Context, sessionID uuid.UUID) (*validator.Report, error)
	CheckRecord(ctx context.Context, record *domain.ExtractionRecord) (*validator.Report, error)
}

type reviewService struct {
	store  port.SessionStore
	engine *validator.Engine
}

// NewReviewService creates a new ReviewService.
func NewReviewService(store port.SessionStore, engine *validator.Engine) ReviewService {
	return &reviewService{store: store, engine: engine}
}

func (s *reviewService) CheckSession(ctx context.Context, sessionID uuid.UUID) (*validator.Report, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Record == nil {
		return nil, domain.ErrNoExtractionResult
	}
	report := s.engine.Check(ctx, sess.Record)
	log.Printf("reviewService.CheckSession: session %s status=%s errors=%d warnings=%d",
		sessionID, report.Status, report.Summary.Errors, report.Summary.Warnings)
	return report, nil
}

func (s *reviewService) CheckRecord(ctx context.Context, record *domain.ExtractionRecord) (*validator.Report, error) {
	if record == nil {
		return nil, domain.ErrNoExtractionResult
	}
	return s.engine.Check(ctx, record), nil
}
