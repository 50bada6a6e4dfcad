package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lexmerge/internal/domain"
	"lexmerge/internal/service"
)

// MockSessionService is a mock implementation of service.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) session(args mock.Arguments) (*domain.Session, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionService) Create(ctx context.Context) (*domain.Session, error) {
	return m.session(m.Called(ctx))
}

func (m *MockSessionService) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return m.session(m.Called(ctx, id))
}

func (m *MockSessionService) Reset(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionService) AddFiles(ctx context.Context, id uuid.UUID, files []service.UploadedFile) (*domain.Session, error) {
	return m.session(m.Called(ctx, id, files))
}

func (m *MockSessionService) RemoveFile(ctx context.Context, id, fileID uuid.UUID) (*domain.Session, error) {
	return m.session(m.Called(ctx, id, fileID))
}

func (m *MockSessionService) UpdateField(ctx context.Context, id uuid.UUID, fieldID int, value string) (*domain.Session, error) {
	return m.session(m.Called(ctx, id, fieldID, value))
}

func (m *MockSessionService) UpdateSections(ctx context.Context, id uuid.UUID, update service.SectionsUpdate) (*domain.Session, error) {
	return m.session(m.Called(ctx, id, update))
}

func (m *MockSessionService) ReplaceRecord(ctx context.Context, id uuid.UUID, record *domain.ExtractionRecord) (*domain.Session, error) {
	return m.session(m.Called(ctx, id, record))
}
