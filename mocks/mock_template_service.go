package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lexmerge/internal/docmerge"
	"lexmerge/internal/domain"
)

// MockTemplateService is a mock implementation of service.TemplateService.
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockTemplateService) Upload(ctx context.Context, name string, data []byte) (*domain.StoredTemplate, error) {
	args := m.Called(ctx, name, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredTemplate), args.Error(1)
}

func (m *MockTemplateService) List(ctx context.Context) ([]domain.StoredTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StoredTemplate), args.Error(1)
}

func (m *MockTemplateService) GetDownloadURL(ctx context.Context, id uuid.UUID) (*domain.StoredTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredTemplate), args.Error(1)
}

func (m *MockTemplateService) Fetch(ctx context.Context, key string) (*docmerge.Template, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docmerge.Template), args.Error(1)
}

func (m *MockTemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
