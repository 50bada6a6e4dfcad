package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lexmerge/internal/docmerge"
	"lexmerge/internal/service"
)

// MockMergeService is a mock implementation of service.MergeService.
type MockMergeService struct {
	mock.Mock
}

func (m *MockMergeService) MergeSession(ctx context.Context, sessionID uuid.UUID, templateKey string) (*docmerge.Output, error) {
	args := m.Called(ctx, sessionID, templateKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docmerge.Output), args.Error(1)
}

func (m *MockMergeService) Merge(ctx context.Context, input service.MergeInput) (*docmerge.Output, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docmerge.Output), args.Error(1)
}
