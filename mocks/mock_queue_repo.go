package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cargoflow/internal/domain"
)

// MockQueueRepo is a mock implementation of port.QueueRepository.
type MockQueueRepo struct {
	mock.Mock
}

func (m *MockQueueRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionQueueItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionQueueItem), args.Error(1)
}

func (m *MockQueueRepo) Update(ctx context.Context, item *domain.ExtractionQueueItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
