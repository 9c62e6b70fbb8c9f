package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cargoflow/internal/domain"
)

// MockClientRepo is a mock implementation of port.ClientRepository.
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) FindFirstByNameContains(ctx context.Context, fragment string) (*domain.Client, error) {
	args := m.Called(ctx, fragment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
