package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cargoflow/internal/domain"
	"cargoflow/internal/service"
)

// MockAlertService is a mock implementation of service.AlertService.
type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) RunSweep(ctx context.Context) (*service.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SweepResult), args.Error(1)
}

func (m *MockAlertService) ListActive(ctx context.Context, offset, limit int) ([]domain.ProactiveAlert, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ProactiveAlert), args.Int(1), args.Error(2)
}

func (m *MockAlertService) Resolve(ctx context.Context, id uuid.UUID, notes string) error {
	args := m.Called(ctx, id, notes)
	return args.Error(0)
}
