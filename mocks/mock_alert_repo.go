package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cargoflow/internal/domain"
)

// MockAlertRepo is a mock implementation of port.AlertRepository.
type MockAlertRepo struct {
	mock.Mock
}

func (m *MockAlertRepo) Create(ctx context.Context, alert *domain.ProactiveAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepo) FindActive(ctx context.Context, alertType string, entityID uuid.UUID) (*domain.ProactiveAlert, error) {
	args := m.Called(ctx, alertType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProactiveAlert), args.Error(1)
}

func (m *MockAlertRepo) ListActiveByType(ctx context.Context, alertType string) ([]domain.ProactiveAlert, error) {
	args := m.Called(ctx, alertType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProactiveAlert), args.Error(1)
}

func (m *MockAlertRepo) ListActive(ctx context.Context, offset, limit int) ([]domain.ProactiveAlert, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ProactiveAlert), args.Int(1), args.Error(2)
}

func (m *MockAlertRepo) Resolve(ctx context.Context, id uuid.UUID, notes string, resolvedAt time.Time) error {
	args := m.Called(ctx, id, notes, resolvedAt)
	return args.Error(0)
}
