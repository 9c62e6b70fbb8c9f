package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cargoflow/internal/domain"
	"cargoflow/internal/port"
)

// MockShipmentRepo is a mock implementation of port.ShipmentRepository.
type MockShipmentRepo struct {
	mock.Mock
}

func (m *MockShipmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepo) FindFirstByReference(ctx context.Context, candidates []string) (*domain.Shipment, error) {
	args := m.Called(ctx, candidates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepo) PatchDetails(ctx context.Context, id uuid.UUID, patch port.ShipmentDetailsPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockShipmentRepo) SetTelexReleased(ctx context.Context, id uuid.UUID, releasedDate time.Time) error {
	args := m.Called(ctx, id, releasedDate)
	return args.Error(0)
}

func (m *MockShipmentRepo) ListOverdueTelex(ctx context.Context, etaCutoff time.Time) ([]domain.Shipment, error) {
	args := m.Called(ctx, etaCutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepo) ListLowMargin(ctx context.Context, below float64) ([]domain.Shipment, error) {
	args := m.Called(ctx, below)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepo) ListStale(ctx context.Context, updatedBefore time.Time) ([]domain.Shipment, error) {
	args := m.Called(ctx, updatedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepo) ListDeliveredMissingInvoice(ctx context.Context) ([]domain.Shipment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shipment), args.Error(1)
}

func (m *MockShipmentRepo) ListTelexReleasedIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockShipmentRepo) ListInvoicedIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
