package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cargoflow/internal/domain"
)

// MockShipmentCostRepo is a mock implementation of port.ShipmentCostRepository.
type MockShipmentCostRepo struct {
	mock.Mock
}

func (m *MockShipmentCostRepo) GetByShipmentID(ctx context.Context, shipmentID uuid.UUID) (*domain.ShipmentCost, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShipmentCost), args.Error(1)
}

func (m *MockShipmentCostRepo) Upsert(ctx context.Context, cost *domain.ShipmentCost) error {
	args := m.Called(ctx, cost)
	return args.Error(0)
}
