package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cargoflow/internal/domain"
)

// MockPaymentRepo is a mock implementation of port.PaymentRepository.
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.PaymentSchedule, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentSchedule), args.Error(1)
}

func (m *MockPaymentRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]domain.PaymentSchedule, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentSchedule), args.Error(1)
}
