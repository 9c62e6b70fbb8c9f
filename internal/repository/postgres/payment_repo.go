package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cargoflow/internal/domain"
	"cargoflow/internal/port"
)

type paymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo creates a new PostgreSQL-backed PaymentRepository.
func NewPaymentRepo(db *sqlx.DB) port.PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.PaymentSchedule, error) {
	var payments []domain.PaymentSchedule
	err := r.db.SelectContext(ctx, &payments,
		`SELECT * FROM payment_schedules
		 WHERE status = 'pending' AND payment_date <= $1
		 ORDER BY payment_date`,
		cutoff)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListPendingDueBefore: %w", err)
	}
	return payments, nil
}

func (r *paymentRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]domain.PaymentSchedule, error) {
	var payments []domain.PaymentSchedule
	err := r.db.SelectContext(ctx, &payments,
		`SELECT * FROM payment_schedules
		 WHERE supplier_id = $1
		 ORDER BY payment_date DESC`,
		supplierID)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListBySupplier: %w", err)
	}
	return payments, nil
}
