package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cargoflow/internal/domain"
	"cargoflow/internal/port"
)

type supplierRepo struct {
	db *sqlx.DB
}

// NewSupplierRepo creates a new PostgreSQL-backed SupplierRepository.
func NewSupplierRepo(db *sqlx.DB) port.SupplierRepository {
	return &supplierRepo{db: db}
}

func (r *supplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	var s domain.Supplier
	err := r.db.GetContext(ctx, &s, "SELECT * FROM suppliers WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSupplierNotFound
		}
		return nil, fmt.Errorf("supplierRepo.GetByID: %w", err)
	}
	return &s, nil
}

func (r *supplierRepo) FindFirstByNameContains(ctx context.Context, fragment string) (*domain.Supplier, error) {
	var s domain.Supplier
	err := r.db.GetContext(ctx, &s,
		"SELECT * FROM suppliers WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT 1",
		fragment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("supplierRepo.FindFirstByNameContains: %w", err)
	}
	return &s, nil
}

func (r *supplierRepo) ListWithBalanceAbove(ctx context.Context, min float64) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	err := r.db.SelectContext(ctx, &suppliers,
		"SELECT * FROM suppliers WHERE current_balance > $1 ORDER BY current_balance DESC",
		min)
	if err != nil {
		return nil, fmt.Errorf("supplierRepo.ListWithBalanceAbove: %w", err)
	}
	return suppliers, nil
}
