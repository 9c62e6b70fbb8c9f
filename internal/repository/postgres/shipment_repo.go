package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cargoflow/internal/domain"
	"cargoflow/internal/port"
)

type shipmentRepo struct {
	db *sqlx.DB
}

// NewShipmentRepo creates a new PostgreSQL-backed ShipmentRepository.
func NewShipmentRepo(db *sqlx.DB) port.ShipmentRepository {
	return &shipmentRepo{db: db}
}

func (r *shipmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	var s domain.Shipment
	err := r.db.GetContext(ctx, &s, "SELECT * FROM shipments WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("shipmentRepo.GetByID: %w", err)
	}
	return &s, nil
}

func (r *shipmentRepo) FindFirstByReference(ctx context.Context, candidates []string) (*domain.Shipment, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		"SELECT * FROM shipments WHERE UPPER(reference_number) IN (?) ORDER BY created_at LIMIT 1",
		upperAll(candidates))
	if err != nil {
		return nil, fmt.Errorf("shipmentRepo.FindFirstByReference: %w", err)
	}
	query = r.db.Rebind(query)

	var s domain.Shipment
	err = r.db.GetContext(ctx, &s, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("shipmentRepo.FindFirstByReference: %w", err)
	}
	return &s, nil
}

func (r *shipmentRepo) PatchDetails(ctx context.Context, id uuid.UUID, patch port.ShipmentDetailsPatch) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE shipments SET
			vessel_name = COALESCE($1, vessel_name),
			bl_number = COALESCE($2, bl_number),
			eta = COALESCE($3, eta),
			container_number = COALESCE($4, container_number),
			updated_at = $5
		 WHERE id = $6`,
		patch.VesselName, patch.BLNumber, patch.ETA, patch.ContainerNumber,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("shipmentRepo.PatchDetails: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrShipmentNotFound
	}
	return nil
}

func (r *shipmentRepo) SetTelexReleased(ctx context.Context, id uuid.UUID, releasedDate time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE shipments SET
			telex_released = TRUE, telex_released_date = $1, updated_at = $2
		 WHERE id = $3`,
		releasedDate, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("shipmentRepo.SetTelexReleased: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrShipmentNotFound
	}
	return nil
}

func (r *shipmentRepo) ListOverdueTelex(ctx context.Context, etaCutoff time.Time) ([]domain.Shipment, error) {
	var shipments []domain.Shipment
	err := r.db.SelectContext(ctx, &shipments,
		`SELECT * FROM shipments
		 WHERE telex_released = FALSE
		   AND status IN ('arrived', 'clearing', 'in-transit')
		   AND eta IS NOT NULL AND eta <= $1
		 ORDER BY eta`,
		etaCutoff)
	if err != nil {
		return nil, fmt.Errorf("shipmentRepo.ListOverdueTelex: %w", err)
	}
	return shipments, nil
}

func (r *shipmentRepo) ListLowMargin(ctx context.Context, below float64) ([]domain.Shipment, error) {
	var shipments []domain.Shipment
	err := r.db.SelectContext(ctx, &shipments,
		`SELECT * FROM shipments
		 WHERE profit_margin IS NOT NULL AND profit_margin < $1
		   AND client_invoice_zar IS NOT NULL AND client_invoice_zar > 0
		 ORDER BY profit_margin`,
		below)
	if err != nil {
		return nil, fmt.Errorf("shipmentRepo.ListLowMargin: %w", err)
	}
	return shipments, nil
}

func (r *shipmentRepo) ListStale(ctx context.Context, updatedBefore time.Time) ([]domain.Shipment, error) {
	var shipments []domain.Shipment
	err := r.db.SelectContext(ctx, &shipments,
		`SELECT * FROM shipments
		 WHERE status NOT IN ('completed', 'cancelled') AND updated_at <= $1
		 ORDER BY updated_at`,
		updatedBefore)
	if err != nil {
		return nil, fmt.Errorf("shipmentRepo.ListStale: %w", err)
	}
	return shipments, nil
}

func (r *shipmentRepo) ListDeliveredMissingInvoice(ctx context.Context) ([]domain.Shipment, error) {
	var shipments []domain.Shipment
	err := r.db.SelectContext(ctx, &shipments,
		`SELECT * FROM shipments
		 WHERE status = 'delivered'
		   AND (client_invoice_zar IS NULL OR client_invoice_zar = 0)
		 ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("shipmentRepo.ListDeliveredMissingInvoice: %w", err)
	}
	return shipments, nil
}

func (r *shipmentRepo) ListTelexReleasedIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		"SELECT id FROM shipments WHERE telex_released = TRUE")
	if err != nil {
		return nil, fmt.Errorf("shipmentRepo.ListTelexReleasedIDs: %w", err)
	}
	return ids, nil
}

func (r *shipmentRepo) ListInvoicedIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		"SELECT id FROM shipments WHERE client_invoice_zar IS NOT NULL AND client_invoice_zar > 0")
	if err != nil {
		return nil, fmt.Errorf("shipmentRepo.ListInvoicedIDs: %w", err)
	}
	return ids, nil
}

func upperAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}
