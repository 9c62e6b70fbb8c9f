package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cargoflow/internal/domain"
	"cargoflow/internal/port"
)

type shipmentCostRepo struct {
	db *sqlx.DB
}

// NewShipmentCostRepo creates a new PostgreSQL-backed ShipmentCostRepository.
func NewShipmentCostRepo(db *sqlx.DB) port.ShipmentCostRepository {
	return &shipmentCostRepo{db: db}
}

func (r *shipmentCostRepo) GetByShipmentID(ctx context.Context, shipmentID uuid.UUID) (*domain.ShipmentCost, error) {
	var c domain.ShipmentCost
	err := r.db.GetContext(ctx, &c,
		"SELECT * FROM shipment_costs WHERE shipment_id = $1", shipmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("shipmentCostRepo.GetByShipmentID: %w", err)
	}
	return &c, nil
}

// Upsert writes the cost row for a shipment. COALESCE against the existing
// row means nil fields on the patch never clobber previously captured
// values, while repeated processing of the same document overwrites rather
// than accumulates.
func (r *shipmentCostRepo) Upsert(ctx context.Context, cost *domain.ShipmentCost) error {
	cost.UpdatedAt = time.Now().UTC()

	query := `INSERT INTO shipment_costs (
		shipment_id, customs_duty, customs_vat, container_landing, cargo_dues,
		agency_fee, clearing_cost, ocean_freight_usd, ocean_freight_zar,
		fx_applied_rate, handover_fee, freight_cost, transport_cost,
		transport_surcharges, transport_total, supplier_cost, source_currency,
		updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		$10, $11, $12, $13,
		$14, $15, $16, $17,
		$18
	)
	ON CONFLICT (shipment_id) DO UPDATE SET
		customs_duty = COALESCE(EXCLUDED.customs_duty, shipment_costs.customs_duty),
		customs_vat = COALESCE(EXCLUDED.customs_vat, shipment_costs.customs_vat),
		container_landing = COALESCE(EXCLUDED.container_landing, shipment_costs.container_landing),
		cargo_dues = COALESCE(EXCLUDED.cargo_dues, shipment_costs.cargo_dues),
		agency_fee = COALESCE(EXCLUDED.agency_fee, shipment_costs.agency_fee),
		clearing_cost = COALESCE(EXCLUDED.clearing_cost, shipment_costs.clearing_cost),
		ocean_freight_usd = COALESCE(EXCLUDED.ocean_freight_usd, shipment_costs.ocean_freight_usd),
		ocean_freight_zar = COALESCE(EXCLUDED.ocean_freight_zar, shipment_costs.ocean_freight_zar),
		fx_applied_rate = COALESCE(EXCLUDED.fx_applied_rate, shipment_costs.fx_applied_rate),
		handover_fee = COALESCE(EXCLUDED.handover_fee, shipment_costs.handover_fee),
		freight_cost = COALESCE(EXCLUDED.freight_cost, shipment_costs.freight_cost),
		transport_cost = COALESCE(EXCLUDED.transport_cost, shipment_costs.transport_cost),
		transport_surcharges = COALESCE(EXCLUDED.transport_surcharges, shipment_costs.transport_surcharges),
		transport_total = COALESCE(EXCLUDED.transport_total, shipment_costs.transport_total),
		supplier_cost = COALESCE(EXCLUDED.supplier_cost, shipment_costs.supplier_cost),
		source_currency = COALESCE(EXCLUDED.source_currency, shipment_costs.source_currency),
		updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		cost.ShipmentID, cost.CustomsDuty, cost.CustomsVAT, cost.ContainerLanding, cost.CargoDues,
		cost.AgencyFee, cost.ClearingCost, cost.OceanFreightUSD, cost.OceanFreightZAR,
		cost.FXAppliedRate, cost.HandoverFee, cost.FreightCost, cost.TransportCost,
		cost.TransportSurcharges, cost.TransportTotal, cost.SupplierCost, cost.SourceCurrency,
		cost.UpdatedAt)
	if err != nil {
		return fmt.Errorf("shipmentCostRepo.Upsert: %w", err)
	}
	return nil
}
