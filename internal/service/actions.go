package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cargoflow/internal/config"
	"cargoflow/internal/domain"
	"cargoflow/internal/extractor"
	"cargoflow/internal/port"
)

// AutoAction records one write the pipeline applied automatically. The list
// is persisted on the queue item for audit and summarized in the
// auto-processed notification.
type AutoAction struct {
	Action     string         `json:"action"`
	ShipmentID uuid.UUID      `json:"shipment_id"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// ActionApplier applies extracted document fields to shipment and cost
// records, gated on extraction confidence. Writes happen only when the
// confidence clears the auto-apply threshold AND the document resolved to a
// shipment; everything else is left for human review.
type ActionApplier struct {
	costs     port.ShipmentCostRepository
	shipments port.ShipmentRepository
	cfg       config.PipelineConfig
	logger    zerolog.Logger
}

// NewActionApplier creates an ActionApplier.
func NewActionApplier(
	costs port.ShipmentCostRepository,
	shipments port.ShipmentRepository,
	cfg config.PipelineConfig,
	logger zerolog.Logger,
) *ActionApplier {
	return &ActionApplier{costs: costs, shipments: shipments, cfg: cfg, logger: logger}
}

// Apply executes the per-document-type field mapping and returns the actions
// taken. Nil extracted fields are never written; the cost upsert is keyed on
// shipment id so reprocessing a corrected document overwrites cleanly.
func (a *ActionApplier) Apply(
	ctx context.Context,
	documentType string,
	fields extractor.Fields,
	matches MatchedEntities,
	confidence float64,
) ([]AutoAction, error) {
	if confidence < a.cfg.AutoApplyThreshold || matches.ShipmentID == nil {
		return nil, nil
	}
	shipmentID := *matches.ShipmentID

	switch documentType {
	case domain.DocTypeClearingAgentInvoice:
		cost := &domain.ShipmentCost{
			ShipmentID:       shipmentID,
			CustomsDuty:      fields.CustomsDuty,
			CustomsVAT:       fields.CustomsVAT,
			ContainerLanding: fields.ContainerLanding,
			CargoDues:        fields.CargoDues,
			AgencyFee:        fields.AgencyFee,
			ClearingCost:     fields.Amount,
		}
		if err := a.costs.Upsert(ctx, cost); err != nil {
			return nil, fmt.Errorf("applying clearing costs: %w", err)
		}
		return []AutoAction{{
			Action:     "update_clearing_costs",
			ShipmentID: shipmentID,
			Fields:     costFields(cost),
		}}, nil

	case domain.DocTypeShippingInvoice:
		cost := &domain.ShipmentCost{
			ShipmentID:      shipmentID,
			OceanFreightUSD: fields.OceanFreightUSD,
			OceanFreightZAR: fields.OceanFreightZAR,
			FXAppliedRate:   fields.ROE,
			HandoverFee:     fields.HandoverFee,
			FreightCost:     fields.Amount,
		}
		if err := a.costs.Upsert(ctx, cost); err != nil {
			return nil, fmt.Errorf("applying shipping costs: %w", err)
		}
		actions := []AutoAction{{
			Action:     "update_shipping_costs",
			ShipmentID: shipmentID,
			Fields:     costFields(cost),
		}}

		patch := port.ShipmentDetailsPatch{
			VesselName:      fields.VesselName,
			BLNumber:        fields.BLNumber,
			ETA:             fields.ETA,
			ContainerNumber: fields.ContainerNumber,
		}
		if patch.VesselName != nil || patch.BLNumber != nil || patch.ETA != nil || patch.ContainerNumber != nil {
			if err := a.shipments.PatchDetails(ctx, shipmentID, patch); err != nil {
				return actions, fmt.Errorf("patching shipment details: %w", err)
			}
			actions = append(actions, AutoAction{
				Action:     "update_shipment_details",
				ShipmentID: shipmentID,
				Fields:     patchFields(patch),
			})
		}
		return actions, nil

	case domain.DocTypeTransportInvoice:
		cost := &domain.ShipmentCost{
			ShipmentID:          shipmentID,
			TransportCost:       fields.TransportCost,
			TransportSurcharges: fields.GIMSurcharge,
			TransportTotal:      fields.Amount,
		}
		if err := a.costs.Upsert(ctx, cost); err != nil {
			return nil, fmt.Errorf("applying transport costs: %w", err)
		}
		return []AutoAction{{
			Action:     "update_transport_costs",
			ShipmentID: shipmentID,
			Fields:     costFields(cost),
		}}, nil

	case domain.DocTypeSupplierInvoice:
		currency := fields.Currency
		if currency == nil {
			usd := "USD"
			currency = &usd
		}
		cost := &domain.ShipmentCost{
			ShipmentID:     shipmentID,
			SupplierCost:   fields.Amount,
			SourceCurrency: currency,
		}
		if err := a.costs.Upsert(ctx, cost); err != nil {
			return nil, fmt.Errorf("applying supplier cost: %w", err)
		}
		return []AutoAction{{
			Action:     "update_supplier_cost",
			ShipmentID: shipmentID,
			Fields:     costFields(cost),
		}}, nil

	case domain.DocTypeTelexRelease:
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if err := a.shipments.SetTelexReleased(ctx, shipmentID, today); err != nil {
			return nil, fmt.Errorf("marking telex released: %w", err)
		}
		return []AutoAction{{
			Action:     "mark_telex_released",
			ShipmentID: shipmentID,
			Fields:     map[string]any{"telex_released": true, "telex_released_date": today.Format("2006-01-02")},
		}}, nil

	default:
		a.logger.Debug().Str("document_type", documentType).Msg("no auto-action mapping for document type")
		return nil, nil
	}
}

// costFields flattens the non-nil cost columns for the audit record.
func costFields(cost *domain.ShipmentCost) map[string]any {
	fields := map[string]any{}
	put := func(name string, v *float64) {
		if v != nil {
			fields[name] = *v
		}
	}
	put("customs_duty", cost.CustomsDuty)
	put("customs_vat", cost.CustomsVAT)
	put("container_landing", cost.ContainerLanding)
	put("cargo_dues", cost.CargoDues)
	put("agency_fee", cost.AgencyFee)
	put("clearing_cost", cost.ClearingCost)
	put("ocean_freight_usd", cost.OceanFreightUSD)
	put("ocean_freight_zar", cost.OceanFreightZAR)
	put("fx_applied_rate", cost.FXAppliedRate)
	put("handover_fee", cost.HandoverFee)
	put("freight_cost", cost.FreightCost)
	put("transport_cost", cost.TransportCost)
	put("transport_surcharges", cost.TransportSurcharges)
	put("transport_total", cost.TransportTotal)
	put("supplier_cost", cost.SupplierCost)
	if cost.SourceCurrency != nil {
		fields["source_currency"] = *cost.SourceCurrency
	}
	return fields
}

func patchFields(patch port.ShipmentDetailsPatch) map[string]any {
	fields := map[string]any{}
	if patch.VesselName != nil {
		fields["vessel_name"] = *patch.VesselName
	}
	if patch.BLNumber != nil {
		fields["bl_number"] = *patch.BLNumber
	}
	if patch.ETA != nil {
		fields["eta"] = patch.ETA.Format("2006-01-02")
	}
	if patch.ContainerNumber != nil {
		fields["container_number"] = *patch.ContainerNumber
	}
	return fields
}
