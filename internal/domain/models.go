package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor the business buys goods or services from.
type Supplier struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	CurrentBalance float64   `db:"current_balance" json:"current_balance"`
	Currency       string    `db:"currency" json:"currency"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Client is a customer receiving shipments.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Reference string    `db:"reference" json:"reference"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Shipment is one consignment tracked from origin to delivery. The
// reference number carries the human-assigned LOT code used to correlate
// uploaded documents to the shipment.
type Shipment struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	ReferenceNumber   string     `db:"reference_number" json:"reference_number"`
	ClientID          *uuid.UUID `db:"client_id" json:"client_id"`
	Status            string     `db:"status" json:"status"`
	VesselName        *string    `db:"vessel_name" json:"vessel_name"`
	BLNumber          *string    `db:"bl_number" json:"bl_number"`
	ContainerNumber   *string    `db:"container_number" json:"container_number"`
	ETA               *time.Time `db:"eta" json:"eta"`
	TelexReleased     bool       `db:"telex_released" json:"telex_released"`
	TelexReleasedDate *time.Time `db:"telex_released_date" json:"telex_released_date"`
	ProfitMargin      *float64   `db:"profit_margin" json:"profit_margin"`
	ClientInvoiceZAR  *float64   `db:"client_invoice_zar" json:"client_invoice_zar"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// ShipmentCost holds the per-shipment cost ledger. Exactly one row per
// shipment; document processing upserts into it keyed on shipment_id so
// reprocessing a corrected document overwrites rather than accumulates.
type ShipmentCost struct {
	ShipmentID          uuid.UUID `db:"shipment_id" json:"shipment_id"`
	CustomsDuty         *float64  `db:"customs_duty" json:"customs_duty"`
	CustomsVAT          *float64  `db:"customs_vat" json:"customs_vat"`
	ContainerLanding    *float64  `db:"container_landing" json:"container_landing"`
	CargoDues           *float64  `db:"cargo_dues" json:"cargo_dues"`
	AgencyFee           *float64  `db:"agency_fee" json:"agency_fee"`
	ClearingCost        *float64  `db:"clearing_cost" json:"clearing_cost"`
	OceanFreightUSD     *float64  `db:"ocean_freight_usd" json:"ocean_freight_usd"`
	OceanFreightZAR     *float64  `db:"ocean_freight_zar" json:"ocean_freight_zar"`
	FXAppliedRate       *float64  `db:"fx_applied_rate" json:"fx_applied_rate"`
	HandoverFee         *float64  `db:"handover_fee" json:"handover_fee"`
	FreightCost         *float64  `db:"freight_cost" json:"freight_cost"`
	TransportCost       *float64  `db:"transport_cost" json:"transport_cost"`
	TransportSurcharges *float64  `db:"transport_surcharges" json:"transport_surcharges"`
	TransportTotal      *float64  `db:"transport_total" json:"transport_total"`
	SupplierCost        *float64  `db:"supplier_cost" json:"supplier_cost"`
	SourceCurrency      *string   `db:"source_currency" json:"source_currency"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// PaymentSchedule is one planned supplier payment.
type PaymentSchedule struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	SupplierID  *uuid.UUID `db:"supplier_id" json:"supplier_id"`
	Description string     `db:"description" json:"description"`
	Amount      float64    `db:"amount" json:"amount"`
	Currency    string     `db:"currency" json:"currency"`
	PaymentDate time.Time  `db:"payment_date" json:"payment_date"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// ExtractionQueueItem is one uploaded document awaiting AI extraction.
// Created by the upload flow in status queued; owned by the extraction
// pipeline through its terminal states. Never deleted here.
type ExtractionQueueItem struct {
	ID                    uuid.UUID       `db:"id" json:"id"`
	FilePath              string          `db:"file_path" json:"file_path"`
	Status                QueueStatus     `db:"status" json:"status"`
	RawText               string          `db:"raw_text" json:"raw_text"`
	ExtractedFields       json.RawMessage `db:"extracted_fields" json:"extracted_fields"`
	Confidence            float64         `db:"confidence" json:"confidence"`
	DocumentType          string          `db:"document_type" json:"document_type"`
	MatchedSupplierID     *uuid.UUID      `db:"matched_supplier_id" json:"matched_supplier_id"`
	MatchedShipmentID     *uuid.UUID      `db:"matched_shipment_id" json:"matched_shipment_id"`
	MatchedClientID       *uuid.UUID      `db:"matched_client_id" json:"matched_client_id"`
	AutoActions           json.RawMessage `db:"auto_actions" json:"auto_actions"`
	NeedsHumanReview      bool            `db:"needs_human_review" json:"needs_human_review"`
	ErrorMessage          *string         `db:"error_message" json:"error_message"`
	QueuedAt              time.Time       `db:"queued_at" json:"queued_at"`
	ProcessingStartedAt   *time.Time      `db:"processing_started_at" json:"processing_started_at"`
	ProcessingCompletedAt *time.Time      `db:"processing_completed_at" json:"processing_completed_at"`
	ProcessingMs          *int64          `db:"processing_ms" json:"processing_ms"`
}

// ProactiveAlert is a durable record of one open or closed business
// condition. At most one active alert may exist per (alert_type, entity_id)
// pair; repeated sweeps re-firing a still-true condition are no-ops.
type ProactiveAlert struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	AlertType       string        `db:"alert_type" json:"alert_type"`
	Severity        AlertSeverity `db:"severity" json:"severity"`
	Title           string        `db:"title" json:"title"`
	Message         string        `db:"message" json:"message"`
	EntityType      string        `db:"entity_type" json:"entity_type"`
	EntityID        uuid.UUID     `db:"entity_id" json:"entity_id"`
	EntityReference string        `db:"entity_reference" json:"entity_reference"`
	ActionRequired  bool          `db:"action_required" json:"action_required"`
	SuggestedAction string        `db:"suggested_action" json:"suggested_action"`
	Status          AlertStatus   `db:"status" json:"status"`
	ResolvedAt      *time.Time    `db:"resolved_at" json:"resolved_at"`
	ResolutionNotes *string       `db:"resolution_notes" json:"resolution_notes"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}
