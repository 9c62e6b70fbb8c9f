package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cargoflow/internal/domain"
)

// SupplierRepository provides read access to supplier records.
type SupplierRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	// FindFirstByNameContains returns the first supplier whose name contains
	// the fragment (case-insensitive), or (nil, nil) when none match.
	FindFirstByNameContains(ctx context.Context, fragment string) (*domain.Supplier, error)
	ListWithBalanceAbove(ctx context.Context, min float64) ([]domain.Supplier, error)
}

// ClientRepository provides read access to client records.
type ClientRepository interface {
	// FindFirstByNameContains returns the first client whose name contains
	// the fragment (case-insensitive), or (nil, nil) when none match.
	FindFirstByNameContains(ctx context.Context, fragment string) (*domain.Client, error)
}

// ShipmentDetailsPatch carries optional shipment fields extracted from a
// shipping invoice. Nil fields are left untouched.
type ShipmentDetailsPatch struct {
	VesselName      *string
	BLNumber        *string
	ETA             *time.Time
	ContainerNumber *string
}

// ShipmentRepository provides access to shipment records.
type ShipmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error)
	// FindFirstByReference returns the first shipment whose reference number
	// matches any candidate (case-insensitive), or (nil, nil) when none match.
	FindFirstByReference(ctx context.Context, candidates []string) (*domain.Shipment, error)
	PatchDetails(ctx context.Context, id uuid.UUID, patch ShipmentDetailsPatch) error
	SetTelexReleased(ctx context.Context, id uuid.UUID, releasedDate time.Time) error

	// Alert rule scans.
	ListOverdueTelex(ctx context.Context, etaCutoff time.Time) ([]domain.Shipment, error)
	ListLowMargin(ctx context.Context, below float64) ([]domain.Shipment, error)
	ListStale(ctx context.Context, updatedBefore time.Time) ([]domain.Shipment, error)
	ListDeliveredMissingInvoice(ctx context.Context) ([]domain.Shipment, error)
	ListTelexReleasedIDs(ctx context.Context) ([]uuid.UUID, error)
	ListInvoicedIDs(ctx context.Context) ([]uuid.UUID, error)
}

// ShipmentCostRepository owns the per-shipment cost ledger row.
type ShipmentCostRepository interface {
	GetByShipmentID(ctx context.Context, shipmentID uuid.UUID) (*domain.ShipmentCost, error)
	// Upsert inserts or updates the cost row for cost.ShipmentID. Nil fields
	// on cost never overwrite existing column values.
	Upsert(ctx context.Context, cost *domain.ShipmentCost) error
}

// PaymentRepository provides read access to the payment schedule.
type PaymentRepository interface {
	ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.PaymentSchedule, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]domain.PaymentSchedule, error)
}

// QueueRepository owns extraction queue items.
type QueueRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionQueueItem, error)
	Update(ctx context.Context, item *domain.ExtractionQueueItem) error
}

// AlertRepository owns proactive alert records.
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.ProactiveAlert) error
	// FindActive returns the active alert for (alertType, entityID), or
	// (nil, nil) when none exists.
	FindActive(ctx context.Context, alertType string, entityID uuid.UUID) (*domain.ProactiveAlert, error)
	ListActiveByType(ctx context.Context, alertType string) ([]domain.ProactiveAlert, error)
	ListActive(ctx context.Context, offset, limit int) ([]domain.ProactiveAlert, int, error)
	Resolve(ctx context.Context, id uuid.UUID, notes string, resolvedAt time.Time) error
}
