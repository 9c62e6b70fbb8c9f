package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cargoflow/internal/config"
	"cargoflow/internal/domain"
	"cargoflow/internal/port"
)

// Alert type names. Each rule owns a disjoint namespace: the dedup key for
// active alerts is (alert_type, entity_id).
const (
	AlertHighSupplierBalance  = "high_supplier_balance"
	AlertOverdueTelex         = "overdue_telex"
	AlertPaymentDueSoon       = "payment_due_soon"
	AlertLowMarginShipment    = "low_margin_shipment"
	AlertStaleShipment        = "stale_shipment"
	AlertMissingClientInvoice = "missing_client_invoice"
)

// resolveDirection controls how a rule's active alerts are auto-resolved.
type resolveDirection int

const (
	// resolveMissing resolves active alerts whose entity is no longer in the
	// still-firing candidate set (e.g. a supplier balance dropped back down).
	resolveMissing resolveDirection = iota
	// resolveFixed resolves active alerts whose entity appears in an
	// explicit fixed-condition set (e.g. the telex is now released). The
	// absence of the entity from the candidate set is NOT enough for these
	// rules: a shipment that left the overdue window without the underlying
	// condition being fixed keeps its alert.
	resolveFixed
)

// alertCandidate is one firing condition produced by a rule evaluation.
type alertCandidate struct {
	EntityID        uuid.UUID
	EntityType      string
	EntityReference string
	Severity        domain.AlertSeverity
	Title           string
	Message         string
	ActionRequired  bool
	SuggestedAction string
}

// alertRule is one row of the rule table. Rules are independent and
// order-insensitive; a rule's query failure never aborts the others.
type alertRule struct {
	Type           string
	EntityType     string
	Direction      resolveDirection
	ResolutionNote string
	Evaluate       func(ctx context.Context) ([]alertCandidate, error)
	// FixedSet returns the entity ids whose condition is fixed. Only
	// consulted for resolveFixed rules.
	FixedSet func(ctx context.Context) ([]uuid.UUID, error)
}

// buildRules assembles the fixed rule table over the given repositories and
// thresholds.
func buildRules(
	suppliers port.SupplierRepository,
	shipments port.ShipmentRepository,
	payments port.PaymentRepository,
	t config.AlertThresholds,
) []alertRule {
	return []alertRule{
		{
			Type:           AlertHighSupplierBalance,
			EntityType:     "supplier",
			Direction:      resolveMissing,
			ResolutionNote: "Supplier balance dropped below the alert threshold.",
			Evaluate: func(ctx context.Context) ([]alertCandidate, error) {
				list, err := suppliers.ListWithBalanceAbove(ctx, t.SupplierBalanceWarning)
				if err != nil {
					return nil, err
				}
				candidates := make([]alertCandidate, 0, len(list))
				for _, s := range list {
					severity := domain.SeverityWarning
					if s.CurrentBalance >= t.SupplierBalanceUrgent {
						severity = domain.SeverityUrgent
					}
					candidates = append(candidates, alertCandidate{
						EntityID:        s.ID,
						EntityType:      "supplier",
						EntityReference: s.Name,
						Severity:        severity,
						Title:           fmt.Sprintf("High supplier balance: %s", s.Name),
						Message:         fmt.Sprintf("Supplier %s has an outstanding balance of %s %.2f.", s.Name, s.Currency, s.CurrentBalance),
						ActionRequired:  true,
						SuggestedAction: "Review the supplier ledger and schedule a payment.",
					})
				}
				return candidates, nil
			},
		},
		{
			Type:           AlertOverdueTelex,
			EntityType:     "shipment",
			Direction:      resolveFixed,
			ResolutionNote: "Telex release received.",
			Evaluate: func(ctx context.Context) ([]alertCandidate, error) {
				now := time.Now().UTC()
				cutoff := now.AddDate(0, 0, -t.TelexOverdueDays)
				list, err := shipments.ListOverdueTelex(ctx, cutoff)
				if err != nil {
					return nil, err
				}
				candidates := make([]alertCandidate, 0, len(list))
				for _, sh := range list {
					days := 0
					if sh.ETA != nil {
						days = int(now.Sub(*sh.ETA).Hours() / 24)
					}
					severity := domain.SeverityWarning
					if days >= t.TelexUrgentDays {
						severity = domain.SeverityUrgent
					}
					candidates = append(candidates, alertCandidate{
						EntityID:        sh.ID,
						EntityType:      "shipment",
						EntityReference: sh.ReferenceNumber,
						Severity:        severity,
						Title:           fmt.Sprintf("Telex overdue: %s", sh.ReferenceNumber),
						Message:         fmt.Sprintf("Shipment %s arrived %d days ago and has no telex release.", sh.ReferenceNumber, days),
						ActionRequired:  true,
						SuggestedAction: "Follow up with the shipping line to release the telex.",
					})
				}
				return candidates, nil
			},
			FixedSet: shipments.ListTelexReleasedIDs,
		},
		{
			Type:           AlertPaymentDueSoon,
			EntityType:     "payment",
			Direction:      resolveMissing,
			ResolutionNote: "Payment is no longer pending within the alert window.",
			Evaluate: func(ctx context.Context) ([]alertCandidate, error) {
				now := time.Now().UTC()
				cutoff := now.AddDate(0, 0, t.PaymentWindowDays)
				list, err := payments.ListPendingDueBefore(ctx, cutoff)
				if err != nil {
					return nil, err
				}
				candidates := make([]alertCandidate, 0, len(list))
				for _, p := range list {
					severity := domain.SeverityWarning
					title := fmt.Sprintf("Payment due soon: %s", p.Description)
					if p.PaymentDate.Before(now) {
						severity = domain.SeverityUrgent
						title = fmt.Sprintf("Payment overdue: %s", p.Description)
					}
					candidates = append(candidates, alertCandidate{
						EntityID:        p.ID,
						EntityType:      "payment",
						EntityReference: p.Description,
						Severity:        severity,
						Title:           title,
						Message:         fmt.Sprintf("Payment of %s %.2f is due on %s.", p.Currency, p.Amount, p.PaymentDate.Format("2006-01-02")),
						ActionRequired:  true,
						SuggestedAction: "Process the payment before its due date.",
					})
				}
				return candidates, nil
			},
		},
		{
			Type:           AlertLowMarginShipment,
			EntityType:     "shipment",
			Direction:      resolveMissing,
			ResolutionNote: "Shipment margin recovered above the alert threshold.",
			Evaluate: func(ctx context.Context) ([]alertCandidate, error) {
				list, err := shipments.ListLowMargin(ctx, t.LowMarginPercent)
				if err != nil {
					return nil, err
				}
				candidates := make([]alertCandidate, 0, len(list))
				for _, sh := range list {
					margin := 0.0
					if sh.ProfitMargin != nil {
						margin = *sh.ProfitMargin
					}
					severity := domain.SeverityInfo
					if margin < t.LowMarginWarning {
						severity = domain.SeverityWarning
					}
					candidates = append(candidates, alertCandidate{
						EntityID:        sh.ID,
						EntityType:      "shipment",
						EntityReference: sh.ReferenceNumber,
						Severity:        severity,
						Title:           fmt.Sprintf("Low margin shipment: %s", sh.ReferenceNumber),
						Message:         fmt.Sprintf("Shipment %s has a profit margin of %.1f%%.", sh.ReferenceNumber, margin),
						ActionRequired:  false,
						SuggestedAction: "Review the costs captured against this shipment for errors.",
					})
				}
				return candidates, nil
			},
		},
		{
			Type:           AlertStaleShipment,
			EntityType:     "shipment",
			Direction:      resolveMissing,
			ResolutionNote: "Shipment was updated.",
			Evaluate: func(ctx context.Context) ([]alertCandidate, error) {
				cutoff := time.Now().UTC().AddDate(0, 0, -t.StaleShipmentDays)
				list, err := shipments.ListStale(ctx, cutoff)
				if err != nil {
					return nil, err
				}
				candidates := make([]alertCandidate, 0, len(list))
				for _, sh := range list {
					candidates = append(candidates, alertCandidate{
						EntityID:        sh.ID,
						EntityType:      "shipment",
						EntityReference: sh.ReferenceNumber,
						Severity:        domain.SeverityInfo,
						Title:           fmt.Sprintf("Stale shipment: %s", sh.ReferenceNumber),
						Message:         fmt.Sprintf("Shipment %s (%s) has not been updated in %d days or more.", sh.ReferenceNumber, sh.Status, t.StaleShipmentDays),
						ActionRequired:  false,
						SuggestedAction: "Update the shipment status or close it out.",
					})
				}
				return candidates, nil
			},
		},
		{
			Type:           AlertMissingClientInvoice,
			EntityType:     "shipment",
			Direction:      resolveFixed,
			ResolutionNote: "Client invoice captured.",
			Evaluate: func(ctx context.Context) ([]alertCandidate, error) {
				list, err := shipments.ListDeliveredMissingInvoice(ctx)
				if err != nil {
					return nil, err
				}
				candidates := make([]alertCandidate, 0, len(list))
				for _, sh := range list {
					candidates = append(candidates, alertCandidate{
						EntityID:        sh.ID,
						EntityType:      "shipment",
						EntityReference: sh.ReferenceNumber,
						Severity:        domain.SeverityWarning,
						Title:           fmt.Sprintf("Missing client invoice: %s", sh.ReferenceNumber),
						Message:         fmt.Sprintf("Shipment %s is delivered but has no client invoice captured.", sh.ReferenceNumber),
						ActionRequired:  true,
						SuggestedAction: "Raise the client invoice for this delivered shipment.",
					})
				}
				return candidates, nil
			},
			FixedSet: shipments.ListInvoicedIDs,
		},
	}
}
