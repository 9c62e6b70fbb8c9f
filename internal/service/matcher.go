package service

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cargoflow/internal/extractor"
	"cargoflow/internal/port"
)

// MatchedEntities holds the best-guess entity references resolved from
// extracted document fields. Every reference is optional: a document that
// matches nothing still flows through the pipeline.
type MatchedEntities struct {
	SupplierID        *uuid.UUID `json:"supplier_id"`
	ShipmentID        *uuid.UUID `json:"shipment_id"`
	ClientID          *uuid.UUID `json:"client_id"`
	ShipmentReference string     `json:"shipment_reference,omitempty"`
}

// EntityMatcher resolves extracted fields to supplier, shipment, and client
// records with case-insensitive substring lookups. First hit wins; there is
// no ranking, and an occasional false positive on shared name fragments is
// an accepted trade-off for simplicity.
type EntityMatcher struct {
	suppliers port.SupplierRepository
	shipments port.ShipmentRepository
	clients   port.ClientRepository
	logger    zerolog.Logger
}

// NewEntityMatcher creates an EntityMatcher over the given repositories.
func NewEntityMatcher(
	suppliers port.SupplierRepository,
	shipments port.ShipmentRepository,
	clients port.ClientRepository,
	logger zerolog.Logger,
) *EntityMatcher {
	return &EntityMatcher{
		suppliers: suppliers,
		shipments: shipments,
		clients:   clients,
		logger:    logger,
	}
}

// Match performs read-only lookups and never fails: lookup errors are logged
// and treated as no-match so a flaky query cannot block the pipeline.
func (m *EntityMatcher) Match(ctx context.Context, fields extractor.Fields) MatchedEntities {
	var matches MatchedEntities

	if fields.SupplierName != nil {
		cleaned := stripPunctuation(*fields.SupplierName)
		if cleaned != "" {
			supplier, err := m.suppliers.FindFirstByNameContains(ctx, cleaned)
			if err != nil {
				m.logger.Warn().Err(err).Str("fragment", cleaned).Msg("supplier lookup failed")
			} else if supplier != nil {
				matches.SupplierID = &supplier.ID
			}
		}
	}

	if fields.LotNumber != nil {
		if num := digitsOnly(*fields.LotNumber); num != "" {
			candidates := []string{num, "LOT " + num, "LOT" + num}
			shipment, err := m.shipments.FindFirstByReference(ctx, candidates)
			if err != nil {
				m.logger.Warn().Err(err).Str("lot", num).Msg("shipment lookup failed")
			} else if shipment != nil {
				matches.ShipmentID = &shipment.ID
				matches.ShipmentReference = shipment.ReferenceNumber
				// A shipment already knows its client.
				if shipment.ClientID != nil {
					matches.ClientID = shipment.ClientID
				}
			}
		}
	}

	if matches.ClientID == nil && fields.ClientName != nil {
		cleaned := stripPunctuation(*fields.ClientName)
		if cleaned != "" {
			client, err := m.clients.FindFirstByNameContains(ctx, cleaned)
			if err != nil {
				m.logger.Warn().Err(err).Str("fragment", cleaned).Msg("client lookup failed")
			} else if client != nil {
				matches.ClientID = &client.ID
			}
		}
	}

	return matches
}

// stripPunctuation keeps letters, digits, and spaces so names like
// "WINTEX (PTY) LTD." or "Müller GmbH." match their stored form.
func stripPunctuation(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
