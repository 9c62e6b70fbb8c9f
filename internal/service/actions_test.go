package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cargoflow/internal/config"
	"cargoflow/internal/domain"
	"cargoflow/internal/extractor"
	"cargoflow/internal/port"
	"cargoflow/internal/service"
	"cargoflow/mocks"
)

func floatPtr(f float64) *float64 { return &f }

func pipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{AutoApplyThreshold: 0.85, ReviewThreshold: 0.5, RawTextCap: 10000}
}

func newApplier(costs *mocks.MockShipmentCostRepo, shipments *mocks.MockShipmentRepo) *service.ActionApplier {
	return service.NewActionApplier(costs, shipments, pipelineConfig(), zerolog.Nop())
}

func TestApply_BelowThreshold_NoWrites(t *testing.T) {
	costs := new(mocks.MockShipmentCostRepo)
	shipments := new(mocks.MockShipmentRepo)
	shipmentID := uuid.New()

	actions, err := newApplier(costs, shipments).Apply(
		context.Background(),
		domain.DocTypeClearingAgentInvoice,
		extractor.Fields{Amount: floatPtr(100)},
		service.MatchedEntities{ShipmentID: &shipmentID},
		0.7,
	)

	assert.NoError(t, err)
	assert.Empty(t, actions)
	costs.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestApply_NoShipmentMatch_NoWrites(t *testing.T) {
	costs := new(mocks.MockShipmentCostRepo)
	shipments := new(mocks.MockShipmentRepo)

	actions, err := newApplier(costs, shipments).Apply(
		context.Background(),
		domain.DocTypeClearingAgentInvoice,
		extractor.Fields{Amount: floatPtr(100)},
		service.MatchedEntities{},
		0.95,
	)

	assert.NoError(t, err)
	assert.Empty(t, actions)
	costs.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestApply_ClearingAgentInvoice(t *testing.T) {
	costs := new(mocks.MockShipmentCostRepo)
	shipments := new(mocks.MockShipmentRepo)
	shipmentID := uuid.New()

	var captured *domain.ShipmentCost
	costs.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.ShipmentCost")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*domain.ShipmentCost) }).
		Return(nil)

	actions, err := newApplier(costs, shipments).Apply(
		context.Background(),
		domain.DocTypeClearingAgentInvoice,
		extractor.Fields{
			Amount:      floatPtr(5000),
			CustomsDuty: floatPtr(1200),
			CustomsVAT:  floatPtr(750),
			CargoDues:   floatPtr(300),
		},
		service.MatchedEntities{ShipmentID: &shipmentID},
		0.9,
	)

	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "update_clearing_costs", actions[0].Action)
	assert.Equal(t, shipmentID, actions[0].ShipmentID)

	require.NotNil(t, captured)
	assert.Equal(t, shipmentID, captured.ShipmentID)
	assert.Equal(t, floatPtr(1200), captured.CustomsDuty)
	assert.Equal(t, floatPtr(5000), captured.ClearingCost)
	// Fields the document did not carry stay nil so the upsert cannot clobber them.
	assert.Nil(t, captured.ContainerLanding)
	assert.Nil(t, captured.AgencyFee)
}

func TestApply_ShippingInvoice_WithDetailsPatch(t *testing.T) {
	costs := new(mocks.MockShipmentCostRepo)
	shipments := new(mocks.MockShipmentRepo)
	shipmentID := uuid.New()

	costs.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.ShipmentCost")).Return(nil)

	var patch port.ShipmentDetailsPatch
	shipments.On("PatchDetails", mock.Anything, shipmentID, mock.AnythingOfType("port.ShipmentDetailsPatch")).
		Run(func(args mock.Arguments) { patch = args.Get(2).(port.ShipmentDetailsPatch) }).
		Return(nil)

	actions, err := newApplier(costs, shipments).Apply(
		context.Background(),
		domain.DocTypeShippingInvoice,
		extractor.Fields{
			Amount:          floatPtr(25000),
			OceanFreightUSD: floatPtr(1300),
			ROE:             floatPtr(18.4),
			VesselName:      strPtr("MSC AURORA"),
			BLNumber:        strPtr("MEDUXYZ123"),
		},
		service.MatchedEntities{ShipmentID: &shipmentID},
		0.91,
	)

	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "update_shipping_costs", actions[0].Action)
	assert.Equal(t, "update_shipment_details", actions[1].Action)
	assert.Equal(t, strPtr("MSC AURORA"), patch.VesselName)
	assert.Equal(t, strPtr("MEDUXYZ123"), patch.BLNumber)
	assert.Nil(t, patch.ETA)
}

func TestApply_ShippingInvoice_NoDetailFields_SingleAction(t *testing.T) {
	costs := new(mocks.MockShipmentCostRepo)
	shipments := new(mocks.MockShipmentRepo)
	shipmentID := uuid.New()

	costs.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.ShipmentCost")).Return(nil)

	actions, err := newApplier(costs, shipments).Apply(
		context.Background(),
		domain.DocTypeShippingInvoice,
		extractor.Fields{Amount: floatPtr(25000)},
		service.MatchedEntities{ShipmentID: &shipmentID},
		0.91,
	)

	require.NoError(t, err)
	require.Len(t, actions, 1)
	shipments.AssertNotCalled(t, "PatchDetails", mock.Anything, mock.Anything, mock.Anything)
}

func TestApply_TransportInvoice(t *testing.T) {
	costs := new(mocks.MockShipmentCostRepo)
	shipments := new(mocks.MockShipmentRepo)
	shipmentID := uuid.New()

	var captured *domain.ShipmentCost
	costs.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.ShipmentCost")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*domain.ShipmentCost) }).
		Return(nil)

	actions, err := newApplier(costs, shipments).Apply(
		context.Background(),
		domain.DocTypeTransportInvoice,
		extractor.Fields{
			Amount:        floatPtr(8200),
			TransportCost: floatPtr(7500),
			GIMSurcharge:  floatPtr(700),
		},
		service.MatchedEntities{ShipmentID: &shipmentID},
		0.88,
	)

	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "update_transport_costs", actions[0].Action)
	assert.Equal(t, floatPtr(7500), captured.TransportCost)
	assert.Equal(t, floatPtr(700), captured.TransportSurcharges)
	assert.Equal(t, floatPtr(8200), captured.TransportTotal)
}

func TestApply_SupplierInvoice_DefaultsCurrencyUSD(t *testing.T) {
	costs := new(mocks.MockShipmentCostRepo)
	shipments := new(mocks.MockShipmentRepo)
	shipmentID := uuid.New()

	var captured *domain.ShipmentCost
	costs.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.ShipmentCost")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*domain.ShipmentCost) }).
		Return(nil)

	actions, err := newApplier(costs, shipments).Apply(
		context.Background(),
		domain.DocTypeSupplierInvoice,
		extractor.Fields{Amount: floatPtr(18000)},
		service.MatchedEntities{ShipmentID: &shipmentID},
		0.9,
	)

	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "update_supplier_cost", actions[0].Action)
	assert.Equal(t, floatPtr(18000), captured.SupplierCost)
	require.NotNil(t, captured.SourceCurrency)
	assert.Equal(t, "USD", *captured.SourceCurrency)
}

func TestApply_TelexRelease(t *testing.T) {
	costs := new(mocks.MockShipmentCostRepo)
	shipments := new(mocks.MockShipmentRepo)
	shipmentID := uuid.New()

	shipments.On("SetTelexReleased", mock.Anything, shipmentID, mock.AnythingOfType("time.Time")).Return(nil)

	actions, err := newApplier(costs, shipments).Apply(
		context.Background(),
		domain.DocTypeTelexRelease,
		extractor.Fields{},
		service.MatchedEntities{ShipmentID: &shipmentID},
		0.95,
	)

	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "mark_telex_released", actions[0].Action)
	assert.Equal(t, true, actions[0].Fields["telex_released"])
	shipments.AssertExpectations(t)
	costs.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestApply_UnknownDocumentType_NoWrites(t *testing.T) {
	costs := new(mocks.MockShipmentCostRepo)
	shipments := new(mocks.MockShipmentRepo)
	shipmentID := uuid.New()

	actions, err := newApplier(costs, shipments).Apply(
		context.Background(),
		domain.DocTypeUnknown,
		extractor.Fields{Amount: floatPtr(100)},
		service.MatchedEntities{ShipmentID: &shipmentID},
		0.99,
	)

	assert.NoError(t, err)
	assert.Empty(t, actions)
	costs.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
