package service_test

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cargoflow/internal/config"
	"cargoflow/internal/domain"
	"cargoflow/internal/port"
	"cargoflow/internal/service"
	"cargoflow/mocks"
)

type pipelineFixture struct {
	queue    *mocks.MockQueueRepo
	storage  *mocks.MockObjectStorage
	ext      *mocks.MockExtractor
	notifier *mocks.MockNotifier
	costs    *mocks.MockShipmentCostRepo
	shipRepo *mocks.MockShipmentRepo
	svc      service.ExtractionService
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		queue:    new(mocks.MockQueueRepo),
		storage:  new(mocks.MockObjectStorage),
		ext:      new(mocks.MockExtractor),
		notifier: new(mocks.MockNotifier),
		costs:    new(mocks.MockShipmentCostRepo),
		shipRepo: new(mocks.MockShipmentRepo),
	}
	suppliers := new(mocks.MockSupplierRepo)
	clients := new(mocks.MockClientRepo)
	suppliers.On("FindFirstByNameContains", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	clients.On("FindFirstByNameContains", mock.Anything, mock.Anything).Return(nil, nil).Maybe()

	logger := zerolog.Nop()
	matcher := service.NewEntityMatcher(suppliers, f.shipRepo, clients, logger)
	applier := service.NewActionApplier(f.costs, f.shipRepo, pipelineConfig(), logger)
	f.svc = service.NewExtractionService(
		f.queue, f.storage, f.ext, matcher, applier, f.notifier,
		"test-bucket", pipelineConfig(), logger,
	)
	return f
}

func queuedItem(filePath string) *domain.ExtractionQueueItem {
	return &domain.ExtractionQueueItem{
		ID:       uuid.New(),
		FilePath: filePath,
		Status:   domain.QueueStatusQueued,
	}
}

func TestProcessQueueItem_HappyPath_Completed(t *testing.T) {
	f := newPipelineFixture()
	item := queuedItem("docs/lot42-telex.pdf")

	shipment := &domain.Shipment{ID: uuid.New(), ReferenceNumber: "LOT 42"}
	f.shipRepo.On("FindFirstByReference", mock.Anything, mock.Anything).Return(shipment, nil)
	f.shipRepo.On("SetTelexReleased", mock.Anything, shipment.ID, mock.AnythingOfType("time.Time")).Return(nil)

	f.queue.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	f.queue.On("Update", mock.Anything, item).Return(nil)
	f.storage.On("Download", mock.Anything, "test-bucket", "docs/lot42-telex.pdf").Return([]byte("%PDF-1.4"), nil)
	f.ext.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.ContentType == "application/pdf"
	})).Return(&port.ExtractOutput{
		Text: `{"document_type": "telex_release", "confidence": 0.95, "data": {"lot_number": "42"}}`,
	}, nil)
	f.notifier.On("Send", mock.Anything, mock.AnythingOfType("port.Notification")).Return(nil)

	result, err := f.svc.ProcessQueueItem(context.Background(), item.ID, "")

	require.NoError(t, err)
	assert.Equal(t, domain.QueueStatusCompleted, item.Status)
	assert.False(t, item.NeedsHumanReview)
	assert.Equal(t, "telex_release", item.DocumentType)
	assert.Equal(t, &shipment.ID, item.MatchedShipmentID)
	assert.NotNil(t, item.ProcessingCompletedAt)
	require.Len(t, result.AutoActions, 1)
	assert.Equal(t, "mark_telex_released", result.AutoActions[0].Action)
	f.shipRepo.AssertExpectations(t)
	f.queue.AssertExpectations(t)
}

func TestProcessQueueItem_LowConfidence_NeedsReview_NoWrites(t *testing.T) {
	f := newPipelineFixture()
	item := queuedItem("docs/blurry-scan.jpg")

	shipment := &domain.Shipment{ID: uuid.New(), ReferenceNumber: "LOT 9"}
	f.shipRepo.On("FindFirstByReference", mock.Anything, mock.Anything).Return(shipment, nil)

	f.queue.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	f.queue.On("Update", mock.Anything, item).Return(nil)
	f.storage.On("Download", mock.Anything, "test-bucket", "docs/blurry-scan.jpg").Return([]byte{0xFF, 0xD8}, nil)
	f.ext.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		Text: `{"document_type": "clearing_agent_invoice", "confidence": 0.4, "data": {"lot_number": "9", "amount": 5000}}`,
	}, nil)
	f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(n port.Notification) bool {
		return n.Type == "document_review"
	})).Return(nil)

	result, err := f.svc.ProcessQueueItem(context.Background(), item.ID, "")

	require.NoError(t, err)
	assert.Equal(t, domain.QueueStatusNeedsReview, item.Status)
	assert.True(t, item.NeedsHumanReview)
	// Matches are still recorded for the reviewer, but nothing is written.
	assert.Equal(t, &shipment.ID, item.MatchedShipmentID)
	assert.Empty(t, result.AutoActions)
	f.costs.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	f.notifier.AssertExpectations(t)
}

func TestProcessQueueItem_DownloadFailure_MarksFailed(t *testing.T) {
	f := newPipelineFixture()
	item := queuedItem("docs/missing.pdf")

	f.queue.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	f.queue.On("Update", mock.Anything, item).Return(nil)
	f.storage.On("Download", mock.Anything, "test-bucket", "docs/missing.pdf").
		Return(nil, errors.New("NoSuchKey"))

	_, err := f.svc.ProcessQueueItem(context.Background(), item.ID, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDownloadFailed)
	assert.Equal(t, domain.QueueStatusFailed, item.Status)
	require.NotNil(t, item.ErrorMessage)
	assert.Contains(t, *item.ErrorMessage, "NoSuchKey")
	f.ext.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestProcessQueueItem_ExtractionFailure_MarksFailed(t *testing.T) {
	f := newPipelineFixture()
	item := queuedItem("docs/doc.pdf")

	f.queue.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	f.queue.On("Update", mock.Anything, item).Return(nil)
	f.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte("x"), nil)
	f.ext.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("api overloaded"))

	_, err := f.svc.ProcessQueueItem(context.Background(), item.ID, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Equal(t, domain.QueueStatusFailed, item.Status)
	require.NotNil(t, item.ErrorMessage)
	assert.Contains(t, *item.ErrorMessage, "api overloaded")
}

func TestProcessQueueItem_AlreadyProcessing_Rejected(t *testing.T) {
	f := newPipelineFixture()
	item := queuedItem("docs/inflight.pdf")
	item.Status = domain.QueueStatusProcessing

	f.queue.On("GetByID", mock.Anything, item.ID).Return(item, nil)

	_, err := f.svc.ProcessQueueItem(context.Background(), item.ID, "")

	assert.ErrorIs(t, err, domain.ErrItemNotQueued)
	f.storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
	f.queue.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProcessQueueItem_GarbageCompletion_NeedsReviewNotFailed(t *testing.T) {
	f := newPipelineFixture()
	item := queuedItem("docs/odd.pdf")

	f.queue.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	f.queue.On("Update", mock.Anything, item).Return(nil)
	f.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte("x"), nil)
	f.ext.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		Text: "Sorry, I cannot read this document.",
	}, nil)
	f.notifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.ProcessQueueItem(context.Background(), item.ID, "")

	require.NoError(t, err)
	assert.Equal(t, domain.QueueStatusNeedsReview, item.Status)
	assert.Equal(t, domain.DocTypeUnknown, result.DocumentType)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestProcessQueueItem_NotificationFailure_DoesNotChangeStatus(t *testing.T) {
	f := newPipelineFixture()
	item := queuedItem("docs/low.pdf")

	f.queue.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	f.queue.On("Update", mock.Anything, item).Return(nil)
	f.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte("x"), nil)
	f.ext.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		Text: `{"document_type": "supplier_invoice", "confidence": 0.3, "data": {}}`,
	}, nil)
	f.notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("webhook down"))

	_, err := f.svc.ProcessQueueItem(context.Background(), item.ID, "")

	require.NoError(t, err)
	assert.Equal(t, domain.QueueStatusNeedsReview, item.Status)
	assert.Nil(t, item.ErrorMessage)
}

func TestProcessQueueItem_ReviewFloorHolds_WhenAutoThresholdLowered(t *testing.T) {
	queue := new(mocks.MockQueueRepo)
	storage := new(mocks.MockObjectStorage)
	ext := new(mocks.MockExtractor)
	notifier := new(mocks.MockNotifier)
	costs := new(mocks.MockShipmentCostRepo)
	shipRepo := new(mocks.MockShipmentRepo)
	suppliers := new(mocks.MockSupplierRepo)
	clients := new(mocks.MockClientRepo)

	cfg := config.PipelineConfig{AutoApplyThreshold: 0.2, ReviewThreshold: 0.5, RawTextCap: 10000}
	logger := zerolog.Nop()
	matcher := service.NewEntityMatcher(suppliers, shipRepo, clients, logger)
	applier := service.NewActionApplier(costs, shipRepo, cfg, logger)
	svc := service.NewExtractionService(queue, storage, ext, matcher, applier, notifier, "test-bucket", cfg, logger)

	item := queuedItem("docs/doc.pdf")
	queue.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	queue.On("Update", mock.Anything, item).Return(nil)
	storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte("x"), nil)
	ext.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		Text: `{"document_type": "supplier_invoice", "confidence": 0.4, "data": {}}`,
	}, nil)
	notifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.ProcessQueueItem(context.Background(), item.ID, "")

	require.NoError(t, err)
	assert.Equal(t, domain.QueueStatusNeedsReview, item.Status)
	costs.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestProcessQueueItem_RawTextCap_KeepsValidUTF8(t *testing.T) {
	queue := new(mocks.MockQueueRepo)
	storage := new(mocks.MockObjectStorage)
	ext := new(mocks.MockExtractor)
	notifier := new(mocks.MockNotifier)
	costs := new(mocks.MockShipmentCostRepo)
	shipRepo := new(mocks.MockShipmentRepo)
	suppliers := new(mocks.MockSupplierRepo)
	clients := new(mocks.MockClientRepo)

	cfg := config.PipelineConfig{AutoApplyThreshold: 0.85, ReviewThreshold: 0.5, RawTextCap: 5}
	logger := zerolog.Nop()
	matcher := service.NewEntityMatcher(suppliers, shipRepo, clients, logger)
	applier := service.NewActionApplier(costs, shipRepo, cfg, logger)
	svc := service.NewExtractionService(queue, storage, ext, matcher, applier, notifier, "test-bucket", cfg, logger)

	item := queuedItem("docs/dash.pdf")
	queue.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	queue.On("Update", mock.Anything, item).Return(nil)
	storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte("x"), nil)
	// The cap lands inside the three-byte en dash after "cost".
	ext.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		Text: "cost–total",
	}, nil)
	notifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.ProcessQueueItem(context.Background(), item.ID, "")

	require.NoError(t, err)
	assert.True(t, utf8.ValidString(item.RawText))
	assert.Equal(t, "cost", item.RawText)
}

func TestProcessQueueItem_UnknownItem_ReturnsError(t *testing.T) {
	f := newPipelineFixture()
	id := uuid.New()

	f.queue.On("GetByID", mock.Anything, id).Return(nil, domain.ErrQueueItemNotFound)

	_, err := f.svc.ProcessQueueItem(context.Background(), id, "")

	assert.ErrorIs(t, err, domain.ErrQueueItemNotFound)
}
