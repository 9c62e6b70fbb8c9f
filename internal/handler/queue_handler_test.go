package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cargoflow/internal/domain"
	"cargoflow/internal/handler"
	"cargoflow/internal/service"
	"cargoflow/mocks"
)

func newQueueHandler() (*handler.QueueHandler, *mocks.MockExtractionService) {
	mockSvc := new(mocks.MockExtractionService)
	h := handler.NewQueueHandler(mockSvc)
	return h, mockSvc
}

func TestQueueHandler_Process_Success(t *testing.T) {
	h, mockSvc := newQueueHandler()

	id := uuid.New()
	mockSvc.On("ProcessQueueItem", mock.Anything, id, "").Return(&service.ProcessResult{
		DocumentType: "telex_release",
		Confidence:   0.95,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/queue/"+id.String()+"/process", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Process(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	mockSvc.AssertExpectations(t)
}

func TestQueueHandler_Process_FilePathOverride(t *testing.T) {
	h, mockSvc := newQueueHandler()

	id := uuid.New()
	mockSvc.On("ProcessQueueItem", mock.Anything, id, "docs/corrected.pdf").
		Return(&service.ProcessResult{DocumentType: "supplier_invoice"}, nil)

	body := bytes.NewBufferString(`{"file_path": "docs/corrected.pdf"}`)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/queue/"+id.String()+"/process", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Process(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestQueueHandler_Process_InvalidID(t *testing.T) {
	h, mockSvc := newQueueHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/queue/abc/process", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Process(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "ProcessQueueItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestQueueHandler_Process_DownloadFailure_BadGateway(t *testing.T) {
	h, mockSvc := newQueueHandler()

	id := uuid.New()
	mockSvc.On("ProcessQueueItem", mock.Anything, id, "").
		Return(nil, fmt.Errorf("processing queue item %s: %w", id, domain.ErrDownloadFailed))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/queue/"+id.String()+"/process", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Process(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DOWNLOAD_FAILED", resp.Error.Code)
}

func TestQueueHandler_Process_AlreadyProcessing_Conflict(t *testing.T) {
	h, mockSvc := newQueueHandler()

	id := uuid.New()
	mockSvc.On("ProcessQueueItem", mock.Anything, id, "").
		Return(nil, fmt.Errorf("queue item %s: %w", id, domain.ErrItemNotQueued))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/queue/"+id.String()+"/process", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Process(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestQueueHandler_Process_ItemNotFound(t *testing.T) {
	h, mockSvc := newQueueHandler()

	id := uuid.New()
	mockSvc.On("ProcessQueueItem", mock.Anything, id, "").Return(nil, domain.ErrQueueItemNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/queue/"+id.String()+"/process", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Process(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
