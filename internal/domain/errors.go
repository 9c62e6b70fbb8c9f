package domain

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrQueueItemNotFound = errors.New("extraction queue item not found")
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrAlertNotFound     = errors.New("alert not found")
	ErrItemNotQueued     = errors.New("queue item is not in a processable state")
	ErrDownloadFailed    = errors.New("file download from storage failed")
	ErrExtractionFailed  = errors.New("extraction service call failed")
)
