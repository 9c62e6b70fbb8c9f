package domain

// QueueStatus represents the lifecycle of an extraction queue item.
type QueueStatus string

const (
	QueueStatusQueued      QueueStatus = "queued"
	QueueStatusProcessing  QueueStatus = "processing"
	QueueStatusCompleted   QueueStatus = "completed"
	QueueStatusNeedsReview QueueStatus = "needs_review"
	QueueStatusFailed      QueueStatus = "failed"
)

// AlertSeverity ranks how urgently an alert needs attention.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityUrgent   AlertSeverity = "urgent"
	SeverityCritical AlertSeverity = "critical"
)

// AlertStatus represents the lifecycle of a proactive alert.
type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "active"
	AlertStatusResolved AlertStatus = "resolved"
)

// Document types the extraction prompt classifies into. Downstream
// auto-action mapping pattern-matches on these exact strings.
const (
	DocTypeClearingAgentInvoice = "clearing_agent_invoice"
	DocTypeShippingInvoice      = "shipping_invoice"
	DocTypeTransportInvoice     = "transport_invoice"
	DocTypeSupplierInvoice      = "supplier_invoice"
	DocTypeTelexRelease         = "telex_release"
	DocTypeUnknown              = "unknown"
)

// ContentTypeByExtension maps a lowercase file extension (without dot) to
// the MIME type sent to the extraction API.
var ContentTypeByExtension = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// ContentTypeBinary is used when the extension is not recognized.
const ContentTypeBinary = "application/octet-stream"
