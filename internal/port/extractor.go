package port

import "context"

// ExtractInput carries the document payload for an AI extraction call.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
}

// ExtractOutput contains the raw completion text from the extraction
// service. Parsing into structured fields happens downstream so a malformed
// completion can degrade instead of failing the call.
type ExtractOutput struct {
	Text      string
	ModelUsed string
}

// Extractor abstracts the external AI completion service.
type Extractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
