package port

import "context"

// ObjectStorage abstracts the document bucket. Queue items store the object
// key; the bucket itself comes from configuration.
type ObjectStorage interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
