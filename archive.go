package vigie

import (
	"context"
	"io"
)

// ArchiveStore defines operations for archiving raw import payloads.
// Archiving exists for traceability; import succeeds even when it fails.
type ArchiveStore interface {
	// Put stores a blob under the given key and returns its URL.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) (url string, err error)

	// Delete removes a blob. Returns nil if the blob doesn't exist.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for a stored blob.
	URL(key string) string

	// Exists checks whether a blob exists.
	Exists(ctx context.Context, key string) (bool, error)
}

// ArchiveConfig holds configuration for the archive store.
type ArchiveConfig struct {
	// Provider is the archive provider ("local", "s3", or "none").
	Provider string

	// Local storage configuration
	LocalPath string
	LocalURL  string

	// S3 storage configuration
	S3Bucket  string
	S3Region  string
	S3BaseURL string
}
