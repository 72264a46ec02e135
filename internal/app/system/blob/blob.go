// Package blob stores uploaded binary assets (league logos, profile
// photos) behind a small interface with local-disk and S3 backends.
package blob

import (
	"context"
	"fmt"
)

// Store writes, removes, and addresses uploaded objects. Keys are
// slash-separated paths like "league-logos/<id>.png".
type Store interface {
	// Put uploads data under key and returns the public URL for it.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the object under key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for key without touching the backend.
	URL(key string) string
}

// Config selects and parameterizes the backend.
type Config struct {
	// Backend is "local" or "s3".
	Backend string

	// Local backend.
	LocalDir     string
	LocalBaseURL string

	// S3 backend.
	S3Region    string
	S3Bucket    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3BaseURL   string
}

// New builds the configured backend.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocal(cfg.LocalDir, cfg.LocalBaseURL)
	case "s3":
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}
