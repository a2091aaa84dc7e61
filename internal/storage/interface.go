package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

var ErrInvalidKey = errors.New("invalid storage key")

// StorageInterface defines the interface for image storage backends.
// Supports the mock (local filesystem) backend and S3 compatible stores.
type StorageInterface interface {
	// PutObject stores the body under key.
	PutObject(ctx context.Context, key, contentType string, body io.Reader) error

	// GeneratePresignedDownloadURL returns a URL the client can fetch the object from.
	// Backends without expiring URLs ignore expiresIn.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// DeleteFile removes the object. A missing object is not an error.
	DeleteFile(ctx context.Context, key string) error
}

// ValidateKey rejects empty keys, absolute keys and keys that climb out of
// the storage root.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return ErrInvalidKey
		}
	}
	return nil
}
