package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MockStorageService implements image storage using the local filesystem.
// Files are served back by the API under /files/{key}.
type MockStorageService struct {
	baseURL   string // Server URL (e.g., "http://localhost:8080")
	imagesDir string
}

// NewMockStorageService creates a new mock storage service
func NewMockStorageService(baseURL, uploadsDir string) (*MockStorageService, error) {
	imagesDir := filepath.Join(uploadsDir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}

	return &MockStorageService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		imagesDir: imagesDir,
	}, nil
}

// PutObject writes the body to the local filesystem
func (m *MockStorageService) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	return m.SaveFile(key, body)
}

// GeneratePresignedDownloadURL returns the API download URL of the key.
func (m *MockStorageService) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/files/%s", m.baseURL, strings.Join(segments, "/")), nil
}

// DeleteFile deletes file from local filesystem
func (m *MockStorageService) DeleteFile(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	err := os.Remove(m.GetLocalPath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SaveFile saves uploaded file to local filesystem
func (m *MockStorageService) SaveFile(key string, reader io.Reader) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	fullPath := m.GetLocalPath(key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadFile opens a file for reading (used by the file download handler)
func (m *MockStorageService) ReadFile(key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	file, err := os.Open(m.GetLocalPath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// GetLocalPath returns the filesystem path for a key
func (m *MockStorageService) GetLocalPath(key string) string {
	return filepath.Join(m.imagesDir, filepath.FromSlash(key))
}
