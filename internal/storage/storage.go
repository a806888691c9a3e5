package storage

import (
	"context"
	"io"
	"strings"
)

// Storage defines the interface for static file storage operations.
// Testimonial documents reference stored files by public URL; cleanup maps
// those URLs back to keys and deletes them.
type Storage interface {
	// Upload stores a file and returns the result with key and URL.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete removes a file by its key.
	Delete(ctx context.Context, key string) error

	// BatchDelete removes a set of files by key. It attempts every key and
	// returns the keys that failed alongside the last error; a partial
	// failure never aborts the remaining deletes.
	BatchDelete(ctx context.Context, keys []string) ([]string, error)

	// GetURL returns the public URL for the given key.
	GetURL(ctx context.Context, key string) (string, error)
}

// UploadInput holds the parameters for uploading a file.
type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadResult holds the result of a successful upload.
type UploadResult struct {
	Key string
	URL string
}

// KeyFromURL maps a public URL back to its storage key by stripping the
// public base URL prefix. URLs outside the base (external social images,
// video host thumbnails) yield ok=false and must not be deleted.
func KeyFromURL(baseURL, url string) (string, bool) {
	base := strings.TrimSuffix(baseURL, "/")
	if base == "" || url == "" {
		return "", false
	}

	if !strings.HasPrefix(url, base+"/") {
		return "", false
	}

	key := strings.TrimPrefix(url, base+"/")
	if key == "" {
		return "", false
	}

	return key, true
}
