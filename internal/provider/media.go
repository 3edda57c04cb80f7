package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/ksuid"
)

// DiskMediaStore keeps uploaded objects on the local filesystem under
// ksuid-derived keys. It stands in for the real object storage behind the
// same MediaStore interface.
type DiskMediaStore struct {
	dir     string
	baseURL string
}

// NewDiskMediaStore creates the storage directory if needed.
func NewDiskMediaStore(dir, baseURL string) (*DiskMediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &DiskMediaStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload writes the object and returns its key and public URL.
func (s *DiskMediaStore) Upload(ctx context.Context, data []byte, filename, mimeType string) (string, string, error) {
	ext := filepath.Ext(filename)
	key := ksuid.New().String() + ext

	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", "", fmt.Errorf("write object: %w", err)
	}
	return key, s.baseURL + "/" + key, nil
}

// Delete removes the object; a missing object is not an error.
func (s *DiskMediaStore) Delete(ctx context.Context, key string) error {
	// Keys are ksuids we generated; reject anything path-like.
	if strings.ContainsAny(key, "/\\") {
		return fmt.Errorf("invalid object key")
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
