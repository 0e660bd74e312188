package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStorage persists signature and document artifacts and returns a URL
// the stored object can be fetched from.
type FileStorage interface {
	Save(ctx context.Context, data []byte, key string) (string, error)
}

// LocalFileStorage keeps artifacts on the local filesystem. Production
// deployments swap in an object-store implementation behind the same
// interface.
type LocalFileStorage struct {
	baseDir string
	baseURL string
}

func NewLocalFileStorage(baseDir, baseURL string) *LocalFileStorage {
	return &LocalFileStorage{baseDir: baseDir, baseURL: baseURL}
}

func (s *LocalFileStorage) Save(ctx context.Context, data []byte, key string) (string, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}
