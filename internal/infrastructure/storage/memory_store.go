package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	financeapp "github.com/erp-obras/backend/internal/application/finance"
)

var _ financeapp.ObjectStorage = (*MemoryStore)(nil)

// MemoryStore is an in-process document store for development when no S3
// endpoint is configured. Issuing an upload URL counts as an upload.
type MemoryStore struct {
	baseURL string
	mu      sync.RWMutex
	keys    map[string]string // key -> content type
}

// NewMemoryStore creates a MemoryStore whose URLs point at baseURL
func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "http://localhost:9000/documents"
	}
	return &MemoryStore{baseURL: baseURL, keys: make(map[string]string)}
}

// GenerateUploadURL records the key and returns a fake upload URL
func (m *MemoryStore) GenerateUploadURL(_ context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	m.mu.Lock()
	m.keys[storageKey] = contentType
	m.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	return m.url("upload", storageKey, expiresAt), expiresAt, nil
}

// GenerateDownloadURL returns a fake download URL
func (m *MemoryStore) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	return m.url("download", storageKey, expiresAt), expiresAt, nil
}

// DeleteObject forgets the key
func (m *MemoryStore) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	delete(m.keys, storageKey)
	m.mu.Unlock()
	return nil
}

// ObjectExists reports whether an upload URL was issued for the key
func (m *MemoryStore) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, ErrEmptyKey
	}
	m.mu.RLock()
	_, ok := m.keys[storageKey]
	m.mu.RUnlock()
	return ok, nil
}

func (m *MemoryStore) url(op, key string, expiresAt time.Time) string {
	q := url.Values{}
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	return m.baseURL + "/" + op + "/" + key + "?" + q.Encode()
}
