package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemoryStore is an in-process BlobStore for tests. DeleteErr, when
// set, is returned from every Delete call to exercise purge-failure
// paths.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	DeleteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Put(_ context.Context, key string, _ string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	url := "mem://" + key
	m.mu.Lock()
	m.blobs[url] = buf.Bytes()
	m.mu.Unlock()
	return url, nil
}

func (m *MemoryStore) Delete(_ context.Context, url string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	delete(m.blobs, url)
	m.mu.Unlock()
	return nil
}

// Has reports whether a blob is still stored.
func (m *MemoryStore) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[url]
	return ok
}
