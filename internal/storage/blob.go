// Package storage persists evidence blobs referenced by issue and
// initiative records. The registry stores opaque URLs; these stores
// resolve them to real bytes on disk or in S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore saves and removes evidence payloads. Put returns the URL
// to register on the record.
type BlobStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error)

	// Delete removes the blob behind url. Deleting a blob that is
	// already gone is not an error.
	Delete(ctx context.Context, url string) error
}

// DiskStore keeps blobs under a local root directory and returns URLs
// of the form <publicBase>/<key>.
type DiskStore struct {
	root       string
	publicBase string
}

func NewDiskStore(root, publicBase string) (*DiskStore, error) {
	if root == "" {
		return nil, fmt.Errorf("blob root directory required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &DiskStore{root: root, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (d *DiskStore) Put(_ context.Context, key string, _ string, body io.Reader) (string, error) {
	dest, err := d.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dest)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return d.publicBase + "/" + key, nil
}

func (d *DiskStore) Delete(_ context.Context, url string) error {
	key := strings.TrimPrefix(url, d.publicBase+"/")
	dest, err := d.resolve(key)
	if err != nil {
		return err
	}
	err = os.Remove(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// resolve rejects keys that would escape the root.
func (d *DiskStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	dest := filepath.Join(d.root, clean)
	if !strings.HasPrefix(dest, filepath.Clean(d.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return dest, nil
}
