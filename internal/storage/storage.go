// Package storage abstracts binary asset persistence behind a small Store
// interface with local-disk and S3-compatible backends.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound reports that no object exists under the requested key.
// Callers must never retry on it; the asset is gone, not unreachable.
var ErrNotFound = errors.New("storage: object not found")

// Store reads and writes binary assets by key. Keys may contain slashes
// ("covers/<uuid>"); backends treat them as opaque paths.
type Store interface {
	Put(ctx context.Context, key string, content io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}
