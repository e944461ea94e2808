// Package storage wraps the S3-compatible object store that holds the
// uploaded documents. The rest of the server talks to the Gateway interface;
// the S3 implementation lives in s3.go.
package storage

import (
	"context"
	"io"
	"time"
)

// Entry is one listed object.
type Entry struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// Gateway is the object-storage capability: write, remove, list and
// time-limited signed-URL issuance for the configured bucket.
//
// Put must fail on a path collision instead of silently replacing the
// object; collisions are made vanishingly unlikely by the millisecond
// timestamp in the path, not structurally impossible.
type Gateway interface {
	Put(ctx context.Context, path string, body io.Reader, contentType string) error
	Remove(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]Entry, error)
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
