// Package store provides the record store that every repository persists
// through: one serialized blob per fixed key, guarded by a revision counter.
package store

import (
	"context"
	"time"
)

// Blob is a stored value together with its revision.
// Revision 0 means the key has never been written (or was deleted).
type Blob struct {
	Data      []byte
	Revision  int64
	UpdatedAt time.Time
}

// Store reads and writes whole blobs by key.
//
// Write succeeds only when expectedRevision equals the current revision of
// the key (0 for an absent key) and returns the new revision. A stale
// expectation fails with a REVISION_CONFLICT error and changes nothing.
type Store interface {
	Read(ctx context.Context, key string) (Blob, bool, error)
	Write(ctx context.Context, key string, data []byte, expectedRevision int64) (int64, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}
