package storage

import (
	"context"
	"errors"
)

// Package storage contains object storage abstractions for S3-compatible blob stores.

// ErrBucketMissing is returned when the configured bucket does not exist.
var ErrBucketMissing = errors.New("bucket does not exist")

// Storage is the blob store the sweeper removes media objects from.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
