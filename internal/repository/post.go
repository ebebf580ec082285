package repository

import (
	"context"

	"postsweeper/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

// PostRepository is the structured store holding the posts collection.
// It exposes whole-collection reads and delete-by-id only; filtering happens in the caller.
type PostRepository interface {
	// FetchAll returns a snapshot of the entire collection keyed by post ID.
	// It returns a nil map and no error when the collection does not exist.
	FetchAll(ctx context.Context) (map[string]model.Post, error)

	// Delete removes a post by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
