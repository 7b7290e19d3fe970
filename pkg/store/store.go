// Package store defines the narrow document-store contract the CRUD core
// depends on. Implementations live in subpackages; the core never touches a
// database client directly.
package store

import (
	"context"

	"github.com/shopfront/shopfront/pkg/entity"
	"github.com/shopfront/shopfront/pkg/query"
)

// Container exposes the per-collection operations of the document store.
// Implementations return errors.ErrNotFound / errors.ErrConflict (possibly
// wrapped) for the corresponding conditions and wrap anything else in a
// StoreError.
type Container interface {
	// Create inserts a new document keyed by its id. An existing document
	// with the same id is a conflict.
	Create(ctx context.Context, doc entity.Document) (entity.Document, error)
	// Read fetches a document by id.
	Read(ctx context.Context, id string) (entity.Document, error)
	// Upsert inserts or fully replaces a document keyed by its id.
	Upsert(ctx context.Context, doc entity.Document) (entity.Document, error)
	// Delete removes a document by id; a missing document is not found.
	Delete(ctx context.Context, id string) error
	// Query executes a list query and returns documents in the ordering the
	// spec requires.
	Query(ctx context.Context, spec query.Spec) ([]entity.Document, error)
}

// Store hands out containers by name.
type Store interface {
	Container(name string) Container
}
