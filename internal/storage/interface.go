package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested object does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStore is the contract every storage backend implements: whole-object
// upsert by key, retrieval, prefix listing and deletion. A Store on an
// existing key replaces the object in a single write, which is what makes
// snapshot upserts atomic per key.
type ObjectStore interface {
	Store(ctx context.Context, key string, data []byte) error
	Retrieve(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}
