package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get for a key that has no value.
var ErrNotFound = errors.New("session: key not found")

// Store is the client-local key-value store holding login identifiers.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
