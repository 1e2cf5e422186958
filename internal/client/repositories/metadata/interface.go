package metadata

import (
	"context"
)

// Repository is a small key/value store for client state that is not a story:
// the auth token, refresh flags, and similar bits the web version kept in
// localStorage.
type Repository interface {
	// Get returns nil without error when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
