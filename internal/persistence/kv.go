package persistence

import (
	"context"
	"errors"
)

// Keys under which client state is persisted. Absence of either key is a
// normal, expected state.
const (
	KeyCredential = "credential"
	KeyTenant     = "tenant"
)

// ErrNotFound is returned when a key has no persisted value.
var ErrNotFound = errors.New("key not found")

// KV persists client state (current credential, explicit tenant choice)
// across process restarts.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
