package ports

import "context"

// ParamStore persists serialized settings records by key.
// Get returns a NotFound error for missing keys.
type ParamStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}
