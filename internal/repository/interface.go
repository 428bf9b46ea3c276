package repository

import (
	"context"
)

// KeyValueStore is the durable slot the triage state is persisted in.
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
