package domain

import (
	"context"
	"time"
)

// CacheRepository stores serialized term lookups
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DatasetSource provides the raw FoodKeeper JSON document
type DatasetSource interface {
	Read(ctx context.Context) ([]byte, error)
	Describe() string
}
