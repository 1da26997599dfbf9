// Package metadata is the durable key/value store of the client: session
// token, remembered reset code and user preferences live here.
package metadata

import (
	"context"
	"time"
)

// Repository stores opaque values by key. Keys written with SetWithExpiry
// disappear from Get and List once their deadline has passed.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithExpiry(ctx context.Context, key string, value []byte, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	PurgeExpired(ctx context.Context) (int64, error)
}
