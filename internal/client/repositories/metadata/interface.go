// Package metadata is the key/value table behind the session store.
//
// Values are opaque byte blobs; callers decide encoding (plain or sealed).
// A missing key is not an error: Get returns (nil, nil).
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
