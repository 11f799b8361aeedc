// Package cache memoizes computed results by a hash of their inputs.
package cache

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

// Cache stores opaque values by key. Implementations must be safe for
// concurrent use. A failed Get is reported as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// Key derives a cache key from namespace and the JSON encoding of v.
// Map keys are encoded sorted, so equal inputs always hash the same.
func Key(namespace string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	return fmt.Sprintf("%s:%016x", namespace, xxhash.Sum64(b)), nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (Nop) Set(context.Context, string, []byte) error { return nil }
