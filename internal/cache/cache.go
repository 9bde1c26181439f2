package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Cache defines the interface for caching operations
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and a boolean indicating whether the key was found
	// and still valid
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache with the specified expiration
	// If expiration is 0, the item never expires
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all keys with the given prefix
	DeleteByPrefix(ctx context.Context, prefix string)

	// Flush removes all items from the cache
	Flush(ctx context.Context)
}

const keyVersion = "v1"

// CollectionPrefix returns the key prefix shared by every cached read of a
// collection, so invalidation can be scoped per collection when wanted.
func CollectionPrefix(collection string) string {
	return collection + ":" + keyVersion + ":"
}

// GenerateKey creates a deterministic cache key from a collection name, an
// optional record id, and query params. Params are serialized sorted by key
// so two logically identical reads always map to the same entry regardless
// of map iteration or insertion order.
func GenerateKey(collection string, id string, params map[string]string) string {
	var sb strings.Builder
	sb.WriteString(CollectionPrefix(collection))

	if id == "" {
		sb.WriteString("all")
	} else {
		sb.WriteString(id)
	}

	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("?")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString("&")
			}
			fmt.Fprintf(&sb, "%s=%s", k, params[k])
		}
	}

	return sb.String()
}
