// Package cache stores serialized waterfall results keyed by input hash.
package cache

import "context"

// KeyPrefix namespaces waterfall entries in shared caches.
const KeyPrefix = "spv:waterfall:"

// ResultCache is a string key/value cache.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// Key returns the cache key for an input hash.
func Key(inputHash string) string {
	return KeyPrefix + inputHash
}
