package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint derives a stable cache key from arbitrary query text.
// Same text always yields the same key; distinct texts collide only with
// the usual 64-bit hash probability, which is acceptable for cache slots.
func Fingerprint(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}
