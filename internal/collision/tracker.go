package collision

import (
	"fmt"
	"slices"

	"github.com/arloliu/cscarchive/errs"
)

// Tracker records archive keys by their hash while a container is encoded or
// decoded. It rejects repeated keys and counts hash collisions between
// distinct keys.
//
// A collision is not an error: every index entry also stores the key bytes,
// so lookups never depend on the hash alone.
type Tracker struct {
	keys       map[uint64][]string // hash → keys sharing it
	count      int
	collisions int
}

// NewTracker creates a tracker sized for capacity keys.
func NewTracker(capacity int) *Tracker {
	return &Tracker{keys: make(map[uint64][]string, capacity)}
}

// Track records key under hash.
//
// Returns errs.ErrInvalidKey for an empty key and errs.ErrDuplicateKey when
// the key was tracked before.
func (t *Tracker) Track(key string, hash uint64) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", errs.ErrInvalidKey)
	}

	bucket := t.keys[hash]
	if slices.Contains(bucket, key) {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateKey, key)
	}
	if len(bucket) > 0 {
		t.collisions++
	}

	t.keys[hash] = append(bucket, key)
	t.count++

	return nil
}

// HasCollision reports whether two distinct keys shared a hash.
func (t *Tracker) HasCollision() bool {
	return t.collisions > 0
}

// Collisions returns the number of keys whose hash was already taken.
func (t *Tracker) Collisions() int {
	return t.collisions
}

// Count returns the number of tracked keys.
func (t *Tracker) Count() int {
	return t.count
}

// Reset clears all tracked keys, keeping the map's capacity.
func (t *Tracker) Reset() {
	clear(t.keys)
	t.count = 0
	t.collisions = 0
}
