// Package hash wraps xxHash64 for archive key lookups and payload checksums.
package hash

import "github.com/cespare/xxhash/v2"

// Key computes the xxHash64 of an archive entry key.
func Key(key string) uint64 {
	return xxhash.Sum64String(key)
}

// Checksum computes the xxHash64 over the concatenation of the given sections.
func Checksum(sections ...[]byte) uint64 {
	d := xxhash.New()
	for _, s := range sections {
		_, _ = d.Write(s)
	}

	return d.Sum64()
}
