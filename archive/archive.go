package archive

import (
	"fmt"
	"iter"
	"slices"

	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/internal/options"
	"github.com/arloliu/cscarchive/section"
)

// Writer appends named entries to an archive.
type Writer interface {
	// Write stores v under key. Keys are unique within one archive.
	Write(key string, v Value) error
}

// Reader looks up named entries in an archive.
type Reader interface {
	// Read returns the value stored under key and whether it exists.
	Read(key string) (Value, bool)

	// Keys returns all keys in insertion order.
	Keys() []string
}

// Archive is an ordered, append-only collection of uniquely keyed values.
//
// Note: Archive is NOT thread-safe. Concurrent reads are safe only once all
// writes have completed.
type Archive struct {
	cfg    *Config
	keys   []string
	values map[string]Value
}

var (
	_ Writer = (*Archive)(nil)
	_ Reader = (*Archive)(nil)
)

// New creates an empty archive.
func New(opts ...Option) (*Archive, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return newWithConfig(cfg), nil
}

func newWithConfig(cfg *Config) *Archive {
	return &Archive{
		cfg:    cfg,
		values: make(map[string]Value),
	}
}

// Write stores a deep copy of v under key.
//
// It returns errs.ErrInvalidKey for an empty or overlong key,
// errs.ErrDuplicateKey if key is already present, errs.ErrValueTooLarge if v
// exceeds the configured limits and errs.ErrInvalidValue for a zero Value.
func (a *Archive) Write(key string, v Value) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", errs.ErrInvalidKey)
	}

	if len(key) > section.MaxKeyLength {
		return fmt.Errorf("%w: key of %d bytes exceeds %d", errs.ErrInvalidKey, len(key), section.MaxKeyLength)
	}

	if _, ok := a.values[key]; ok {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateKey, key)
	}

	if err := v.validate(a.cfg); err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}

	a.put(key, v.Clone())

	return nil
}

func (a *Archive) put(key string, v Value) {
	a.keys = append(a.keys, key)
	a.values[key] = v
}

// Read returns the value stored under key.
func (a *Archive) Read(key string) (Value, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Keys returns a copy of the keys in insertion order.
func (a *Archive) Keys() []string {
	return slices.Clone(a.keys)
}

// All yields entries in insertion order.
func (a *Archive) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, key := range a.keys {
			if !yield(key, a.values[key]) {
				return
			}
		}
	}
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.keys)
}

// Config returns the archive's encoding settings.
func (a *Archive) Config() Config {
	return *a.cfg
}

// Clone returns a deep copy of a, including its settings.
func (a *Archive) Clone() *Archive {
	cfg := *a.cfg
	out := newWithConfig(&cfg)
	for key, v := range a.All() {
		out.put(key, v.Clone())
	}

	return out
}

// Equal reports whether a and other hold the same keys, in the same order,
// with equal values. Encoding settings are not compared.
func (a *Archive) Equal(other *Archive) bool {
	if a == nil || other == nil {
		return a == other
	}

	if !slices.Equal(a.keys, other.keys) {
		return false
	}

	for key, v := range a.All() {
		if !v.Equal(other.values[key]) {
			return false
		}
	}

	return true
}
