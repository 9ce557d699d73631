package archive

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/format"
)

// Value is a dynamically typed archive value. The zero Value has kind
// format.KindInvalid and cannot be written.
//
// Array and nested values returned by Read share storage with the archive;
// callers must treat them as read-only or Clone them first.
type Value struct {
	kind   format.ValueKind
	b      bool
	i      int64
	f      float64
	s      string
	ints   []int64
	floats []float64
	strs   []string
	nested *Archive
}

func NewBool(v bool) Value       { return Value{kind: format.KindBool, b: v} }
func NewInt64(v int64) Value     { return Value{kind: format.KindInt64, i: v} }
func NewFloat64(v float64) Value { return Value{kind: format.KindFloat64, f: v} }
func NewString(v string) Value   { return Value{kind: format.KindString, s: v} }

// NewInt64Array wraps v without copying. A nil v is stored as an empty array.
func NewInt64Array(v []int64) Value {
	if v == nil {
		v = []int64{}
	}

	return Value{kind: format.KindInt64Array, ints: v}
}

// NewFloat64Array wraps v without copying. A nil v is stored as an empty array.
func NewFloat64Array(v []float64) Value {
	if v == nil {
		v = []float64{}
	}

	return Value{kind: format.KindFloat64Array, floats: v}
}

// NewStringArray wraps v without copying. A nil v is stored as an empty array.
func NewStringArray(v []string) Value {
	if v == nil {
		v = []string{}
	}

	return Value{kind: format.KindStringArray, strs: v}
}

// NewNested wraps a nested archive.
func NewNested(a *Archive) Value {
	return Value{kind: format.KindArchive, nested: a}
}

// Kind returns the value's tag.
func (v Value) Kind() format.ValueKind {
	return v.kind
}

// Len returns the element count of arrays and the entry count of nested
// archives. Scalars report 0.
func (v Value) Len() int {
	switch v.kind { //nolint:exhaustive
	case format.KindInt64Array:
		return len(v.ints)
	case format.KindFloat64Array:
		return len(v.floats)
	case format.KindStringArray:
		return len(v.strs)
	case format.KindArchive:
		if v.nested == nil {
			return 0
		}

		return v.nested.Len()
	default:
		return 0
	}
}

func (v Value) mismatch(want format.ValueKind) error {
	return fmt.Errorf("%w: want %s, got %s", errs.ErrTypeMismatch, want, v.kind)
}

func (v Value) AsBool() (bool, error) {
	if v.kind != format.KindBool {
		return false, v.mismatch(format.KindBool)
	}

	return v.b, nil
}

func (v Value) AsInt64() (int64, error) {
	if v.kind != format.KindInt64 {
		return 0, v.mismatch(format.KindInt64)
	}

	return v.i, nil
}

func (v Value) AsFloat64() (float64, error) {
	if v.kind != format.KindFloat64 {
		return 0, v.mismatch(format.KindFloat64)
	}

	return v.f, nil
}

func (v Value) AsString() (string, error) {
	if v.kind != format.KindString {
		return "", v.mismatch(format.KindString)
	}

	return v.s, nil
}

// AsInt64Array returns the backing slice; it must not be modified.
func (v Value) AsInt64Array() ([]int64, error) {
	if v.kind != format.KindInt64Array {
		return nil, v.mismatch(format.KindInt64Array)
	}

	return v.ints, nil
}

// AsFloat64Array returns the backing slice; it must not be modified.
func (v Value) AsFloat64Array() ([]float64, error) {
	if v.kind != format.KindFloat64Array {
		return nil, v.mismatch(format.KindFloat64Array)
	}

	return v.floats, nil
}

// AsStringArray returns the backing slice; it must not be modified.
func (v Value) AsStringArray() ([]string, error) {
	if v.kind != format.KindStringArray {
		return nil, v.mismatch(format.KindStringArray)
	}

	return v.strs, nil
}

func (v Value) AsArchive() (*Archive, error) {
	if v.kind != format.KindArchive {
		return nil, v.mismatch(format.KindArchive)
	}

	return v.nested, nil
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	out := v
	switch v.kind { //nolint:exhaustive
	case format.KindInt64Array:
		out.ints = append([]int64{}, v.ints...)
	case format.KindFloat64Array:
		out.floats = append([]float64{}, v.floats...)
	case format.KindStringArray:
		out.strs = append([]string{}, v.strs...)
	case format.KindArchive:
		if v.nested != nil {
			out.nested = v.nested.Clone()
		}
	}

	return out
}

// Equal reports whether v and other have the same kind and contents.
// Floats compare by bit pattern, so NaN equals an identical NaN.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case format.KindBool:
		return v.b == other.b
	case format.KindInt64:
		return v.i == other.i
	case format.KindFloat64:
		return math.Float64bits(v.f) == math.Float64bits(other.f)
	case format.KindString:
		return v.s == other.s
	case format.KindInt64Array:
		return slices.Equal(v.ints, other.ints)
	case format.KindFloat64Array:
		return slices.EqualFunc(v.floats, other.floats, func(a, b float64) bool {
			return math.Float64bits(a) == math.Float64bits(b)
		})
	case format.KindStringArray:
		return slices.Equal(v.strs, other.strs)
	case format.KindArchive:
		return v.nested.Equal(other.nested)
	default:
		return true
	}
}

// String renders scalars in full and arrays as kind and length.
func (v Value) String() string {
	switch v.kind {
	case format.KindBool:
		return fmt.Sprintf("%t", v.b)
	case format.KindInt64:
		return fmt.Sprintf("%d", v.i)
	case format.KindFloat64:
		return fmt.Sprintf("%g", v.f)
	case format.KindString:
		return fmt.Sprintf("%q", v.s)
	case format.KindInt64Array, format.KindFloat64Array, format.KindStringArray, format.KindArchive:
		return fmt.Sprintf("%s[%d]", v.kind, v.Len())
	default:
		return "<invalid>"
	}
}

// validate checks that v can be stored under cfg limits.
func (v Value) validate(cfg *Config) error {
	switch v.kind {
	case format.KindBool, format.KindInt64, format.KindFloat64:
		return nil
	case format.KindString:
		if uint64(len(v.s)) > maxValueBytes {
			return fmt.Errorf("%w: string of %d bytes", errs.ErrValueTooLarge, len(v.s))
		}

		return nil
	case format.KindInt64Array, format.KindFloat64Array, format.KindStringArray:
		if n := v.Len(); n > cfg.maxArrayLength {
			return fmt.Errorf("%w: %s of %d elements exceeds %d", errs.ErrValueTooLarge, v.kind, n, cfg.maxArrayLength)
		}

		return nil
	case format.KindArchive:
		if v.nested == nil {
			return fmt.Errorf("%w: nil nested archive", errs.ErrInvalidValue)
		}

		return nil
	default:
		return fmt.Errorf("%w: kind %s", errs.ErrInvalidValue, v.kind)
	}
}
