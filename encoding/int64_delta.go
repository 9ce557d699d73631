package encoding

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/internal/pool"
)

// Int64DeltaEncoder stores the first value and then each difference to the
// previous value, all zigzag + varint encoded.
//
// Typical sizes:
//   - indptr of a graph with degrees below 64: 1 byte per element
//   - sorted neighbor ids with small gaps: 1-2 bytes per element
//   - random values: up to 10 bytes per element
//
// The encoding is byte-order independent.
type Int64DeltaEncoder struct {
	prev  int64
	temp  [binary.MaxVarintLen64]byte
	buf   *pool.ByteBuffer
	count int
}

var _ ColumnarEncoder[int64] = (*Int64DeltaEncoder)(nil)

// NewInt64DeltaEncoder creates a delta int64 encoder.
func NewInt64DeltaEncoder() *Int64DeltaEncoder {
	return &Int64DeltaEncoder{
		buf: pool.GetPayloadBuffer(),
	}
}

// Write encodes a single value as the zigzag varint of its delta.
// The first value is encoded as a delta from zero.
func (e *Int64DeltaEncoder) Write(v int64) {
	delta := v - e.prev
	e.prev = v
	e.count++

	n := binary.PutUvarint(e.temp[:], zigzag(delta))
	e.buf.MustWrite(e.temp[:n])
}

// WriteSlice encodes values, reserving one byte per value up front.
func (e *Int64DeltaEncoder) WriteSlice(values []int64) {
	if len(values) == 0 {
		return
	}

	e.buf.Grow(len(values))
	for _, v := range values {
		delta := v - e.prev
		e.prev = v

		u := zigzag(delta)
		if u < 0x80 {
			e.buf.B = append(e.buf.B, byte(u))
			continue
		}
		e.buf.B = binary.AppendUvarint(e.buf.B, u)
	}
	e.count += len(values)
}

// Bytes returns the encoded payload.
func (e *Int64DeltaEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *Int64DeltaEncoder) Len() int {
	return e.count
}

// Size returns the payload size in bytes.
func (e *Int64DeltaEncoder) Size() int {
	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *Int64DeltaEncoder) Finish() {
	if e.buf != nil {
		pool.PutPayloadBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
	e.prev = 0
}

// Int64DeltaDecoder decodes payloads produced by Int64DeltaEncoder.
type Int64DeltaDecoder struct{}

var _ ColumnarDecoder[int64] = Int64DeltaDecoder{}

// NewInt64DeltaDecoder creates a delta int64 decoder.
func NewInt64DeltaDecoder() Int64DeltaDecoder {
	return Int64DeltaDecoder{}
}

// All yields up to count values; it stops at the first malformed varint.
func (d Int64DeltaDecoder) All(data []byte, count int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		var cur int64
		offset := 0
		for i := 0; i < count && offset < len(data); i++ {
			u, n := binary.Uvarint(data[offset:])
			if n <= 0 {
				return
			}
			offset += n
			cur += unzigzag(u)
			if !yield(cur) {
				return
			}
		}
	}
}

// Decode returns exactly count values. Trailing bytes after the last value
// are treated as corruption.
func (d Int64DeltaDecoder) Decode(data []byte, count int) ([]int64, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative element count %d", errs.ErrInvalidPayload, count)
	}
	// Every element takes at least one byte.
	if len(data) < count {
		return nil, fmt.Errorf("%w: delta payload has %d bytes for %d elements", errs.ErrInvalidPayload, len(data), count)
	}

	out := make([]int64, count)
	var cur int64
	offset := 0
	for i := range out {
		u, n := binary.Uvarint(data[offset:])
		if n <= 0 {
			return nil, fmt.Errorf("%w: malformed varint at element %d", errs.ErrInvalidPayload, i)
		}
		offset += n
		cur += unzigzag(u)
		out[i] = cur
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d elements", errs.ErrInvalidPayload, len(data)-offset, count)
	}

	return out, nil
}

func zigzag(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1) //nolint:gosec
}
