package encoding

import (
	"fmt"
	"iter"
	"unsafe"

	"github.com/arloliu/cscarchive/endian"
	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/internal/pool"
)

// Int64RawEncoder stores each int64 as 8 bytes in the configured byte order.
type Int64RawEncoder struct {
	engine endian.EndianEngine
	buf    *pool.ByteBuffer
	count  int
}

var _ ColumnarEncoder[int64] = (*Int64RawEncoder)(nil)

// NewInt64RawEncoder creates a raw int64 encoder using the given byte order.
func NewInt64RawEncoder(engine endian.EndianEngine) *Int64RawEncoder {
	return &Int64RawEncoder{
		engine: engine,
		buf:    pool.GetPayloadBuffer(),
	}
}

// Write encodes a single int64 value.
func (e *Int64RawEncoder) Write(v int64) {
	e.count++
	e.buf.B = e.engine.AppendUint64(e.buf.B, uint64(v)) //nolint:gosec
}

// WriteSlice encodes values, growing the buffer once up front.
func (e *Int64RawEncoder) WriteSlice(values []int64) {
	if len(values) == 0 {
		return
	}

	e.buf.Grow(len(values) * 8)
	for _, v := range values {
		e.buf.B = e.engine.AppendUint64(e.buf.B, uint64(v)) //nolint:gosec
	}
	e.count += len(values)
}

// Bytes returns the encoded payload.
func (e *Int64RawEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *Int64RawEncoder) Len() int {
	return e.count
}

// Size returns the payload size in bytes.
func (e *Int64RawEncoder) Size() int {
	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *Int64RawEncoder) Finish() {
	if e.buf != nil {
		pool.PutPayloadBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// Int64RawDecoder decodes payloads produced by Int64RawEncoder.
type Int64RawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[int64] = Int64RawDecoder{}

// NewInt64RawDecoder creates a raw int64 decoder; engine must match the encoder's.
func NewInt64RawDecoder(engine endian.EndianEngine) Int64RawDecoder {
	return Int64RawDecoder{engine: engine}
}

// All yields up to count values from data.
func (d Int64RawDecoder) All(data []byte, count int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for i := 0; i < count && (i+1)*8 <= len(data); i++ {
			if !yield(int64(d.engine.Uint64(data[i*8:]))) { //nolint:gosec
				return
			}
		}
	}
}

// Decode returns exactly count values.
//
// When the payload byte order matches the host, the bytes are copied in one
// block instead of converting element by element.
func (d Int64RawDecoder) Decode(data []byte, count int) ([]int64, error) {
	if count < 0 || len(data) != count*8 {
		return nil, fmt.Errorf("%w: raw int64 payload has %d bytes, want %d", errs.ErrInvalidPayload, len(data), count*8)
	}

	out := make([]int64, count)
	if count == 0 {
		return out, nil
	}

	if endian.IsNative(d.engine) {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(data)), data)
		return out, nil
	}

	for i := range out {
		out[i] = int64(d.engine.Uint64(data[i*8:])) //nolint:gosec
	}

	return out, nil
}
