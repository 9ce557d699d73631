package encoding

import (
	"fmt"
	"iter"
	"math"
	"unsafe"

	"github.com/arloliu/cscarchive/endian"
	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/internal/pool"
)

// Float64RawEncoder stores each float64 as its IEEE-754 bits in 8 bytes.
type Float64RawEncoder struct {
	engine endian.EndianEngine
	buf    *pool.ByteBuffer
	count  int
}

var _ ColumnarEncoder[float64] = (*Float64RawEncoder)(nil)

// NewFloat64RawEncoder creates a raw float64 encoder using the given byte order.
func NewFloat64RawEncoder(engine endian.EndianEngine) *Float64RawEncoder {
	return &Float64RawEncoder{
		engine: engine,
		buf:    pool.GetPayloadBuffer(),
	}
}

// Write encodes a single float64 value.
func (e *Float64RawEncoder) Write(v float64) {
	e.count++
	e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(v))
}

// WriteSlice encodes values, growing the buffer once up front.
func (e *Float64RawEncoder) WriteSlice(values []float64) {
	if len(values) == 0 {
		return
	}

	e.buf.Grow(len(values) * 8)
	for _, v := range values {
		e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(v))
	}
	e.count += len(values)
}

// Bytes returns the encoded payload.
func (e *Float64RawEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *Float64RawEncoder) Len() int {
	return e.count
}

// Size returns the payload size in bytes.
func (e *Float64RawEncoder) Size() int {
	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *Float64RawEncoder) Finish() {
	if e.buf != nil {
		pool.PutPayloadBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// Float64RawDecoder decodes payloads produced by Float64RawEncoder.
type Float64RawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[float64] = Float64RawDecoder{}

// NewFloat64RawDecoder creates a raw float64 decoder; engine must match the encoder's.
func NewFloat64RawDecoder(engine endian.EndianEngine) Float64RawDecoder {
	return Float64RawDecoder{engine: engine}
}

// All yields up to count values from data.
func (d Float64RawDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i := 0; i < count && (i+1)*8 <= len(data); i++ {
			if !yield(math.Float64frombits(d.engine.Uint64(data[i*8:]))) {
				return
			}
		}
	}
}

// Decode returns exactly count values.
func (d Float64RawDecoder) Decode(data []byte, count int) ([]float64, error) {
	if count < 0 || len(data) != count*8 {
		return nil, fmt.Errorf("%w: raw float64 payload has %d bytes, want %d", errs.ErrInvalidPayload, len(data), count*8)
	}

	out := make([]float64, count)
	if count == 0 {
		return out, nil
	}

	if endian.IsNative(d.engine) {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(data)), data)
		return out, nil
	}

	for i := range out {
		out[i] = math.Float64frombits(d.engine.Uint64(data[i*8:]))
	}

	return out, nil
}
