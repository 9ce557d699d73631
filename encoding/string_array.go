package encoding

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/internal/pool"
)

// StringArrayEncoder stores each string as a uvarint length followed by its bytes.
type StringArrayEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

var _ ColumnarEncoder[string] = (*StringArrayEncoder)(nil)

// NewStringArrayEncoder creates a length-prefixed string encoder.
func NewStringArrayEncoder() *StringArrayEncoder {
	return &StringArrayEncoder{
		buf: pool.GetPayloadBuffer(),
	}
}

// Write encodes a single string.
func (e *StringArrayEncoder) Write(s string) {
	e.count++
	e.buf.Grow(binary.MaxVarintLen64 + len(s))
	e.buf.B = binary.AppendUvarint(e.buf.B, uint64(len(s)))
	e.buf.B = append(e.buf.B, s...)
}

// WriteSlice encodes values in order.
func (e *StringArrayEncoder) WriteSlice(values []string) {
	total := 0
	for _, s := range values {
		total += binary.MaxVarintLen64 + len(s)
	}
	e.buf.Grow(total)

	for _, s := range values {
		e.buf.B = binary.AppendUvarint(e.buf.B, uint64(len(s)))
		e.buf.B = append(e.buf.B, s...)
	}
	e.count += len(values)
}

// Bytes returns the encoded payload.
func (e *StringArrayEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of encoded strings.
func (e *StringArrayEncoder) Len() int {
	return e.count
}

// Size returns the payload size in bytes.
func (e *StringArrayEncoder) Size() int {
	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *StringArrayEncoder) Finish() {
	if e.buf != nil {
		pool.PutPayloadBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// StringArrayDecoder decodes payloads produced by StringArrayEncoder.
type StringArrayDecoder struct{}

var _ ColumnarDecoder[string] = StringArrayDecoder{}

// NewStringArrayDecoder creates a length-prefixed string decoder.
func NewStringArrayDecoder() StringArrayDecoder {
	return StringArrayDecoder{}
}

// All yields up to count strings; it stops at the first malformed entry.
func (d StringArrayDecoder) All(data []byte, count int) iter.Seq[string] {
	return func(yield func(string) bool) {
		offset := 0
		for i := 0; i < count; i++ {
			s, next, ok := readString(data, offset)
			if !ok {
				return
			}
			offset = next
			if !yield(s) {
				return
			}
		}
	}
}

// Decode returns exactly count strings.
func (d StringArrayDecoder) Decode(data []byte, count int) ([]string, error) {
	if count < 0 || len(data) < count {
		return nil, fmt.Errorf("%w: string payload has %d bytes for %d elements", errs.ErrInvalidPayload, len(data), count)
	}

	out := make([]string, count)
	offset := 0
	for i := range out {
		s, next, ok := readString(data, offset)
		if !ok {
			return nil, fmt.Errorf("%w: malformed string at element %d", errs.ErrInvalidPayload, i)
		}
		out[i] = s
		offset = next
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d strings", errs.ErrInvalidPayload, len(data)-offset, count)
	}

	return out, nil
}

// readString reads one length-prefixed string starting at offset and returns
// it with the offset just past it.
func readString(data []byte, offset int) (string, int, bool) {
	if offset >= len(data) {
		return "", offset, false
	}

	length, n := binary.Uvarint(data[offset:])
	if n <= 0 {
		return "", offset, false
	}
	offset += n

	if length > uint64(len(data)-offset) {
		return "", offset, false
	}
	end := offset + int(length) //nolint:gosec

	return string(data[offset:end]), end, true
}
