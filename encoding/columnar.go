package encoding

import "iter"

// ColumnarEncoder appends values of type T to an internal payload buffer.
type ColumnarEncoder[T any] interface {
	// Write encodes a single value.
	Write(v T)

	// WriteSlice encodes values in order. It is faster than repeated Write calls.
	WriteSlice(values []T)

	// Bytes returns the encoded payload. The slice is valid until the next
	// Write, WriteSlice or Finish call and must not be modified.
	Bytes() []byte

	// Len returns the number of encoded values.
	Len() int

	// Size returns the payload size in bytes.
	Size() int

	// Finish returns the buffer to the pool. The encoder is unusable afterwards.
	Finish()
}

// ColumnarDecoder decodes payloads produced by the matching ColumnarEncoder.
type ColumnarDecoder[T any] interface {
	// All yields up to count decoded values. On malformed data it stops early.
	All(data []byte, count int) iter.Seq[T]

	// Decode returns exactly count values in a freshly allocated slice, or an
	// error wrapping errs.ErrInvalidPayload if data does not hold exactly count values.
	Decode(data []byte, count int) ([]T, error)
}
