package encoding

import (
	"fmt"
	"iter"
	"math"
	"math/bits"

	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/internal/pool"
)

// Float64GorillaEncoder compresses float64 values with the XOR scheme from
// Facebook's Gorilla paper (https://www.vldb.org/pvldb/vol8/p1816-teller.pdf).
//
// The bit stream is written most significant bit first:
//   - first value: 64 raw bits
//   - unchanged value: '0'
//   - changed value, XOR fits the previous block: '1' '0' + block bits
//   - changed value, new block: '1' '1', 5 bits of leading zeros, 6 bits of
//     block size minus one, then the block bits
//
// The final byte is zero padded. The stream does not depend on the archive
// byte order.
type Float64GorillaEncoder struct {
	prev         uint64
	prevLeading  int
	prevTrailing int
	prevBlock    int // 0 until the first block header is written
	cur          byte
	nbits        int // bits used in cur
	count        int
	buf          *pool.ByteBuffer
}

var _ ColumnarEncoder[float64] = (*Float64GorillaEncoder)(nil)

// NewFloat64GorillaEncoder creates a Gorilla float64 encoder.
func NewFloat64GorillaEncoder() *Float64GorillaEncoder {
	return &Float64GorillaEncoder{buf: pool.GetPayloadBuffer()}
}

// Write encodes a single value.
func (e *Float64GorillaEncoder) Write(v float64) {
	vb := math.Float64bits(v)
	e.count++

	if e.count == 1 {
		e.prev = vb
		e.writeBits(vb, 64)

		return
	}

	e.writeXOR(vb)
}

// WriteSlice encodes values in order.
func (e *Float64GorillaEncoder) WriteSlice(values []float64) {
	for _, v := range values {
		e.Write(v)
	}
}

func (e *Float64GorillaEncoder) writeXOR(vb uint64) {
	xor := vb ^ e.prev
	e.prev = vb

	if xor == 0 {
		e.writeBits(0, 1)
		return
	}

	leading := bits.LeadingZeros64(xor)
	trailing := bits.TrailingZeros64(xor)
	// leading zeros are stored in 5 bits
	leading = min(leading, 31)

	if e.prevBlock > 0 && leading >= e.prevLeading && trailing >= e.prevTrailing {
		e.writeBits(0b10, 2)
		e.writeBits(xor>>e.prevTrailing, e.prevBlock)

		return
	}

	block := 64 - leading - trailing
	e.writeBits(0b11, 2)
	e.writeBits(uint64(leading), 5) //nolint:gosec
	e.writeBits(uint64(block-1), 6) //nolint:gosec
	e.writeBits(xor>>trailing, block)

	e.prevLeading = leading
	e.prevTrailing = trailing
	e.prevBlock = block
}

// writeBits appends the low n bits of v, most significant first.
func (e *Float64GorillaEncoder) writeBits(v uint64, n int) {
	for n > 0 {
		free := 8 - e.nbits
		take := min(free, n)
		chunk := byte((v >> (n - take)) & (1<<take - 1))
		e.cur |= chunk << (free - take)
		e.nbits += take
		n -= take

		if e.nbits == 8 {
			_ = e.buf.WriteByte(e.cur)
			e.cur, e.nbits = 0, 0
		}
	}
}

// Bytes returns the encoded payload including the padded final byte.
func (e *Float64GorillaEncoder) Bytes() []byte {
	if e.nbits == 0 {
		return e.buf.Bytes()
	}

	// The pending byte lands in spare capacity; buf itself is unchanged, so
	// later writes continue the bit stream.
	return append(e.buf.Bytes(), e.cur)
}

// Len returns the number of encoded values.
func (e *Float64GorillaEncoder) Len() int {
	return e.count
}

// Size returns the payload size in bytes.
func (e *Float64GorillaEncoder) Size() int {
	if e.nbits == 0 {
		return e.buf.Len()
	}

	return e.buf.Len() + 1
}

// Finish returns the buffer to the pool.
func (e *Float64GorillaEncoder) Finish() {
	if e.buf != nil {
		pool.PutPayloadBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// Float64GorillaDecoder decodes payloads produced by Float64GorillaEncoder.
type Float64GorillaDecoder struct{}

var _ ColumnarDecoder[float64] = Float64GorillaDecoder{}

func NewFloat64GorillaDecoder() Float64GorillaDecoder {
	return Float64GorillaDecoder{}
}

// All yields up to count values from data.
func (d Float64GorillaDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		r := bitReader{data: data}
		var st gorillaState
		for range count {
			v, ok := st.next(&r)
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Decode returns exactly count values. Data must end within one byte of the
// last decoded bit.
func (d Float64GorillaDecoder) Decode(data []byte, count int) ([]float64, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", errs.ErrInvalidPayload, count)
	}

	// every value after the first needs at least one bit
	if count > 0 && (len(data)-8)*8+1 < count {
		return nil, fmt.Errorf("%w: %d gorilla bytes cannot hold %d values", errs.ErrInvalidPayload, len(data), count)
	}

	out := make([]float64, count)
	r := bitReader{data: data}
	var st gorillaState
	for i := range out {
		v, ok := st.next(&r)
		if !ok {
			return nil, fmt.Errorf("%w: gorilla stream ends at value %d of %d", errs.ErrInvalidPayload, i, count)
		}
		out[i] = v
	}

	if used := (r.pos + 7) / 8; used != len(data) {
		return nil, fmt.Errorf("%w: gorilla stream uses %d of %d bytes", errs.ErrInvalidPayload, used, len(data))
	}

	return out, nil
}

type gorillaState struct {
	prev     uint64
	trailing int
	block    int
	started  bool
}

func (s *gorillaState) next(r *bitReader) (float64, bool) {
	if !s.started {
		v, ok := r.readBits(64)
		if !ok {
			return 0, false
		}
		s.prev, s.started = v, true

		return math.Float64frombits(v), true
	}

	changed, ok := r.readBits(1)
	if !ok {
		return 0, false
	}
	if changed == 0 {
		return math.Float64frombits(s.prev), true
	}

	newBlock, ok := r.readBits(1)
	if !ok {
		return 0, false
	}

	if newBlock == 1 {
		leading, ok1 := r.readBits(5)
		size, ok2 := r.readBits(6)
		if !ok1 || !ok2 {
			return 0, false
		}
		s.block = int(size) + 1                  //nolint:gosec
		s.trailing = 64 - int(leading) - s.block //nolint:gosec
		if s.trailing < 0 {
			return 0, false
		}
	} else if s.block == 0 {
		return 0, false
	}

	meaningful, ok := r.readBits(s.block)
	if !ok {
		return 0, false
	}
	s.prev ^= meaningful << s.trailing

	return math.Float64frombits(s.prev), true
}

// bitReader reads a most-significant-bit-first stream.
type bitReader struct {
	data []byte
	pos  int
}

func (r *bitReader) readBits(n int) (uint64, bool) {
	if r.pos+n > len(r.data)*8 {
		return 0, false
	}

	var v uint64
	for n > 0 {
		avail := 8 - r.pos&7
		take := min(avail, n)
		chunk := uint64(r.data[r.pos>>3]>>(avail-take)) & (1<<take - 1)
		v = v<<take | chunk
		r.pos += take
		n -= take
	}

	return v, true
}
