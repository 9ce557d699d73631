package compress

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances, which keep a hash table between calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4MaxRatio bounds how far one LZ4 block can expand: every 255 output
// bytes of a match cost at least one input byte.
const lz4MaxRatio = 255

// LZ4Compressor compresses payloads as a single raw LZ4 block.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using a pooled lz4.Compressor.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block.
//
// Raw blocks do not record their decompressed size, so the output buffer is
// sized from rawLen after checking that the block could expand that far.
func (c LZ4Compressor) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		if rawLen != 0 {
			return nil, sizeMismatch("lz4", 0, rawLen)
		}

		return nil, nil
	}

	if rawLen/lz4MaxRatio > len(data) {
		return nil, fmt.Errorf("%w: %d lz4 bytes cannot expand to %d", ErrSizeMismatch, len(data), rawLen)
	}

	buf := make([]byte, rawLen)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 block does not decode into %d bytes: %w", ErrSizeMismatch, rawLen, err)
	}
	if n != rawLen {
		return nil, sizeMismatch("lz4", n, rawLen)
	}

	return buf, nil
}
