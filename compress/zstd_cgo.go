//go:build cgo && gozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

const zstdLevel = 3

// Compress compresses the input data using libzstd.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, zstdLevel), nil
}

// Decompress decompresses Zstd-compressed data using libzstd.
//
// Frames without a content size go through the pure Go decoder, which is
// capped at rawLen; libzstd would grow its output without bound.
func (c ZstdCompressor) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		if rawLen != 0 {
			return nil, sizeMismatch("zstd", 0, rawLen)
		}

		return nil, nil
	}

	hasSize, err := checkZstdFrame(data, rawLen)
	if err != nil {
		return nil, err
	}
	if !hasSize {
		return decodeZstdCapped(data, rawLen)
	}

	out, err := gozstd.Decompress(make([]byte, 0, rawLen), data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if len(out) != rawLen {
		return nil, sizeMismatch("zstd", len(out), rawLen)
	}

	return out, nil
}
