package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor compresses payloads with Zstandard.
//
// It gives the best ratio of the built-in codecs and suits archives that are
// written once and loaded many times. The backend is chosen at build time:
// pure Go by default, libzstd when built with cgo and the "gozstd" tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// zstdDecoderPool pools decoders; klauspost/compress decoders run without
// allocations after warmup. DecodeAll never writes past cap(dst).
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
			zstd.WithDecodeAllCapLimit(true),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

// checkZstdFrame compares the content size in the frame header with rawLen
// and reports whether the frame carries one. Small frames may omit it.
func checkZstdFrame(data []byte, rawLen int) (bool, error) {
	var h zstd.Header
	if err := h.Decode(data); err != nil {
		return false, fmt.Errorf("zstd frame header: %w", err)
	}

	if h.HasFCS && h.FrameContentSize != uint64(rawLen) { //nolint:gosec
		return true, fmt.Errorf("%w: zstd frame holds %d bytes, expected %d", ErrSizeMismatch, h.FrameContentSize, rawLen)
	}

	return h.HasFCS, nil
}

// decodeZstdCapped decodes data with a pooled decoder into a buffer of
// exactly rawLen bytes capacity.
func decodeZstdCapped(data []byte, rawLen int) ([]byte, error) {
	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, make([]byte, 0, rawLen))
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
		return nil, fmt.Errorf("%w: zstd frame is longer than %d bytes", ErrSizeMismatch, rawLen)
	}
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if len(decompressed) != rawLen {
		return nil, sizeMismatch("zstd", len(decompressed), rawLen)
	}

	return decompressed, nil
}
