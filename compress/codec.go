package compress

import (
	"errors"
	"fmt"

	"github.com/arloliu/cscarchive/format"
)

// Compressor compresses an encoded archive payload.
//
// The returned slice is owned by the caller; the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// rawLen is the decompressed size recorded next to the compressed data.
// Implementations never allocate more than rawLen bytes for the output and
// return an error wrapping ErrSizeMismatch when the data decodes to another
// size. They also return an error if the input is corrupted or was produced
// by another algorithm. Implementations are safe for concurrent use.
type Decompressor interface {
	Decompress(data []byte, rawLen int) ([]byte, error)
}

// ErrSizeMismatch reports compressed data whose decoded size differs from the
// expected raw length.
var ErrSizeMismatch = errors.New("decompressed size mismatch")

func sizeMismatch(algo string, got, want int) error {
	return fmt.Errorf("%w: %s data decodes to %d bytes, expected %d", ErrSizeMismatch, algo, got, want)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes the effect of compressing one archive payload.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType
	// OriginalSize is the size of the encoded payload before compression
	OriginalSize int64
	// CompressedSize is the size of the payload as stored
	CompressedSize int64
}

// CompressionRatio returns compressed size / original size, or 0 for an empty payload.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// Compress compresses data with the codec for compressionType and reports the sizes.
func Compress(compressionType format.CompressionType, data []byte) ([]byte, CompressionStats, error) {
	stats := CompressionStats{Algorithm: compressionType, OriginalSize: int64(len(data))}

	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, stats, err
	}

	out, err := codec.Compress(data)
	if err != nil {
		return nil, stats, fmt.Errorf("%s compression failed: %w", compressionType, err)
	}
	stats.CompressedSize = int64(len(out))

	return out, stats, nil
}
