package compress

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cscarchive/format"
)

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"NoOp": NewNoOpCompressor(),
		"LZ4":  NewLZ4Compressor(),
		"S2":   NewS2Compressor(),
		"Zstd": NewZstdCompressor(),
	}
}

// csrLikePayload mimics a raw little-endian indptr array.
func csrLikePayload(n int) []byte {
	buf := make([]byte, 0, n*8)
	var acc uint64
	for i := range n {
		acc += uint64(i % 7)
		buf = binary.LittleEndian.AppendUint64(buf, acc)
	}

	return buf
}

func TestGetCodec(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := GetCodec(ct)
		require.NoError(t, err, ct.String())
		require.NotNil(t, codec)
	}

	codec, err := GetCodec(format.CompressionType(0x7F))
	require.Error(t, err)
	require.Nil(t, codec)
	require.Contains(t, err.Error(), "unsupported compression type")
}

func TestCompress_Stats(t *testing.T) {
	data := csrLikePayload(4096)

	out, stats, err := Compress(format.CompressionZstd, data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, stats.Algorithm)
	require.Equal(t, int64(len(data)), stats.OriginalSize)
	require.Equal(t, int64(len(out)), stats.CompressedSize)
	require.Less(t, stats.CompressionRatio(), 1.0)
	require.Greater(t, stats.SpaceSavings(), 0.0)

	_, _, err = Compress(format.CompressionType(0), data)
	require.Error(t, err)
}

func TestCompressionStats_Empty(t *testing.T) {
	stats := CompressionStats{}
	require.Equal(t, 0.0, stats.CompressionRatio())
	require.Equal(t, 0.0, stats.SpaceSavings())
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Nil(t, compressed)

			decompressed, err := codec.Decompress(nil, 0)
			require.NoError(t, err)
			require.Nil(t, decompressed)

			compressed, err = codec.Compress([]byte{})
			require.NoError(t, err)
			decompressed, err = codec.Decompress(compressed, 0)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "single_byte", data: []byte{0x42}},
		{name: "small_text", data: []byte("attr::weight")},
		{name: "binary_data", data: []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE, 0xFD, 0xFC}},
		{name: "repeated_pattern", data: bytes.Repeat([]byte("ABCD"), 100)},
		{name: "indptr_like", data: csrLikePayload(16 * 1024)},
		{name: "highly_compressible", data: make([]byte, 1024*1024)},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)
					require.NotNil(t, compressed)

					decompressed, err := codec.Decompress(compressed, len(tc.data))
					require.NoError(t, err)
					require.Equal(t, tc.data, decompressed)
				})
			}
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalid := []byte{0xFF, 0xFF, 0xFF, 0xFF}

	for codecName, codec := range getAllCodecs() {
		if codecName == "NoOp" {
			continue
		}
		t.Run(codecName, func(t *testing.T) {
			_, err := codec.Decompress(invalid, 64)
			require.Error(t, err)
		})
	}
}

func TestAllCodecs_SizeMismatch(t *testing.T) {
	data := csrLikePayload(4096)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			for _, rawLen := range []int{0, len(data) - 1, len(data) + 1, 1 << 31} {
				_, err := codec.Decompress(compressed, rawLen)
				require.ErrorIs(t, err, ErrSizeMismatch, "raw length %d", rawLen)
			}

			_, err = codec.Decompress(nil, 8)
			require.ErrorIs(t, err, ErrSizeMismatch)
		})
	}
}

func TestZstdCompressor_FrameWithoutContentSize(t *testing.T) {
	codec := NewZstdCompressor()
	data := []byte("attr::weight attr::weight attr::weight")

	encoder, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := encoder.EncodeAll(data, nil)
	require.NoError(t, encoder.Close())

	var h zstd.Header
	require.NoError(t, h.Decode(compressed))
	require.False(t, h.HasFCS, "small frames omit the content size")

	out, err := codec.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)

	_, err = codec.Decompress(compressed, len(data)-1)
	require.Error(t, err)
	_, err = codec.Decompress(compressed, len(data)+1)
	require.ErrorIs(t, err, ErrSizeMismatch)
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	const numGoroutines = 16
	testData := csrLikePayload(512)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(testData)
			require.NoError(t, err)

			done := make(chan error, numGoroutines*2)
			for range numGoroutines {
				go func() {
					_, err := codec.Compress(testData)
					done <- err
				}()
				go func() {
					decompressed, err := codec.Decompress(compressed, len(testData))
					if err != nil {
						done <- err
						return
					}
					if !bytes.Equal(testData, decompressed) {
						done <- fmt.Errorf("data mismatch")
						return
					}
					done <- nil
				}()
			}

			for range numGoroutines * 2 {
				require.NoError(t, <-done)
			}
		})
	}
}

func BenchmarkAllCodecs_Compress(b *testing.B) {
	data := csrLikePayload(64 * 1024)

	for codecName, codec := range getAllCodecs() {
		b.Run(codecName, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, err := codec.Compress(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAllCodecs_Decompress(b *testing.B) {
	data := csrLikePayload(64 * 1024)

	for codecName, codec := range getAllCodecs() {
		b.Run(codecName, func(b *testing.B) {
			compressed, err := codec.Compress(data)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, err := codec.Decompress(compressed, len(data)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
