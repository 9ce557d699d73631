package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueKind_String(t *testing.T) {
	require.Equal(t, "Int64Array", KindInt64Array.String())
	require.Equal(t, "Archive", KindArchive.String())
	require.Equal(t, "Invalid", ValueKind(0xFF).String())
}

func TestValueKind_Classification(t *testing.T) {
	require.True(t, KindInt64Array.IsArray())
	require.True(t, KindStringArray.IsArray())
	require.False(t, KindInt64.IsArray())
	require.False(t, KindArchive.IsArray())

	require.True(t, KindBool.IsValid())
	require.True(t, KindArchive.IsValid())
	require.False(t, KindInvalid.IsValid())
	require.False(t, ValueKind(0x9).IsValid())
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]CompressionType{
		"none": CompressionNone,
		"zstd": CompressionZstd,
		"s2":   CompressionS2,
		"lz4":  CompressionLZ4,
	} {
		got, ok := ParseCompression(name)
		require.True(t, ok, name)
		require.Equal(t, want, got)
	}

	_, ok := ParseCompression("gzip")
	require.False(t, ok)
}

func TestParseEncoding(t *testing.T) {
	enc, ok := ParseEncoding("delta")
	require.True(t, ok)
	require.Equal(t, TypeDelta, enc)
	require.Equal(t, "Delta", enc.String())

	enc, ok = ParseEncoding("gorilla")
	require.True(t, ok)
	require.Equal(t, "Gorilla", enc.String())

	_, ok = ParseEncoding("chimp")
	require.False(t, ok)
	require.Equal(t, "Unknown", EncodingType(0).String())
}
