package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cscarchive/endian"
	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/format"
	"github.com/arloliu/cscarchive/internal/pool"
)

func TestIndexEntry_RoundTrip(t *testing.T) {
	entry := IndexEntry{
		KeyHash:     0xDEADBEEFCAFEBABE,
		Kind:        format.KindInt64Array,
		Encoding:    format.TypeDelta,
		KeyLength:   6,
		Count:       1001,
		ValueOffset: 64,
		ValueLength: 1001,
	}

	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		data := entry.Bytes(engine)
		require.Len(t, data, IndexEntrySize)

		parsed, err := ParseIndexEntry(data, engine)
		require.NoError(t, err)
		require.Equal(t, entry, parsed)
		require.Equal(t, uint64(1065), parsed.ValueEnd())
	}
}

func TestIndexEntry_WriteTo(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	entry := IndexEntry{KeyHash: 1, Kind: format.KindBool, KeyLength: 3, ValueOffset: 8, ValueLength: 1}

	buf := pool.NewByteBuffer(0)
	entry.WriteTo(buf, engine)
	entry.WriteTo(buf, engine)

	require.Equal(t, 2*IndexEntrySize, buf.Len())
	require.Equal(t, entry.Bytes(engine), buf.Bytes()[:IndexEntrySize])
}

func TestParseIndexEntry_InvalidSize(t *testing.T) {
	_, err := ParseIndexEntry(make([]byte, IndexEntrySize-1), endian.GetLittleEndianEngine())
	require.ErrorIs(t, err, errs.ErrInvalidIndexEntrySize)
}
