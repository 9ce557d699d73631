package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestNativeEngine(t *testing.T) {
	var word uint16 = 0x0102
	first := (*[2]byte)(unsafe.Pointer(&word))[0]

	switch first {
	case 0x01:
		require.Equal(t, binary.BigEndian, NativeEngine())
	case 0x02:
		require.Equal(t, binary.LittleEndian, NativeEngine())
	default:
		require.Failf(t, "unexpected byte value", "got: %v", first)
	}
}

func TestIsNative(t *testing.T) {
	require.True(t, IsNative(NativeEngine()))

	other := GetBigEndianEngine()
	if NativeEngine() == binary.BigEndian {
		other = GetLittleEndianEngine()
	}
	require.False(t, IsNative(other))
}

func TestIsBigEndian(t *testing.T) {
	require.True(t, IsBigEndian(GetBigEndianEngine()))
	require.False(t, IsBigEndian(GetLittleEndianEngine()))
}

func TestEngineAppendAndRead(t *testing.T) {
	for name, engine := range map[string]EndianEngine{
		"little": GetLittleEndianEngine(),
		"big":    GetBigEndianEngine(),
	} {
		t.Run(name, func(t *testing.T) {
			buf := engine.AppendUint64(nil, 0x0102030405060708)
			buf = engine.AppendUint32(buf, 0x0A0B0C0D)
			require.Len(t, buf, 12)
			require.Equal(t, uint64(0x0102030405060708), engine.Uint64(buf[0:8]))
			require.Equal(t, uint32(0x0A0B0C0D), engine.Uint32(buf[8:12]))
		})
	}

	require.Equal(t, byte(0x08), GetLittleEndianEngine().AppendUint64(nil, 0x0102030405060708)[0])
	require.Equal(t, byte(0x01), GetBigEndianEngine().AppendUint64(nil, 0x0102030405060708)[0])
}
