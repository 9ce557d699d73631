// Package endian provides the byte order engine used by the archive container.
//
// An EndianEngine combines binary.ByteOrder and binary.AppendByteOrder, so the
// same value can both patch fixed-size header fields in place and append
// variable-length payloads:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint64(buf, uint64(v))
//
// Archives are little-endian unless created with archive.WithBigEndian. The
// byte order is recorded in the archive header, and readers pick the engine
// from there.
//
// All functions are safe for concurrent use; returned engines are stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var nativeEngine = detectNative()

func detectNative() EndianEngine {
	// 0x0100 stores 0x01 first on big-endian hosts.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// NativeEngine returns the byte order of the host.
func NativeEngine() EndianEngine {
	return nativeEngine
}

// IsNative reports whether engine matches the host byte order. Raw array
// payloads in native order can be copied without per-element conversion.
func IsNative(engine EndianEngine) bool {
	return engine == nativeEngine
}

// IsBigEndian reports whether engine is big-endian.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
