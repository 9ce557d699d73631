package section

import (
	"github.com/arloliu/cscarchive/endian"
	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/format"
)

// Flag holds the first four header bytes.
type Flag struct {
	// Options packs the magic number (bits 4-15) and the endianness bit (bit 1).
	// Bits 0, 2 and 3 are reserved and must be zero.
	Options uint16
	// Revision is the container layout revision.
	Revision uint8
	// Compression is the format.CompressionType applied to the payload section.
	Compression uint8
}

var validCompressions = map[uint8]struct{}{
	uint8(format.CompressionNone): {},
	uint8(format.CompressionZstd): {},
	uint8(format.CompressionS2):   {},
	uint8(format.CompressionLZ4):  {},
}

// NewFlag creates a little-endian, uncompressed revision 1 flag.
func NewFlag() Flag {
	return Flag{
		Options:     MagicArchiveV1,
		Revision:    Revision1,
		Compression: uint8(format.CompressionNone),
	}
}

// IsLittleEndian returns whether the container is little-endian.
func (f Flag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// WithLittleEndian sets little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// WithBigEndian sets big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// MagicNumber returns the magic number bits of Options.
func (f Flag) MagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// PayloadCompression returns the payload compression type.
func (f Flag) PayloadCompression() format.CompressionType {
	return format.CompressionType(f.Compression)
}

// SetPayloadCompression sets the payload compression type.
func (f *Flag) SetPayloadCompression(c format.CompressionType) {
	f.Compression = uint8(c)
}

// EndianEngine returns the engine matching the endianness bit.
func (f Flag) EndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}

// Validate checks the magic number, reserved bits, revision and compression.
func (f Flag) Validate() error {
	if f.MagicNumber() != MagicArchiveV1 {
		return errs.ErrInvalidMagicNumber
	}

	if f.Options&ReservedBitsMask != 0 || f.Revision != Revision1 {
		return errs.ErrInvalidHeaderFlags
	}

	if _, ok := validCompressions[f.Compression]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}
