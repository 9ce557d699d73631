package section

import "math"

const (
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000D // Mask for reserved bits (bits 0, 2, 3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicArchiveV1 identifies a CSC archive container.
	MagicArchiveV1 = 0xCA50

	// Revision1 is the only container revision defined so far.
	Revision1 = 1
)

const (
	HeaderSize      = 32             // fixed header size in bytes
	IndexEntrySize  = 24             // fixed index entry size in bytes
	IndexOffset     = HeaderSize     // byte offset where the index section starts
	MaxKeyLength    = math.MaxUint16 // keys are stored with a uint16 length
	MaxSectionBytes = math.MaxUint32 // offsets and lengths are stored as uint32
)
