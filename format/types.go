// Package format defines the enums shared by the archive container, the array
// encoders and the compression codecs.
package format

type (
	EncodingType    uint8
	CompressionType uint8
	ValueKind       uint8
)

const (
	TypeRaw   EncodingType = 0x1 // TypeRaw stores array elements as fixed-width words.
	TypeDelta EncodingType = 0x2 // TypeDelta stores int64 arrays as zigzag varint deltas.
	// TypeGorilla stores float64 arrays XOR-compressed against the previous element.
	TypeGorilla EncodingType = 0x3

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Value kinds stored in an archive entry. The numbering is part of the on-disk
// layout and must never be reordered.
const (
	KindInvalid      ValueKind = 0x0
	KindBool         ValueKind = 0x1
	KindInt64        ValueKind = 0x2
	KindFloat64      ValueKind = 0x3
	KindString       ValueKind = 0x4
	KindInt64Array   ValueKind = 0x5
	KindFloat64Array ValueKind = 0x6
	KindStringArray  ValueKind = 0x7
	KindArchive      ValueKind = 0x8
)

func (e EncodingType) String() string {
	switch e {
	case TypeRaw:
		return "Raw"
	case TypeDelta:
		return "Delta"
	case TypeGorilla:
		return "Gorilla"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInt64:
		return "Int64"
	case KindFloat64:
		return "Float64"
	case KindString:
		return "String"
	case KindInt64Array:
		return "Int64Array"
	case KindFloat64Array:
		return "Float64Array"
	case KindStringArray:
		return "StringArray"
	case KindArchive:
		return "Archive"
	default:
		return "Invalid"
	}
}

// IsArray reports whether the kind holds a sequence of scalars.
func (k ValueKind) IsArray() bool {
	return k == KindInt64Array || k == KindFloat64Array || k == KindStringArray
}

// IsValid reports whether the kind is one of the defined value kinds.
func (k ValueKind) IsValid() bool {
	return k >= KindBool && k <= KindArchive
}

// ParseCompression maps a lower-case compression name to its CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

// ParseEncoding maps a lower-case encoding name to its EncodingType.
func ParseEncoding(name string) (EncodingType, bool) {
	switch name {
	case "raw":
		return TypeRaw, true
	case "delta":
		return TypeDelta, true
	case "gorilla":
		return TypeGorilla, true
	default:
		return 0, false
	}
}
