// Package errs defines the sentinel errors returned by cscarchive packages.
//
// Errors fall into four categories that callers are expected to branch on:
//
//   - ErrEncode: the graph cannot be written (invariant violated or value not representable)
//   - ErrDecode: an archive entry is missing, malformed, or from an unsupported format version
//   - ErrValidation: a decoded graph fails its structural invariants
//   - ErrKeyNotFound: a raw archive lookup missed
//
// Category errors are joined with a specific cause, so both can be matched with errors.Is:
//
//	if errors.Is(err, errs.ErrEncode) && errors.Is(err, errs.ErrIndptrNotMonotonic) { ... }
package errs

import "errors"

// Categories.
var (
	ErrEncode      = errors.New("graph encode error")
	ErrDecode      = errors.New("graph decode error")
	ErrValidation  = errors.New("graph validation error")
	ErrKeyNotFound = errors.New("archive key not found")
)

// Archive value and entry errors.
var (
	ErrTypeMismatch       = errors.New("archive value type mismatch")
	ErrInvalidKey         = errors.New("invalid archive key")
	ErrDuplicateKey       = errors.New("duplicate archive key")
	ErrValueTooLarge      = errors.New("archive value exceeds representable size")
	ErrInvalidValue       = errors.New("invalid archive value")
	ErrUnsupportedVersion = errors.New("unsupported format version")
)

// Binary container errors.
var (
	ErrCorruptArchive        = errors.New("corrupt archive")
	ErrInvalidHeaderSize     = errors.New("invalid header size")
	ErrInvalidMagicNumber    = errors.New("invalid magic number")
	ErrInvalidHeaderFlags    = errors.New("invalid header flags")
	ErrInvalidIndexEntrySize = errors.New("invalid index entry size")
	ErrChecksumMismatch      = errors.New("payload checksum mismatch")
	ErrHashMismatch          = errors.New("key hash mismatch")
	ErrOffsetOutOfRange      = errors.New("offset out of range")
	ErrInvalidPayload        = errors.New("invalid value payload")
)

// Graph invariant errors.
var (
	ErrEmptyIndptr            = errors.New("indptr must contain at least one element")
	ErrIndptrStart            = errors.New("indptr must start at zero")
	ErrIndptrNotMonotonic     = errors.New("indptr is not monotonically non-decreasing")
	ErrIndptrEdgeMismatch     = errors.New("last indptr element does not match number of indices")
	ErrIndexOutOfRange        = errors.New("neighbor index out of node range")
	ErrEdgeTypeLength         = errors.New("edge type ids are not aligned with indices")
	ErrNegativeEdgeTypeID     = errors.New("edge type id is negative")
	ErrInvalidNodeTypeOffsets = errors.New("node type offsets do not partition the node range")
	ErrInvalidAttribute       = errors.New("invalid attribute table")
	ErrInvalidTypeMaps        = errors.New("invalid type name maps")
	ErrFieldNotSupported      = errors.New("field not supported by format version")
)
