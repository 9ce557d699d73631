package section

import (
	"github.com/arloliu/cscarchive/errs"
)

// Header is the fixed 32-byte section at the start of an archive.
type Header struct {
	Flag Flag // byte offset 0-3

	// EntryCount is the number of index entries.
	EntryCount uint32 // byte offset 4-7
	// KeysOffset is the byte offset of the keys section, right after the index.
	KeysOffset uint32 // byte offset 8-11
	// PayloadOffset is the byte offset of the payload section, right after the keys.
	PayloadOffset uint32 // byte offset 12-15
	// PayloadLength is the stored (possibly compressed) payload length.
	PayloadLength uint32 // byte offset 16-19
	// RawPayloadLength is the payload length after decompression.
	RawPayloadLength uint32 // byte offset 20-23
	// Checksum is the xxHash64 of every byte after the header.
	Checksum uint64 // byte offset 24-31
}

// NewHeader creates a header with default flags for entryCount entries.
// Offsets and lengths are filled in when the archive is encoded.
func NewHeader(entryCount uint32) *Header {
	return &Header{
		Flag:       NewFlag(),
		EntryCount: entryCount,
		KeysOffset: IndexOffset + entryCount*IndexEntrySize,
	}
}

// Parse parses the header from exactly HeaderSize bytes.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Options is always little-endian; it tells us the order of everything else.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.Revision = data[2]
	h.Flag.Compression = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.EndianEngine()
	h.EntryCount = engine.Uint32(data[4:8])
	h.KeysOffset = engine.Uint32(data[8:12])
	h.PayloadOffset = engine.Uint32(data[12:16])
	h.PayloadLength = engine.Uint32(data[16:20])
	h.RawPayloadLength = engine.Uint32(data[20:24])
	h.Checksum = engine.Uint64(data[24:32])

	return nil
}

// Bytes serializes the header into a new HeaderSize byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.Revision
	b[3] = h.Flag.Compression

	engine := h.Flag.EndianEngine()
	engine.PutUint32(b[4:8], h.EntryCount)
	engine.PutUint32(b[8:12], h.KeysOffset)
	engine.PutUint32(b[12:16], h.PayloadOffset)
	engine.PutUint32(b[16:20], h.PayloadLength)
	engine.PutUint32(b[20:24], h.RawPayloadLength)
	engine.PutUint64(b[24:32], h.Checksum)

	return b
}

// ValidateLayout checks that the section offsets are consistent with each
// other and with a container of totalSize bytes.
func (h *Header) ValidateLayout(totalSize int) error {
	indexEnd := uint64(IndexOffset) + uint64(h.EntryCount)*IndexEntrySize
	if uint64(h.KeysOffset) != indexEnd {
		return errs.ErrInvalidIndexEntrySize
	}

	if h.PayloadOffset < h.KeysOffset {
		return errs.ErrOffsetOutOfRange
	}

	if uint64(h.PayloadOffset)+uint64(h.PayloadLength) != uint64(totalSize) {
		return errs.ErrOffsetOutOfRange
	}

	return nil
}

// ParseHeader parses a Header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
