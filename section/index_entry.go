package section

import (
	"github.com/arloliu/cscarchive/endian"
	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/format"
	"github.com/arloliu/cscarchive/internal/pool"
)

// IndexEntry describes one archive entry. It is a fixed 24 bytes on disk:
//
//	[0:8]   KeyHash      xxHash64 of the key
//	[8]     Kind         format.ValueKind
//	[9]     Encoding     format.EncodingType of array payloads, 0 for scalars
//	[10:12] KeyLength    length of the key in the keys section
//	[12:16] Count        element count for arrays and nested entry count, 0 for scalars
//	[16:20] ValueOffset  offset of the value inside the raw payload
//	[20:24] ValueLength  length of the encoded value
//
// Key offsets are not stored; they are the running sum of KeyLength in index order.
type IndexEntry struct {
	KeyHash     uint64
	Kind        format.ValueKind
	Encoding    format.EncodingType
	KeyLength   uint16
	Count       uint32
	ValueOffset uint32
	ValueLength uint32
}

// Bytes returns the entry encoded with the given byte order.
func (e *IndexEntry) Bytes(engine endian.EndianEngine) []byte {
	var b [IndexEntrySize]byte
	e.put(b[:], engine)

	return b[:]
}

// WriteTo appends the encoded entry to buf.
func (e *IndexEntry) WriteTo(buf *pool.ByteBuffer, engine endian.EndianEngine) {
	var b [IndexEntrySize]byte
	e.put(b[:], engine)
	buf.MustWrite(b[:])
}

func (e *IndexEntry) put(b []byte, engine endian.EndianEngine) {
	engine.PutUint64(b[0:8], e.KeyHash)
	b[8] = uint8(e.Kind)
	b[9] = uint8(e.Encoding)
	engine.PutUint16(b[10:12], e.KeyLength)
	engine.PutUint32(b[12:16], e.Count)
	engine.PutUint32(b[16:20], e.ValueOffset)
	engine.PutUint32(b[20:24], e.ValueLength)
}

// ParseIndexEntry decodes an entry from exactly IndexEntrySize bytes.
func ParseIndexEntry(data []byte, engine endian.EndianEngine) (IndexEntry, error) {
	if len(data) != IndexEntrySize {
		return IndexEntry{}, errs.ErrInvalidIndexEntrySize
	}

	return IndexEntry{
		KeyHash:     engine.Uint64(data[0:8]),
		Kind:        format.ValueKind(data[8]),
		Encoding:    format.EncodingType(data[9]),
		KeyLength:   engine.Uint16(data[10:12]),
		Count:       engine.Uint32(data[12:16]),
		ValueOffset: engine.Uint32(data[16:20]),
		ValueLength: engine.Uint32(data[20:24]),
	}, nil
}

// ValueEnd returns the end offset of the value inside the raw payload.
func (e *IndexEntry) ValueEnd() uint64 {
	return uint64(e.ValueOffset) + uint64(e.ValueLength)
}
