package archive

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/cscarchive/compress"
	"github.com/arloliu/cscarchive/encoding"
	"github.com/arloliu/cscarchive/endian"
	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/format"
	"github.com/arloliu/cscarchive/internal/collision"
	"github.com/arloliu/cscarchive/internal/hash"
	"github.com/arloliu/cscarchive/internal/pool"
	"github.com/arloliu/cscarchive/section"
)

// EncodeStats describes one encoded container.
type EncodeStats struct {
	Entries     int
	HeaderBytes int
	IndexBytes  int
	KeyBytes    int
	TotalBytes  int
	// HashCollisions counts keys whose xxHash64 was already used by
	// another key in the same archive.
	HashCollisions int
	Compression    compress.CompressionStats
}

// MarshalBinary encodes the archive into its binary container form.
//
// Encoding is deterministic: equal archives with equal settings produce
// identical bytes.
func (a *Archive) MarshalBinary() ([]byte, error) {
	data, _, err := a.MarshalWithStats()
	return data, err
}

// MarshalWithStats encodes the archive like MarshalBinary and also reports
// section sizes and compression results.
func (a *Archive) MarshalWithStats() ([]byte, EncodeStats, error) {
	return a.encode(a.cfg.compression)
}

// WriteTo writes the encoded archive to w.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	data, err := a.MarshalBinary()
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)

	return int64(n), err
}

func (a *Archive) encode(compression format.CompressionType) ([]byte, EncodeStats, error) {
	stats := EncodeStats{Entries: len(a.keys), HeaderBytes: section.HeaderSize}

	header := section.NewHeader(uint32(len(a.keys))) //nolint:gosec
	if a.cfg.bigEndian {
		header.Flag.WithBigEndian()
	}
	header.Flag.SetPayloadCompression(compression)
	engine := header.Flag.EndianEngine()

	index := pool.GetArchiveBuffer()
	defer pool.PutArchiveBuffer(index)
	keys := pool.GetArchiveBuffer()
	defer pool.PutArchiveBuffer(keys)
	payload := pool.GetArchiveBuffer()
	defer pool.PutArchiveBuffer(payload)

	index.Grow(len(a.keys) * section.IndexEntrySize)
	tracker := collision.NewTracker(len(a.keys))

	for _, key := range a.keys {
		offset := payload.Len()
		entry, err := a.encodeValue(payload, engine, a.values[key])
		if err != nil {
			return nil, stats, fmt.Errorf("encode %q: %w", key, err)
		}

		if uint64(payload.Len()) > maxValueBytes {
			return nil, stats, fmt.Errorf("%w: payload exceeds %d bytes at %q", errs.ErrValueTooLarge, uint64(maxValueBytes), key)
		}

		entry.KeyHash = hash.Key(key)
		if err := tracker.Track(key, entry.KeyHash); err != nil {
			return nil, stats, err
		}
		entry.KeyLength = uint16(len(key))                 //nolint:gosec
		entry.ValueOffset = uint32(offset)                 //nolint:gosec
		entry.ValueLength = uint32(payload.Len() - offset) //nolint:gosec
		entry.WriteTo(index, engine)
		keys.MustWrite([]byte(key))
	}

	stored, cstats, err := compress.Compress(compression, payload.Bytes())
	if err != nil {
		return nil, stats, err
	}
	stats.Compression = cstats

	total := uint64(section.HeaderSize) + uint64(index.Len()) + uint64(keys.Len()) + uint64(len(stored))
	if total > section.MaxSectionBytes {
		return nil, stats, fmt.Errorf("%w: container of %d bytes", errs.ErrValueTooLarge, total)
	}

	header.PayloadOffset = header.KeysOffset + uint32(keys.Len()) //nolint:gosec
	header.PayloadLength = uint32(len(stored))                    //nolint:gosec
	header.RawPayloadLength = uint32(payload.Len())               //nolint:gosec
	header.Checksum = hash.Checksum(index.Bytes(), keys.Bytes(), stored)

	out := make([]byte, 0, total)
	out = append(out, header.Bytes()...)
	out = append(out, index.Bytes()...)
	out = append(out, keys.Bytes()...)
	out = append(out, stored...)

	stats.IndexBytes = index.Len()
	stats.KeyBytes = keys.Len()
	stats.TotalBytes = len(out)
	stats.HashCollisions = tracker.Collisions()

	return out, stats, nil
}

// encodeValue appends v to payload and returns its index entry with kind,
// encoding and count filled in.
func (a *Archive) encodeValue(payload *pool.ByteBuffer, engine endian.EndianEngine, v Value) (section.IndexEntry, error) {
	entry := section.IndexEntry{Kind: v.kind}

	switch v.kind {
	case format.KindBool:
		if v.b {
			_ = payload.WriteByte(1)
		} else {
			_ = payload.WriteByte(0)
		}
	case format.KindInt64:
		payload.B = engine.AppendUint64(payload.B, uint64(v.i)) //nolint:gosec
	case format.KindFloat64:
		payload.B = engine.AppendUint64(payload.B, math.Float64bits(v.f))
	case format.KindString:
		payload.MustWrite([]byte(v.s))
	case format.KindInt64Array:
		entry.Encoding = a.cfg.intEncoding
		entry.Count = uint32(len(v.ints)) //nolint:gosec

		var enc encoding.ColumnarEncoder[int64]
		if a.cfg.intEncoding == format.TypeDelta {
			enc = encoding.NewInt64DeltaEncoder()
		} else {
			enc = encoding.NewInt64RawEncoder(engine)
		}
		writeColumn(payload, enc, v.ints)
	case format.KindFloat64Array:
		entry.Encoding = a.cfg.floatEncoding
		entry.Count = uint32(len(v.floats)) //nolint:gosec

		if a.cfg.floatEncoding == format.TypeGorilla {
			writeColumn(payload, encoding.NewFloat64GorillaEncoder(), v.floats)
		} else {
			writeColumn(payload, encoding.NewFloat64RawEncoder(engine), v.floats)
		}
	case format.KindStringArray:
		entry.Encoding = format.TypeRaw
		entry.Count = uint32(len(v.strs)) //nolint:gosec
		writeColumn(payload, encoding.NewStringArrayEncoder(), v.strs)
	case format.KindArchive:
		if v.nested == nil {
			return entry, fmt.Errorf("%w: nil nested archive", errs.ErrInvalidValue)
		}

		// Nested containers are never compressed on their own; the outer
		// payload compression covers them.
		data, _, err := v.nested.encode(format.CompressionNone)
		if err != nil {
			return entry, err
		}
		entry.Count = uint32(v.nested.Len()) //nolint:gosec
		payload.MustWrite(data)
	default:
		return entry, fmt.Errorf("%w: kind %s", errs.ErrInvalidValue, v.kind)
	}

	return entry, nil
}

func writeColumn[T any](payload *pool.ByteBuffer, enc encoding.ColumnarEncoder[T], values []T) {
	defer enc.Finish()

	enc.WriteSlice(values)
	payload.MustWrite(enc.Bytes())
}
