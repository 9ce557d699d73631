package archive

import (
	"bytes"
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
	"github.com/arloliu/cscarchive/section"
)

// maxNestingDepth bounds recursion into nested archives while decoding.
const maxNestingDepth = 32

// Unmarshal decodes a container produced by MarshalBinary.
//
// The returned archive owns its data and carries the container's compression
// and byte order settings. Any structural problem yields an error wrapping
// errs.ErrCorruptArchive together with the specific cause.
func Unmarshal(data []byte) (*Archive, error) {
	a, err := unmarshal(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptArchive, err)
	}

	return a, nil
}

// ReadFrom replaces the contents and settings of a with the container read from r.
func (a *Archive) ReadFrom(r io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(r)
	if err != nil {
		return n, err
	}

	decoded, err := Unmarshal(buf.Bytes())
	if err != nil {
		return n, err
	}
	*a = *decoded

	return n, nil
}

type decoder struct {
	data    []byte
	header  section.Header
	engine  endian.EndianEngine
	payload []byte
	depth   int
}

func unmarshal(data []byte, depth int) (*Archive, error) {
	if depth > maxNestingDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", errs.ErrInvalidPayload, maxNestingDepth)
	}

	d := &decoder{data: data, depth: depth}
	if err := d.parseHeader(); err != nil {
		return nil, err
	}

	if err := d.parsePayload(); err != nil {
		return nil, err
	}

	return d.decodeEntries()
}

func (d *decoder) parseHeader() error {
	header, err := section.ParseHeader(d.data)
	if err != nil {
		return err
	}

	if err := header.ValidateLayout(len(d.data)); err != nil {
		return err
	}

	if sum := hash.Checksum(d.data[section.HeaderSize:]); sum != header.Checksum {
		return fmt.Errorf("%w: got %016x, header has %016x", errs.ErrChecksumMismatch, sum, header.Checksum)
	}

	d.header = header
	d.engine = header.Flag.EndianEngine()

	return nil
}

func (d *decoder) parsePayload() error {
	stored := d.data[d.header.PayloadOffset:]

	codec, err := compress.GetCodec(d.header.Flag.PayloadCompression())
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidHeaderFlags, err)
	}

	// the codec sizes its output from the header, never from the stored data
	payload, err := codec.Decompress(stored, int(d.header.RawPayloadLength))
	if err != nil {
		return fmt.Errorf("%w: decompress: %w", errs.ErrInvalidPayload, err)
	}
	d.payload = payload

	return nil
}

func (d *decoder) decodeEntries() (*Archive, error) {
	cfg := defaultConfig()
	cfg.compression = d.header.Flag.PayloadCompression()
	cfg.bigEndian = !d.header.Flag.IsLittleEndian()
	a := newWithConfig(cfg)

	keyOffset := int(d.header.KeysOffset)
	keysEnd := int(d.header.PayloadOffset)
	intEncodingSeen, floatEncodingSeen := false, false
	tracker := collision.NewTracker(int(d.header.EntryCount))

	for i := range int(d.header.EntryCount) {
		start := section.IndexOffset + i*section.IndexEntrySize
		entry, err := section.ParseIndexEntry(d.data[start:start+section.IndexEntrySize], d.engine)
		if err != nil {
			return nil, err
		}

		keyEnd := keyOffset + int(entry.KeyLength)
		if entry.KeyLength == 0 || keyEnd > keysEnd {
			return nil, fmt.Errorf("%w: key of entry %d", errs.ErrOffsetOutOfRange, i)
		}
		key := string(d.data[keyOffset:keyEnd])
		keyOffset = keyEnd

		if hash.Key(key) != entry.KeyHash {
			return nil, fmt.Errorf("%w: entry %d %q", errs.ErrHashMismatch, i, key)
		}

		if err := tracker.Track(key, entry.KeyHash); err != nil {
			return nil, err
		}

		if entry.ValueEnd() > uint64(len(d.payload)) {
			return nil, fmt.Errorf("%w: value of %q", errs.ErrOffsetOutOfRange, key)
		}

		v, err := d.decodeValue(entry, d.payload[entry.ValueOffset:entry.ValueEnd()])
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}

		if entry.Kind == format.KindInt64Array && !intEncodingSeen {
			cfg.intEncoding = entry.Encoding
			intEncodingSeen = true
		}
		if entry.Kind == format.KindFloat64Array && !floatEncodingSeen {
			cfg.floatEncoding = entry.Encoding
			floatEncodingSeen = true
		}

		a.put(key, v)
	}

	if keyOffset != keysEnd {
		return nil, fmt.Errorf("%w: %d unused bytes in keys section", errs.ErrOffsetOutOfRange, keysEnd-keyOffset)
	}

	return a, nil
}

func (d *decoder) decodeValue(entry section.IndexEntry, data []byte) (Value, error) {
	count := int(entry.Count)

	switch entry.Kind {
	case format.KindBool:
		if len(data) != 1 || data[0] > 1 {
			return Value{}, fmt.Errorf("%w: malformed bool", errs.ErrInvalidPayload)
		}

		return NewBool(data[0] == 1), nil
	case format.KindInt64:
		if len(data) != 8 {
			return Value{}, fmt.Errorf("%w: int64 of %d bytes", errs.ErrInvalidPayload, len(data))
		}

		return NewInt64(int64(d.engine.Uint64(data))), nil //nolint:gosec
	case format.KindFloat64:
		if len(data) != 8 {
			return Value{}, fmt.Errorf("%w: float64 of %d bytes", errs.ErrInvalidPayload, len(data))
		}

		return NewFloat64(math.Float64frombits(d.engine.Uint64(data))), nil
	case format.KindString:
		return NewString(string(data)), nil
	case format.KindInt64Array:
		var dec encoding.ColumnarDecoder[int64]
		switch entry.Encoding { //nolint:exhaustive
		case format.TypeRaw:
			dec = encoding.NewInt64RawDecoder(d.engine)
		case format.TypeDelta:
			dec = encoding.NewInt64DeltaDecoder()
		default:
			return Value{}, fmt.Errorf("%w: int64 array encoding %s", errs.ErrInvalidPayload, entry.Encoding)
		}

		values, err := dec.Decode(data, count)
		if err != nil {
			return Value{}, err
		}

		return NewInt64Array(values), nil
	case format.KindFloat64Array:
		var dec encoding.ColumnarDecoder[float64]
		switch entry.Encoding { //nolint:exhaustive
		case format.TypeRaw:
			dec = encoding.NewFloat64RawDecoder(d.engine)
		case format.TypeGorilla:
			dec = encoding.NewFloat64GorillaDecoder()
		default:
			return Value{}, fmt.Errorf("%w: float64 array encoding %s", errs.ErrInvalidPayload, entry.Encoding)
		}

		values, err := dec.Decode(data, count)
		if err != nil {
			return Value{}, err
		}

		return NewFloat64Array(values), nil
	case format.KindStringArray:
		values, err := encoding.NewStringArrayDecoder().Decode(data, count)
		if err != nil {
			return Value{}, err
		}

		return NewStringArray(values), nil
	case format.KindArchive:
		nested, err := unmarshal(data, d.depth+1)
		if err != nil {
			return Value{}, err
		}

		if nested.Len() != count {
			return Value{}, fmt.Errorf("%w: nested archive has %d entries, index has %d", errs.ErrInvalidPayload, nested.Len(), count)
		}

		return NewNested(nested), nil
	default:
		return Value{}, fmt.Errorf("%w: unknown value kind %d", errs.ErrInvalidPayload, entry.Kind)
	}
}
