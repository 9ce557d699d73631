package compress

import (
	"github.com/klauspost/compress/s2"
)

// S2Compressor compresses payloads with S2 in "better" mode. Archives are
// read far more often than written, so the slower encoder is worth it.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, data), nil
}

// Decompress checks the length announced by the S2 block header against
// rawLen before allocating the output.
func (c S2Compressor) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) == 0 {
		if rawLen != 0 {
			return nil, sizeMismatch("s2", 0, rawLen)
		}

		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}
	if n != rawLen {
		return nil, sizeMismatch("s2", n, rawLen)
	}

	return s2.Decode(make([]byte, n), data)
}
