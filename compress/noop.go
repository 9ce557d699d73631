package compress

// NoOpCompressor stores payloads uncompressed.
//
// Both methods return the input slice itself; callers must not modify the
// input while the result is in use.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data unchanged.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged once its length matches rawLen.
func (c NoOpCompressor) Decompress(data []byte, rawLen int) ([]byte, error) {
	if len(data) != rawLen {
		return nil, sizeMismatch("uncompressed", len(data), rawLen)
	}

	return data, nil
}
