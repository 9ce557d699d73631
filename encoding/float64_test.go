package encoding

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cscarchive/endian"
	"github.com/arloliu/cscarchive/errs"
)

func TestFloat64Raw_RoundTrip(t *testing.T) {
	values := []float64{0, -0.5, 1.25, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(1), math.Inf(-1)}

	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		enc := NewFloat64RawEncoder(engine)
		enc.WriteSlice(values)
		enc.Write(3.5)
		require.Equal(t, len(values)+1, enc.Len())
		require.Equal(t, (len(values)+1)*8, enc.Size())

		want := append(slices.Clone(values), 3.5)
		got, err := NewFloat64RawDecoder(engine).Decode(enc.Bytes(), len(want))
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, want, slices.Collect(NewFloat64RawDecoder(engine).All(enc.Bytes(), len(want))))
		enc.Finish()
	}
}

func TestFloat64Raw_NaNBitsPreserved(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	nan := math.Float64frombits(0x7FF8000000000001)

	enc := NewFloat64RawEncoder(engine)
	defer enc.Finish()
	enc.Write(nan)

	got, err := NewFloat64RawDecoder(engine).Decode(enc.Bytes(), 1)
	require.NoError(t, err)
	require.Equal(t, uint64(0x7FF8000000000001), math.Float64bits(got[0]))
}

func TestFloat64Raw_DecodeInvalid(t *testing.T) {
	_, err := NewFloat64RawDecoder(endian.GetLittleEndianEngine()).Decode(make([]byte, 9), 1)
	require.ErrorIs(t, err, errs.ErrInvalidPayload)
}

func TestFloat64Raw_DecodeEmpty(t *testing.T) {
	got, err := NewFloat64RawDecoder(endian.GetLittleEndianEngine()).Decode(nil, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}
