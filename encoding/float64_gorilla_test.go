package encoding

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cscarchive/errs"
)

func encodeGorilla(t *testing.T, values []float64) []byte {
	t.Helper()

	enc := NewFloat64GorillaEncoder()
	defer enc.Finish()
	enc.WriteSlice(values)
	require.Equal(t, len(values), enc.Len())
	require.Equal(t, len(enc.Bytes()), enc.Size())

	return slices.Clone(enc.Bytes())
}

func TestFloat64Gorilla_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11)) //nolint:gosec
	random := make([]float64, 500)
	for i := range random {
		random[i] = rng.NormFloat64() * 1e6
	}

	slow := make([]float64, 300)
	for i := range slow {
		slow[i] = 20 + math.Sin(float64(i)/10)
	}

	tests := []struct {
		name   string
		values []float64
	}{
		{"single", []float64{1.5}},
		{"constant", []float64{3, 3, 3, 3, 3}},
		{"special", []float64{0, math.Copysign(0, -1), math.Inf(1), math.Inf(-1), math.MaxFloat64, math.SmallestNonzeroFloat64, 1}},
		{"alternating", []float64{1, -1, 1, -1, 1, -1}},
		{"integers", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"random", random},
		{"slowly changing", slow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeGorilla(t, tt.values)

			got, err := NewFloat64GorillaDecoder().Decode(data, len(tt.values))
			require.NoError(t, err)
			require.Len(t, got, len(tt.values))
			for i := range got {
				require.Equal(t, math.Float64bits(tt.values[i]), math.Float64bits(got[i]), "index %d", i)
			}

			require.Equal(t, len(tt.values), len(slices.Collect(NewFloat64GorillaDecoder().All(data, len(tt.values)))))
		})
	}
}

func TestFloat64Gorilla_NaNBitsPreserved(t *testing.T) {
	values := []float64{math.Float64frombits(0x7FF8000000000001), math.NaN(), 1}
	data := encodeGorilla(t, values)

	got, err := NewFloat64GorillaDecoder().Decode(data, len(values))
	require.NoError(t, err)
	require.Equal(t, uint64(0x7FF8000000000001), math.Float64bits(got[0]))
	require.True(t, math.IsNaN(got[1]))
}

func TestFloat64Gorilla_Empty(t *testing.T) {
	data := encodeGorilla(t, nil)
	require.Empty(t, data)

	got, err := NewFloat64GorillaDecoder().Decode(data, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFloat64Gorilla_ConstantSeriesIsOneBitPerValue(t *testing.T) {
	values := make([]float64, 801)
	for i := range values {
		values[i] = 42.5
	}

	// 64 bits for the first value, then 800 single zero bits
	require.Len(t, encodeGorilla(t, values), 8+100)
}

func TestFloat64Gorilla_BytesMidStream(t *testing.T) {
	enc := NewFloat64GorillaEncoder()
	defer enc.Finish()

	enc.Write(1)
	enc.Write(1)
	_ = enc.Bytes()
	enc.Write(2)

	got, err := NewFloat64GorillaDecoder().Decode(enc.Bytes(), 3)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 2}, got)
}

func TestFloat64Gorilla_Malformed(t *testing.T) {
	valid := encodeGorilla(t, []float64{1, 2, 3, 4})
	dec := NewFloat64GorillaDecoder()

	t.Run("truncated", func(t *testing.T) {
		_, err := dec.Decode(valid[:len(valid)-1], 4)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := dec.Decode(append(slices.Clone(valid), 0), 4)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("too short for count", func(t *testing.T) {
		_, err := dec.Decode([]byte{1, 2, 3}, 1)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("data without values", func(t *testing.T) {
		_, err := dec.Decode([]byte{1}, 0)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("block reuse before any block", func(t *testing.T) {
		data := make([]byte, 9)
		data[8] = 0b1000_0000
		_, err := dec.Decode(data, 2)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("negative count", func(t *testing.T) {
		_, err := dec.Decode(valid, -1)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})
}

func BenchmarkFloat64Gorilla_Encode(b *testing.B) {
	values := make([]float64, 4096)
	for i := range values {
		values[i] = 20 + math.Sin(float64(i)/50)
	}

	for b.Loop() {
		enc := NewFloat64GorillaEncoder()
		enc.WriteSlice(values)
		_ = enc.Bytes()
		enc.Finish()
	}
}
