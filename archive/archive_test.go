package archive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/format"
)

func newTestArchive(t *testing.T, opts ...Option) *Archive {
	t.Helper()

	a, err := New(opts...)
	require.NoError(t, err)

	return a
}

func TestNew_Defaults(t *testing.T) {
	a := newTestArchive(t)
	cfg := a.Config()

	require.Equal(t, format.CompressionNone, cfg.Compression())
	require.Equal(t, format.TypeRaw, cfg.IntArrayEncoding())
	require.Equal(t, format.TypeRaw, cfg.FloatArrayEncoding())
	require.False(t, cfg.IsBigEndian())
	require.Equal(t, DefaultMaxArrayLength, cfg.MaxArrayLength())
	require.Equal(t, 0, a.Len())
	require.Empty(t, a.Keys())
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(WithCompression(format.CompressionType(99)))
	require.Error(t, err)

	_, err = New(WithIntArrayEncoding(format.EncodingType(7)))
	require.Error(t, err)

	_, err = New(WithIntArrayEncoding(format.TypeGorilla))
	require.Error(t, err)

	_, err = New(WithFloatArrayEncoding(format.TypeDelta))
	require.Error(t, err)

	_, err = New(WithMaxArrayLength(-1))
	require.Error(t, err)
}

func TestArchive_WriteRead(t *testing.T) {
	a := newTestArchive(t)

	require.NoError(t, a.Write("format_version", NewInt64(1)))
	require.NoError(t, a.Write("indptr", NewInt64Array([]int64{0, 2, 3, 3})))
	require.NoError(t, a.Write("has_edge_type_ids", NewBool(false)))

	require.Equal(t, []string{"format_version", "indptr", "has_edge_type_ids"}, a.Keys())
	require.Equal(t, 3, a.Len())

	v, ok := a.Read("indptr")
	require.True(t, ok)
	require.Equal(t, format.KindInt64Array, v.Kind())

	_, ok = a.Read("indices")
	require.False(t, ok)
}

func TestArchive_WriteErrors(t *testing.T) {
	a := newTestArchive(t, WithMaxArrayLength(2))

	err := a.Write("", NewInt64(1))
	require.ErrorIs(t, err, errs.ErrInvalidKey)

	err = a.Write(strings.Repeat("k", 1<<16), NewInt64(1))
	require.ErrorIs(t, err, errs.ErrInvalidKey)

	require.NoError(t, a.Write("k", NewInt64(1)))
	err = a.Write("k", NewInt64(2))
	require.ErrorIs(t, err, errs.ErrDuplicateKey)

	err = a.Write("big", NewInt64Array([]int64{1, 2, 3}))
	require.ErrorIs(t, err, errs.ErrValueTooLarge)

	err = a.Write("zero", Value{})
	require.ErrorIs(t, err, errs.ErrInvalidValue)

	err = a.Write("nil-nested", NewNested(nil))
	require.ErrorIs(t, err, errs.ErrInvalidValue)

	// failed writes leave no entry behind
	require.Equal(t, []string{"k"}, a.Keys())
}

func TestArchive_WriteCopiesValue(t *testing.T) {
	a := newTestArchive(t)
	src := []int64{1, 2, 3}
	require.NoError(t, a.Write("arr", NewInt64Array(src)))
	src[1] = 100

	v, err := Read(a, "arr")
	require.NoError(t, err)
	got, err := v.AsInt64Array()
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, got)
}

func TestArchive_KeysIsCopy(t *testing.T) {
	a := newTestArchive(t)
	require.NoError(t, a.Write("a", NewBool(true)))

	keys := a.Keys()
	keys[0] = "mutated"
	require.Equal(t, []string{"a"}, a.Keys())
}

func TestArchive_AllStopsEarly(t *testing.T) {
	a := newTestArchive(t)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, a.Write(k, NewString(k)))
	}

	var seen []string
	for key := range a.All() {
		seen = append(seen, key)
		if key == "b" {
			break
		}
	}
	require.Equal(t, []string{"a", "b"}, seen)
}

func TestArchive_CloneAndEqual(t *testing.T) {
	a := newTestArchive(t, WithCompression(format.CompressionS2))
	require.NoError(t, a.Write("x", NewFloat64Array([]float64{1, 2})))

	c := a.Clone()
	require.True(t, a.Equal(c))
	require.Equal(t, format.CompressionS2, c.Config().Compression())

	require.NoError(t, c.Write("y", NewBool(true)))
	require.False(t, a.Equal(c))
	require.Equal(t, 1, a.Len())

	var nilArchive *Archive
	require.False(t, a.Equal(nil))
	require.True(t, nilArchive.Equal(nil))
}

func TestRead(t *testing.T) {
	a := newTestArchive(t)
	require.NoError(t, a.Write("format_version", NewInt64(3)))

	v, err := Read(a, "format_version")
	require.NoError(t, err)
	require.Equal(t, format.KindInt64, v.Kind())
	version, err := v.AsInt64()
	require.NoError(t, err)
	require.Equal(t, int64(3), version)

	_, err = Read(a, "nonexistent")
	require.ErrorIs(t, err, errs.ErrKeyNotFound)
	require.ErrorContains(t, err, `"nonexistent"`)
}
