package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cscarchive/archive"
	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/section"
)

// heteroGraph builds a 4-node, 5-edge graph with every optional field set.
func heteroGraph(t *testing.T) *SamplingGraph {
	t.Helper()

	g, err := New(
		[]int64{0, 2, 3, 3, 5},
		[]int64{1, 2, 0, 0, 3},
		WithEdgeTypeIDs([]int64{0, 1, 0, 1, 1}),
		WithNodeTypeOffsets([]int64{0, 2, 4}),
		WithEdgeAttribute("weight", archive.NewFloat64Array([]float64{0.5, 1, 1.5, 2, 2.5})),
		WithEdgeAttribute("timestamp", archive.NewInt64Array([]int64{10, 20, 30, 40, 50})),
		WithNodeAttribute("feat", archive.NewFloat64Array([]float64{1, 2, 3, 4})),
		WithTypeMaps(
			map[string]int64{"user": 0, "item": 1},
			map[string]int64{"user:clicks:item": 0, "item:rev:user": 1},
		),
	)
	require.NoError(t, err)

	return g
}

func TestNew_Homogeneous(t *testing.T) {
	g, err := New([]int64{0, 2, 3, 3}, []int64{1, 2, 0})
	require.NoError(t, err)

	require.Equal(t, 3, g.NodeCount())
	require.Equal(t, 3, g.EdgeCount())
	require.False(t, g.IsHeterogeneous())
	require.Nil(t, g.EdgeTypeIDs)
	require.Nil(t, g.NodeTypeOffsets)
	require.Nil(t, g.EdgeAttributes)
	require.Zero(t, g.FormatVersion)
}

func TestNew_RejectsInvalid(t *testing.T) {
	_, err := New([]int64{0, 3, 1, 5}, []int64{0, 1, 2, 0, 1})
	require.ErrorIs(t, err, errs.ErrIndptrNotMonotonic)

	_, err = New([]int64{0, 1}, []int64{0},
		WithTypeMaps(map[string]int64{"": 0}, map[string]int64{"self": 0}))
	require.ErrorIs(t, err, errs.ErrInvalidTypeMaps)
}

func TestSamplingGraph_Accessors(t *testing.T) {
	g := heteroGraph(t)

	require.True(t, g.IsHeterogeneous())
	require.Equal(t, 2, g.InDegree(0))
	require.Equal(t, 0, g.InDegree(2))
	require.Equal(t, 0, g.InDegree(-1))
	require.Equal(t, 0, g.InDegree(4))
	require.Equal(t, []int64{1, 2}, g.InNeighbors(0))
	require.Equal(t, []int64{0, 3}, g.InNeighbors(3))
	require.Empty(t, g.InNeighbors(2))
	require.Nil(t, g.InNeighbors(9))

	empty := &SamplingGraph{}
	require.Equal(t, 0, empty.NodeCount())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *SamplingGraph)
		want   error
	}{
		{"empty indptr", func(g *SamplingGraph) { g.Indptr = []int64{} }, errs.ErrEmptyIndptr},
		{"nonzero start", func(g *SamplingGraph) { g.Indptr[0] = 1 }, errs.ErrIndptrStart},
		{"not monotonic", func(g *SamplingGraph) { g.Indptr[2] = 1 }, errs.ErrIndptrNotMonotonic},
		{"edge count mismatch", func(g *SamplingGraph) { g.Indices = g.Indices[:4] }, errs.ErrIndptrEdgeMismatch},
		{"index too large", func(g *SamplingGraph) { g.Indices[0] = 4 }, errs.ErrIndexOutOfRange},
		{"negative index", func(g *SamplingGraph) { g.Indices[0] = -1 }, errs.ErrIndexOutOfRange},
		{"edge type length", func(g *SamplingGraph) { g.EdgeTypeIDs = g.EdgeTypeIDs[:2] }, errs.ErrEdgeTypeLength},
		{"negative edge type", func(g *SamplingGraph) { g.EdgeTypeIDs[0] = -1 }, errs.ErrNegativeEdgeTypeID},
		{"offsets gap", func(g *SamplingGraph) { g.NodeTypeOffsets = []int64{0, 2, 3} }, errs.ErrInvalidNodeTypeOffsets},
		{"offsets overlap", func(g *SamplingGraph) { g.NodeTypeOffsets = []int64{0, 3, 2, 4} }, errs.ErrInvalidNodeTypeOffsets},
		{"offsets start", func(g *SamplingGraph) { g.NodeTypeOffsets = []int64{1, 4} }, errs.ErrInvalidNodeTypeOffsets},
		{"offsets empty", func(g *SamplingGraph) { g.NodeTypeOffsets = []int64{} }, errs.ErrInvalidNodeTypeOffsets},
		{"attribute length", func(g *SamplingGraph) {
			g.EdgeAttributes["weight"] = archive.NewFloat64Array([]float64{1})
		}, errs.ErrInvalidAttribute},
		{"attribute kind", func(g *SamplingGraph) {
			g.EdgeAttributes["weight"] = archive.NewStringArray([]string{"a", "b", "c", "d", "e"})
		}, errs.ErrInvalidAttribute},
		{"attribute name", func(g *SamplingGraph) {
			g.NodeAttributes[""] = archive.NewInt64Array([]int64{1, 2, 3, 4})
		}, errs.ErrInvalidAttribute},
		{"node attribute length", func(g *SamplingGraph) {
			g.NodeAttributes["feat"] = archive.NewInt64Array([]int64{1, 2, 3, 4, 5})
		}, errs.ErrInvalidAttribute},
		{"one type map", func(g *SamplingGraph) { g.EdgeTypeToID = nil }, errs.ErrInvalidTypeMaps},
		{"type count", func(g *SamplingGraph) { g.NodeTypeToID["extra"] = 2 }, errs.ErrInvalidTypeMaps},
		{"duplicate type id", func(g *SamplingGraph) { g.EdgeTypeToID["item:rev:user"] = 0 }, errs.ErrInvalidTypeMaps},
		{"negative type id", func(g *SamplingGraph) { g.EdgeTypeToID["item:rev:user"] = -3 }, errs.ErrInvalidTypeMaps},
		{"empty edge type name", func(g *SamplingGraph) { g.EdgeTypeToID[""] = 7 }, errs.ErrInvalidTypeMaps},
		{"empty node type name", func(g *SamplingGraph) {
			id := g.NodeTypeToID["item"]
			delete(g.NodeTypeToID, "item")
			g.NodeTypeToID[""] = id
		}, errs.ErrInvalidTypeMaps},
		{"long type name", func(g *SamplingGraph) {
			g.EdgeTypeToID[strings.Repeat("x", section.MaxKeyLength+1)] = 7
		}, errs.ErrInvalidTypeMaps},
		{"field newer than version", func(g *SamplingGraph) { g.FormatVersion = FormatVersionV1 }, errs.ErrFieldNotSupported},
		{"unknown version", func(g *SamplingGraph) { g.FormatVersion = CurrentFormatVersion + 1 }, errs.ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := heteroGraph(t)
			require.NoError(t, g.Validate())

			tt.mutate(g)
			require.ErrorIs(t, g.Validate(), tt.want)
		})
	}
}

func TestValidate_EmptyGraph(t *testing.T) {
	g := &SamplingGraph{Indptr: []int64{0}, Indices: []int64{}}
	require.NoError(t, g.Validate())
	require.Equal(t, 0, g.NodeCount())

	g.NodeTypeOffsets = []int64{0}
	require.NoError(t, g.Validate())
}

func TestValidate_TypeMapsWithoutOffsets(t *testing.T) {
	g := heteroGraph(t)
	g.NodeTypeOffsets = nil
	g.NodeTypeToID["extra"] = 7

	require.NoError(t, g.Validate())
}

func TestSamplingGraph_CloneIsDeep(t *testing.T) {
	g := heteroGraph(t)
	c := g.Clone()
	require.True(t, g.Equal(c))

	c.Indices[0] = 3
	c.NodeTypeToID["user"] = 5
	c.EdgeAttributes["new"] = archive.NewInt64Array(make([]int64, 5))

	require.Equal(t, int64(1), g.Indices[0])
	require.Equal(t, int64(0), g.NodeTypeToID["user"])
	require.NotContains(t, g.EdgeAttributes, "new")
	require.False(t, g.Equal(c))
}

func TestSamplingGraph_Equal(t *testing.T) {
	a := heteroGraph(t)
	b := heteroGraph(t)
	require.True(t, a.Equal(b))

	b.FormatVersion = FormatVersionV3
	require.True(t, a.Equal(b), "format version is not structural")

	// present-but-empty differs from absent
	x := &SamplingGraph{Indptr: []int64{0}, Indices: []int64{}}
	y := x.Clone()
	y.EdgeTypeIDs = []int64{}
	require.False(t, x.Equal(y))

	y = x.Clone()
	y.EdgeAttributes = map[string]archive.Value{}
	require.False(t, x.Equal(y))

	require.False(t, x.Equal(nil))
	var nilGraph *SamplingGraph
	require.True(t, nilGraph.Equal(nil))
}
