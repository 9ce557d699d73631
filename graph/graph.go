package graph

import (
	"maps"
	"slices"

	"github.com/arloliu/cscarchive/archive"
	"github.com/arloliu/cscarchive/internal/options"
)

// SamplingGraph is a directed graph in Compressed Sparse Column layout.
//
// The in-neighbors of node i are Indices[Indptr[i]:Indptr[i+1]]. Optional
// fields are absent when nil; a non-nil empty slice or map is present and
// round-trips as present.
type SamplingGraph struct {
	// Indptr has node_count+1 non-decreasing offsets into Indices, starting at 0.
	Indptr []int64
	// Indices holds in-neighbor node ids, grouped by destination node.
	Indices []int64

	// EdgeTypeIDs is parallel to Indices in heterogeneous graphs.
	EdgeTypeIDs []int64
	// NodeTypeOffsets partitions [0, node_count) into contiguous per-type ranges.
	NodeTypeOffsets []int64

	// EdgeAttributes maps a name to an Int64Array or Float64Array aligned with Indices.
	EdgeAttributes map[string]archive.Value
	// NodeAttributes maps a name to an Int64Array or Float64Array with one element per node.
	NodeAttributes map[string]archive.Value

	// NodeTypeToID and EdgeTypeToID name the type ids. Both are set or both are nil.
	NodeTypeToID map[string]int64
	EdgeTypeToID map[string]int64

	// FormatVersion selects the archive layout. Zero means the newest version
	// the saving codec supports.
	FormatVersion int
}

// Option configures a graph built by New.
type Option = options.Option[*SamplingGraph]

// New builds a graph from CSC arrays and validates it. The slices are
// retained, not copied.
func New(indptr, indices []int64, opts ...Option) (*SamplingGraph, error) {
	g := &SamplingGraph{Indptr: indptr, Indices: indices}
	if err := options.Apply(g, opts...); err != nil {
		return nil, err
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// WithEdgeTypeIDs sets the per-edge type ids.
func WithEdgeTypeIDs(ids []int64) Option {
	return options.NoError(func(g *SamplingGraph) {
		g.EdgeTypeIDs = ids
	})
}

// WithNodeTypeOffsets sets the node type partition.
func WithNodeTypeOffsets(offsets []int64) Option {
	return options.NoError(func(g *SamplingGraph) {
		g.NodeTypeOffsets = offsets
	})
}

// WithEdgeAttribute adds one edge attribute table.
func WithEdgeAttribute(name string, v archive.Value) Option {
	return options.NoError(func(g *SamplingGraph) {
		if g.EdgeAttributes == nil {
			g.EdgeAttributes = make(map[string]archive.Value)
		}
		g.EdgeAttributes[name] = v
	})
}

// WithNodeAttribute adds one node attribute table.
func WithNodeAttribute(name string, v archive.Value) Option {
	return options.NoError(func(g *SamplingGraph) {
		if g.NodeAttributes == nil {
			g.NodeAttributes = make(map[string]archive.Value)
		}
		g.NodeAttributes[name] = v
	})
}

// WithTypeMaps sets the node and edge type name maps.
func WithTypeMaps(nodeTypes, edgeTypes map[string]int64) Option {
	return options.NoError(func(g *SamplingGraph) {
		g.NodeTypeToID = nodeTypes
		g.EdgeTypeToID = edgeTypes
	})
}

// WithFormatVersion pins the archive format version used by Save.
func WithFormatVersion(version int) Option {
	return options.NoError(func(g *SamplingGraph) {
		g.FormatVersion = version
	})
}

// NodeCount returns the number of nodes.
func (g *SamplingGraph) NodeCount() int {
	if len(g.Indptr) == 0 {
		return 0
	}

	return len(g.Indptr) - 1
}

// EdgeCount returns the number of edges.
func (g *SamplingGraph) EdgeCount() int {
	return len(g.Indices)
}

// InDegree returns the in-degree of node, or 0 if node is out of range.
func (g *SamplingGraph) InDegree(node int) int {
	if node < 0 || node >= g.NodeCount() {
		return 0
	}

	return int(g.Indptr[node+1] - g.Indptr[node])
}

// InNeighbors returns the in-neighbors of node as a sub-slice of Indices,
// or nil if node is out of range. The graph must be valid.
func (g *SamplingGraph) InNeighbors(node int) []int64 {
	if node < 0 || node >= g.NodeCount() {
		return nil
	}

	return g.Indices[g.Indptr[node]:g.Indptr[node+1]]
}

// IsHeterogeneous reports whether the graph carries node or edge type data.
func (g *SamplingGraph) IsHeterogeneous() bool {
	return g.EdgeTypeIDs != nil || g.NodeTypeOffsets != nil
}

// Clone returns a deep copy of g, preserving the nil/non-nil state of every field.
func (g *SamplingGraph) Clone() *SamplingGraph {
	return &SamplingGraph{
		Indptr:          slices.Clone(g.Indptr),
		Indices:         slices.Clone(g.Indices),
		EdgeTypeIDs:     slices.Clone(g.EdgeTypeIDs),
		NodeTypeOffsets: slices.Clone(g.NodeTypeOffsets),
		EdgeAttributes:  cloneAttributes(g.EdgeAttributes),
		NodeAttributes:  cloneAttributes(g.NodeAttributes),
		NodeTypeToID:    maps.Clone(g.NodeTypeToID),
		EdgeTypeToID:    maps.Clone(g.EdgeTypeToID),
		FormatVersion:   g.FormatVersion,
	}
}

func cloneAttributes(attrs map[string]archive.Value) map[string]archive.Value {
	if attrs == nil {
		return nil
	}

	out := make(map[string]archive.Value, len(attrs))
	for name, v := range attrs {
		out[name] = v.Clone()
	}

	return out
}

// Equal reports structural equality: every array, attribute table and type
// map must match, and each optional field must be present in both graphs or
// absent in both. FormatVersion is a layout tag and is not compared.
func (g *SamplingGraph) Equal(other *SamplingGraph) bool {
	if g == nil || other == nil {
		return g == other
	}

	return equalInts(g.Indptr, other.Indptr) &&
		equalInts(g.Indices, other.Indices) &&
		equalInts(g.EdgeTypeIDs, other.EdgeTypeIDs) &&
		equalInts(g.NodeTypeOffsets, other.NodeTypeOffsets) &&
		equalAttributes(g.EdgeAttributes, other.EdgeAttributes) &&
		equalAttributes(g.NodeAttributes, other.NodeAttributes) &&
		equalTypeMap(g.NodeTypeToID, other.NodeTypeToID) &&
		equalTypeMap(g.EdgeTypeToID, other.EdgeTypeToID)
}

func equalInts(a, b []int64) bool {
	return (a == nil) == (b == nil) && slices.Equal(a, b)
}

func equalTypeMap(a, b map[string]int64) bool {
	return (a == nil) == (b == nil) && maps.Equal(a, b)
}

func equalAttributes(a, b map[string]archive.Value) bool {
	if (a == nil) != (b == nil) {
		return false
	}

	return maps.EqualFunc(a, b, archive.Value.Equal)
}
