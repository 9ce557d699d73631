package graph

import (
	"fmt"

	"github.com/arloliu/cscarchive/archive"
	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/format"
	"github.com/arloliu/cscarchive/section"
)

// Validate checks the CSC invariants and that every present optional field is
// supported by the graph's format version. The returned error wraps one of
// the graph invariant errors in package errs.
func (g *SamplingGraph) Validate() error {
	version := g.FormatVersion
	if version == 0 {
		version = CurrentFormatVersion
	}

	return g.validate(version)
}

func (g *SamplingGraph) validate(version int) error {
	if version < MinFormatVersion || version > CurrentFormatVersion {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, version)
	}

	if err := g.validateTopology(); err != nil {
		return err
	}

	nodes := int64(g.NodeCount())
	edges := len(g.Indices)

	if g.EdgeTypeIDs != nil {
		if len(g.EdgeTypeIDs) != edges {
			return fmt.Errorf("%w: %d ids for %d edges", errs.ErrEdgeTypeLength, len(g.EdgeTypeIDs), edges)
		}
		for i, id := range g.EdgeTypeIDs {
			if id < 0 {
				return fmt.Errorf("%w: %d at edge %d", errs.ErrNegativeEdgeTypeID, id, i)
			}
		}
	}

	if g.NodeTypeOffsets != nil {
		if err := validateNodeTypeOffsets(g.NodeTypeOffsets, nodes); err != nil {
			return err
		}
	}

	if err := validateAttributes("edge", g.EdgeAttributes, edges); err != nil {
		return err
	}

	if err := validateAttributes("node", g.NodeAttributes, int(nodes)); err != nil {
		return err
	}

	if err := g.validateTypeMaps(); err != nil {
		return err
	}

	for _, f := range optionalFields {
		if f.present(g) && f.since > version {
			return fmt.Errorf("%w: %s requires format version %d, graph uses %d", errs.ErrFieldNotSupported, f.name, f.since, version)
		}
	}

	return nil
}

func (g *SamplingGraph) validateTopology() error {
	if len(g.Indptr) == 0 {
		return errs.ErrEmptyIndptr
	}

	if g.Indptr[0] != 0 {
		return fmt.Errorf("%w: got %d", errs.ErrIndptrStart, g.Indptr[0])
	}

	for i := 1; i < len(g.Indptr); i++ {
		if g.Indptr[i] < g.Indptr[i-1] {
			return fmt.Errorf("%w: indptr[%d]=%d < indptr[%d]=%d", errs.ErrIndptrNotMonotonic, i, g.Indptr[i], i-1, g.Indptr[i-1])
		}
	}

	if last := g.Indptr[len(g.Indptr)-1]; last != int64(len(g.Indices)) {
		return fmt.Errorf("%w: indptr ends at %d, %d indices", errs.ErrIndptrEdgeMismatch, last, len(g.Indices))
	}

	nodes := int64(g.NodeCount())
	for k, n := range g.Indices {
		if n < 0 || n >= nodes {
			return fmt.Errorf("%w: indices[%d]=%d, node count %d", errs.ErrIndexOutOfRange, k, n, nodes)
		}
	}

	return nil
}

func validateNodeTypeOffsets(offsets []int64, nodes int64) error {
	if len(offsets) == 0 {
		return fmt.Errorf("%w: empty", errs.ErrInvalidNodeTypeOffsets)
	}

	if offsets[0] != 0 {
		return fmt.Errorf("%w: starts at %d", errs.ErrInvalidNodeTypeOffsets, offsets[0])
	}

	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return fmt.Errorf("%w: decreases at %d", errs.ErrInvalidNodeTypeOffsets, i)
		}
	}

	if last := offsets[len(offsets)-1]; last != nodes {
		return fmt.Errorf("%w: ends at %d, node count %d", errs.ErrInvalidNodeTypeOffsets, last, nodes)
	}

	return nil
}

func validateAttributes(scope string, attrs map[string]archive.Value, want int) error {
	for name, v := range attrs {
		if name == "" {
			return fmt.Errorf("%w: empty %s attribute name", errs.ErrInvalidAttribute, scope)
		}

		if v.Kind() != format.KindInt64Array && v.Kind() != format.KindFloat64Array {
			return fmt.Errorf("%w: %s attribute %q has kind %s", errs.ErrInvalidAttribute, scope, name, v.Kind())
		}

		if v.Len() != want {
			return fmt.Errorf("%w: %s attribute %q has %d elements, want %d", errs.ErrInvalidAttribute, scope, name, v.Len(), want)
		}
	}

	return nil
}

func (g *SamplingGraph) validateTypeMaps() error {
	if (g.NodeTypeToID == nil) != (g.EdgeTypeToID == nil) {
		return fmt.Errorf("%w: node and edge type maps must be set together", errs.ErrInvalidTypeMaps)
	}

	if g.NodeTypeToID == nil {
		return nil
	}

	if g.NodeTypeOffsets != nil && len(g.NodeTypeToID) != len(g.NodeTypeOffsets)-1 {
		return fmt.Errorf("%w: %d node types for %d type ranges", errs.ErrInvalidTypeMaps, len(g.NodeTypeToID), len(g.NodeTypeOffsets)-1)
	}

	for scope, m := range map[string]map[string]int64{"node": g.NodeTypeToID, "edge": g.EdgeTypeToID} {
		seen := make(map[int64]string, len(m))
		for name, id := range m {
			// names become keys of the nested type map archives
			if name == "" || len(name) > section.MaxKeyLength {
				return fmt.Errorf("%w: %s type name of %d bytes", errs.ErrInvalidTypeMaps, scope, len(name))
			}
			if id < 0 {
				return fmt.Errorf("%w: %s type %q has negative id %d", errs.ErrInvalidTypeMaps, scope, name, id)
			}
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("%w: %s types %q and %q share id %d", errs.ErrInvalidTypeMaps, scope, prev, name, id)
			}
			seen[id] = name
		}
	}

	return nil
}
