package graph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/arloliu/cscarchive/archive"
	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/format"
)

// Format versions. Each version adds optional fields to the previous one and
// never changes how earlier fields are written.
const (
	// FormatVersionV1 stores the CSC arrays, edge type ids and node type offsets.
	FormatVersionV1 = 1
	// FormatVersionV2 adds edge attribute tables.
	FormatVersionV2 = 2
	// FormatVersionV3 adds node attribute tables and type name maps.
	FormatVersionV3 = 3

	MinFormatVersion     = FormatVersionV1
	CurrentFormatVersion = FormatVersionV3
)

// Entry keys.
const (
	KeyFormatVersion      = "format_version"
	KeyIndptr             = "indptr"
	KeyIndices            = "indices"
	KeyHasEdgeTypeIDs     = "has_edge_type_ids"
	KeyEdgeTypeIDs        = "edge_type_ids"
	KeyHasNodeTypeOffsets = "has_node_type_offsets"
	KeyNodeTypeOffsets    = "node_type_offsets"
	KeyHasEdgeAttributes  = "has_edge_attributes"
	KeyEdgeAttributeNames = "edge_attribute_names"
	KeyHasNodeAttributes  = "has_node_attributes"
	KeyNodeAttributeNames = "node_attribute_names"
	KeyHasTypeMaps        = "has_type_maps"
	KeyNodeTypeToID       = "node_type_to_id"
	KeyEdgeTypeToID       = "edge_type_to_id"

	EdgeAttributePrefix = "attr::"
	NodeAttributePrefix = "node_attr::"
)

// optionalField describes one optional part of the graph. It is written as a
// has_* presence flag followed, when present, by its entries.
type optionalField struct {
	name    string
	flagKey string
	since   int
	present func(g *SamplingGraph) bool
	write   func(w archive.Writer, g *SamplingGraph) error
	read    func(r archive.Reader, g *SamplingGraph) error
}

// optionalFields lists every optional field in write order.
var optionalFields = []optionalField{
	{
		name:    "edge type ids",
		flagKey: KeyHasEdgeTypeIDs,
		since:   FormatVersionV1,
		present: func(g *SamplingGraph) bool { return g.EdgeTypeIDs != nil },
		write: func(w archive.Writer, g *SamplingGraph) error {
			return w.Write(KeyEdgeTypeIDs, archive.NewInt64Array(g.EdgeTypeIDs))
		},
		read: func(r archive.Reader, g *SamplingGraph) (err error) {
			g.EdgeTypeIDs, err = readInt64Array(r, KeyEdgeTypeIDs)
			return err
		},
	},
	{
		name:    "node type offsets",
		flagKey: KeyHasNodeTypeOffsets,
		since:   FormatVersionV1,
		present: func(g *SamplingGraph) bool { return g.NodeTypeOffsets != nil },
		write: func(w archive.Writer, g *SamplingGraph) error {
			return w.Write(KeyNodeTypeOffsets, archive.NewInt64Array(g.NodeTypeOffsets))
		},
		read: func(r archive.Reader, g *SamplingGraph) (err error) {
			g.NodeTypeOffsets, err = readInt64Array(r, KeyNodeTypeOffsets)
			return err
		},
	},
	{
		name:    "edge attributes",
		flagKey: KeyHasEdgeAttributes,
		since:   FormatVersionV2,
		present: func(g *SamplingGraph) bool { return g.EdgeAttributes != nil },
		write: func(w archive.Writer, g *SamplingGraph) error {
			return writeAttributes(w, KeyEdgeAttributeNames, EdgeAttributePrefix, g.EdgeAttributes)
		},
		read: func(r archive.Reader, g *SamplingGraph) (err error) {
			g.EdgeAttributes, err = readAttributes(r, KeyEdgeAttributeNames, EdgeAttributePrefix)
			return err
		},
	},
	{
		name:    "node attributes",
		flagKey: KeyHasNodeAttributes,
		since:   FormatVersionV3,
		present: func(g *SamplingGraph) bool { return g.NodeAttributes != nil },
		write: func(w archive.Writer, g *SamplingGraph) error {
			return writeAttributes(w, KeyNodeAttributeNames, NodeAttributePrefix, g.NodeAttributes)
		},
		read: func(r archive.Reader, g *SamplingGraph) (err error) {
			g.NodeAttributes, err = readAttributes(r, KeyNodeAttributeNames, NodeAttributePrefix)
			return err
		},
	},
	{
		name:    "type maps",
		flagKey: KeyHasTypeMaps,
		since:   FormatVersionV3,
		present: func(g *SamplingGraph) bool { return g.NodeTypeToID != nil || g.EdgeTypeToID != nil },
		write: func(w archive.Writer, g *SamplingGraph) error {
			if err := writeTypeMap(w, KeyNodeTypeToID, g.NodeTypeToID); err != nil {
				return err
			}

			return writeTypeMap(w, KeyEdgeTypeToID, g.EdgeTypeToID)
		},
		read: func(r archive.Reader, g *SamplingGraph) (err error) {
			if g.NodeTypeToID, err = readTypeMap(r, KeyNodeTypeToID); err != nil {
				return err
			}
			g.EdgeTypeToID, err = readTypeMap(r, KeyEdgeTypeToID)

			return err
		},
	},
}

// writeAttributes writes the sorted attribute names followed by one entry per table.
func writeAttributes(w archive.Writer, namesKey, prefix string, attrs map[string]archive.Value) error {
	names := slices.Sorted(maps.Keys(attrs))
	if err := w.Write(namesKey, archive.NewStringArray(names)); err != nil {
		return err
	}

	for _, name := range names {
		if err := w.Write(prefix+name, attrs[name]); err != nil {
			return err
		}
	}

	return nil
}

func readAttributes(r archive.Reader, namesKey, prefix string) (map[string]archive.Value, error) {
	v, err := readKind(r, namesKey, format.KindStringArray)
	if err != nil {
		return nil, err
	}
	names, _ := v.AsStringArray()

	attrs := make(map[string]archive.Value, len(names))
	for _, name := range names {
		if _, dup := attrs[name]; dup {
			return nil, fmt.Errorf("%w: attribute %q listed twice in %q", errs.ErrDuplicateKey, name, namesKey)
		}

		v, err := archive.Read(r, prefix+name)
		if err != nil {
			return nil, err
		}

		if v.Kind() != format.KindInt64Array && v.Kind() != format.KindFloat64Array {
			return nil, fmt.Errorf("%w: %q is %s, want an int64 or float64 array", errs.ErrTypeMismatch, prefix+name, v.Kind())
		}
		attrs[name] = v.Clone()
	}

	return attrs, nil
}

// writeTypeMap stores m as a nested archive of Int64 entries in name order.
func writeTypeMap(w archive.Writer, key string, m map[string]int64) error {
	nested, err := archive.New()
	if err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(m)) {
		if err := nested.Write(name, archive.NewInt64(m[name])); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	return w.Write(key, archive.NewNested(nested))
}

func readTypeMap(r archive.Reader, key string) (map[string]int64, error) {
	v, err := readKind(r, key, format.KindArchive)
	if err != nil {
		return nil, err
	}
	nested, _ := v.AsArchive()

	m := make(map[string]int64, nested.Len())
	for name, idv := range nested.All() {
		id, err := idv.AsInt64()
		if err != nil {
			return nil, fmt.Errorf("%s[%q]: %w", key, name, err)
		}
		m[name] = id
	}

	return m, nil
}

// readKind reads key and checks that its value has the wanted kind.
func readKind(r archive.Reader, key string, want format.ValueKind) (archive.Value, error) {
	v, err := archive.Read(r, key)
	if err != nil {
		return archive.Value{}, err
	}

	if v.Kind() != want {
		return archive.Value{}, fmt.Errorf("%w: %q is %s, want %s", errs.ErrTypeMismatch, key, v.Kind(), want)
	}

	return v, nil
}

// readInt64Array reads key as an Int64Array and returns a copy owned by the caller.
func readInt64Array(r archive.Reader, key string) ([]int64, error) {
	v, err := readKind(r, key, format.KindInt64Array)
	if err != nil {
		return nil, err
	}
	values, _ := v.AsInt64Array()

	return slices.Clone(values), nil
}

func readBool(r archive.Reader, key string) (bool, error) {
	v, err := readKind(r, key, format.KindBool)
	if err != nil {
		return false, err
	}

	return v.AsBool()
}
