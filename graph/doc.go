// Package graph models a sampling graph in Compressed Sparse Column (CSC)
// form and maps it to and from a flat set of named archive entries.
//
// # Entry layout
//
// Save writes entries in a fixed order:
//
//	format_version          Int64
//	indptr                  Int64Array
//	indices                 Int64Array
//	has_edge_type_ids       Bool     v1+
//	edge_type_ids           Int64Array, when present
//	has_node_type_offsets   Bool     v1+
//	node_type_offsets       Int64Array, when present
//	has_edge_attributes     Bool     v2+
//	edge_attribute_names    StringArray (sorted), then attr::<name> per table
//	has_node_attributes     Bool     v3+
//	node_attribute_names    StringArray (sorted), then node_attr::<name> per table
//	has_type_maps           Bool     v3+
//	node_type_to_id         nested archive of Int64, then edge_type_to_id
//
// A graph saved at version v carries only the presence flags introduced at
// or before v. Load reads format_version first and leaves later fields nil.
//
// # Usage
//
//	g, err := graph.New([]int64{0, 2, 3, 3}, []int64{1, 2, 0})
//	a, _ := archive.New(archive.WithCompression(format.CompressionZstd))
//	err = graph.Save(g, a)
//	data, err := a.MarshalBinary()
//
//	decoded, err := archive.Unmarshal(data)
//	g2, err := graph.Load(decoded)
package graph
