// Package section defines the fixed-size byte layouts of an archive container.
//
// An encoded archive has four consecutive sections:
//
//	+-----------------------+  offset 0
//	| Header (32 bytes)     |
//	+-----------------------+  offset 32
//	| Index (24 bytes each) |  one IndexEntry per archive entry, in write order
//	+-----------------------+  Header.KeysOffset
//	| Keys                  |  entry keys concatenated, lengths come from the index
//	+-----------------------+  Header.PayloadOffset
//	| Payload               |  encoded values concatenated, then compressed as one block
//	+-----------------------+
//
// Header layout:
//
//	[0:2]   Options: magic number (bits 4-15), endianness (bit 1), reserved bits 0, 2, 3
//	[2]     container revision
//	[3]     payload compression (format.CompressionType)
//	[4:8]   entry count
//	[8:12]  keys offset
//	[12:16] payload offset
//	[16:20] stored (compressed) payload length
//	[20:24] raw (decompressed) payload length
//	[24:32] xxHash64 of everything after the header
//
// The Options field is always little-endian so the byte order of the rest of
// the container can be read from it.
package section
