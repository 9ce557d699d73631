// Package encoding implements the columnar array encodings used for archive
// entry payloads.
//
// Every array value in an archive is stored as one contiguous payload. Which
// encoder produced it is recorded in the entry's index record, so the reader
// never guesses:
//
// Int64 arrays (indptr, indices, type ids, integer attributes):
//   - Int64RawEncoder/Decoder: 8 bytes per element in the archive byte order
//   - Int64DeltaEncoder/Decoder: first element, then the difference to the
//     previous element, each zigzag + varint encoded
//
// Delta encoding fits CSC data well: consecutive indptr differences are node
// in-degrees, and indices within one neighborhood are often close together.
// A regular graph with average degree below 64 needs 1 byte per indptr element.
//
// Float64 arrays (float attributes):
//   - Float64RawEncoder/Decoder: IEEE-754 bits, 8 bytes per element
//   - Float64GorillaEncoder/Decoder: XOR against the previous element with
//     leading/trailing zero elision; repeated values cost 1 bit
//
// String arrays (attribute name lists):
//   - StringArrayEncoder/Decoder: uvarint length prefix followed by UTF-8 bytes
//
// Encoders borrow buffers from the internal pool; call Finish once the bytes
// have been copied out. Decoders are stateless values and validate that the
// payload holds exactly count elements.
package encoding
