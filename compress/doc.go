// Package compress provides the payload compression codecs of the archive container.
//
// An archive compresses its value payload as a single block after all entries
// are encoded. The header records which codec was used, so readers pick the
// matching decompressor without configuration:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
//
// Available codecs:
//   - None: payload stored as-is
//   - Zstd: best ratio, pure Go by default (klauspost/compress); built with the
//     "gozstd" tag and cgo enabled it uses the libzstd binding instead
//   - S2: fast, moderate ratio (klauspost/compress/s2)
//   - LZ4: fastest decompression (pierrec/lz4)
//
// Large CSC arrays delta-encode well, so zstd is a good default for archives
// written once and loaded many times.
package compress
