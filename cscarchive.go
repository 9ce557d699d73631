// Package cscarchive persists sampling graphs in Compressed Sparse Column
// (CSC) form as compact, checksummed binary archives.
//
// A graph is flattened into an ordered set of named, typed entries
// (format_version, indptr, indices, presence flags and optional fields) that
// are stored in a key/value archive container. Archives are versioned: newer
// codecs read every older format, and older codecs refuse newer archives.
//
// # Core Features
//
//   - Versioned graph layout with presence flags for optional fields
//   - Typed archive values: scalars, int64/float64/string arrays, nested archives
//   - Raw or delta-zigzag-varint int64 arrays
//   - Optional payload compression (None, Zstd, S2, LZ4)
//   - xxHash64 key hashes and payload checksum
//
// # Basic Usage
//
//	g, _ := graph.New([]int64{0, 2, 3, 3}, []int64{1, 2, 0})
//
//	var buf bytes.Buffer
//	_, err := cscarchive.SaveGraph(&buf, g)
//
//	loaded, err := cscarchive.LoadGraph(&buf)
//
// # Package Structure
//
// This package wraps the graph and archive packages for the common cases.
// Use those packages directly to inspect individual entries or to store
// graphs inside a larger archive.
package cscarchive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arloliu/cscarchive/archive"
	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/format"
	"github.com/arloliu/cscarchive/graph"
	"github.com/arloliu/cscarchive/internal/options"
)

// defaultArchiveOptions favor small files: indptr is sorted, so delta
// encoding plus zstd shrinks it well.
var defaultArchiveOptions = []archive.Option{
	archive.WithLittleEndian(),
	archive.WithIntArrayEncoding(format.TypeDelta),
	archive.WithCompression(format.CompressionZstd),
}

// Config collects the archive and codec options used by the facade functions.
type Config struct {
	archiveOpts []archive.Option
	codecOpts   []graph.CodecOption
}

// Option configures SaveGraph, LoadGraph and the file helpers.
type Option = options.Option[*Config]

// WithArchiveOptions appends archive options, applied after the defaults.
// They only affect saving; loading takes its settings from the container.
func WithArchiveOptions(opts ...archive.Option) Option {
	return options.NoError(func(c *Config) {
		c.archiveOpts = append(c.archiveOpts, opts...)
	})
}

// WithCodecOptions appends graph codec options.
func WithCodecOptions(opts ...graph.CodecOption) Option {
	return options.NoError(func(c *Config) {
		c.codecOpts = append(c.codecOpts, opts...)
	})
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{archiveOpts: append([]archive.Option{}, defaultArchiveOptions...)}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewArchive creates an empty archive with the default options followed by opts.
func NewArchive(opts ...archive.Option) (*archive.Archive, error) {
	return archive.New(append(append([]archive.Option{}, defaultArchiveOptions...), opts...)...)
}

// EncodeGraph saves g into a new archive and returns the encoded container.
func EncodeGraph(g *graph.SamplingGraph, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	codec, err := graph.NewCodec(cfg.codecOpts...)
	if err != nil {
		return nil, err
	}

	a, err := archive.New(cfg.archiveOpts...)
	if err != nil {
		return nil, err
	}

	if err := codec.Save(g, a); err != nil {
		return nil, err
	}

	data, err := a.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrEncode, err)
	}

	return data, nil
}

// DecodeGraph decodes a container produced by EncodeGraph and loads the graph.
// A corrupt container fails with errs.ErrDecode wrapping errs.ErrCorruptArchive.
func DecodeGraph(data []byte, opts ...Option) (*graph.SamplingGraph, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	codec, err := graph.NewCodec(cfg.codecOpts...)
	if err != nil {
		return nil, err
	}

	a, err := archive.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecode, err)
	}

	return codec.Load(a)
}

// SaveGraph encodes g and writes the container to w.
func SaveGraph(w io.Writer, g *graph.SamplingGraph, opts ...Option) (int64, error) {
	data, err := EncodeGraph(g, opts...)
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)

	return int64(n), err
}

// LoadGraph reads a whole container from r and loads the graph.
func LoadGraph(r io.Reader, opts ...Option) (*graph.SamplingGraph, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}

	return DecodeGraph(buf.Bytes(), opts...)
}

// SaveGraphFile writes g to path. The file is written under a temporary name
// in the same directory and renamed into place, so readers never observe a
// partial archive.
func SaveGraphFile(path string, g *graph.SamplingGraph, opts ...Option) error {
	data, err := EncodeGraph(g, opts...)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// LoadGraphFile loads a graph from the archive at path.
func LoadGraphFile(path string, opts ...Option) (*graph.SamplingGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return DecodeGraph(data, opts...)
}

// ReadFromArchive returns the raw value stored under key. A missing key
// fails with errs.ErrKeyNotFound; the value's kind is not checked.
func ReadFromArchive(r archive.Reader, key string) (archive.Value, error) {
	return archive.Read(r, key)
}
