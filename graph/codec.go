package graph

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/cscarchive/archive"
	"github.com/arloliu/cscarchive/errs"
	"github.com/arloliu/cscarchive/internal/options"
)

// Codec saves SamplingGraphs into archives and loads them back.
//
// A Codec holds only configuration and is safe for concurrent use; the
// archives passed to Save and Load are not.
type Codec struct {
	maxVersion int
	logger     *slog.Logger
}

// CodecOption configures a Codec.
type CodecOption = options.Option[*Codec]

// NewCodec creates a codec that reads and writes every format version up to
// CurrentFormatVersion unless limited with WithMaxFormatVersion.
func NewCodec(opts ...CodecOption) (*Codec, error) {
	c := &Codec{
		maxVersion: CurrentFormatVersion,
		logger:     slog.New(slog.DiscardHandler),
	}

	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// WithMaxFormatVersion limits the newest format version the codec writes and
// accepts on load.
func WithMaxFormatVersion(version int) CodecOption {
	return options.New(func(c *Codec) error {
		if version < MinFormatVersion || version > CurrentFormatVersion {
			return fmt.Errorf("%w: %d not in [%d, %d]", errs.ErrUnsupportedVersion, version, MinFormatVersion, CurrentFormatVersion)
		}
		c.maxVersion = version

		return nil
	})
}

// WithLogger sets the logger for save and load events. A nil logger is ignored.
func WithLogger(logger *slog.Logger) CodecOption {
	return options.NoError(func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// MaxFormatVersion returns the newest format version the codec handles.
func (c *Codec) MaxFormatVersion() int {
	return c.maxVersion
}

var defaultCodec, _ = NewCodec()

// Save writes g to w with a codec supporting every format version.
func Save(g *SamplingGraph, w archive.Writer) error {
	return defaultCodec.Save(g, w)
}

// Load reads a graph from r with a codec supporting every format version.
func Load(r archive.Reader) (*SamplingGraph, error) {
	return defaultCodec.Load(r)
}

func encodeError(err error) error {
	return fmt.Errorf("%w: %w", errs.ErrEncode, err)
}

func decodeError(err error) error {
	return fmt.Errorf("%w: %w", errs.ErrDecode, err)
}

// Save writes g to w: format_version, indptr and indices, then a presence
// flag for every optional field known at the graph's version, each followed
// by the field's entries when present.
//
// A zero g.FormatVersion is saved as the codec's maximum version. g is
// validated first and never modified. Every failure wraps errs.ErrEncode;
// when writing itself fails, w may hold the entries written so far.
func (c *Codec) Save(g *SamplingGraph, w archive.Writer) error {
	if g == nil {
		return encodeError(fmt.Errorf("%w: nil graph", errs.ErrInvalidValue))
	}

	version := g.FormatVersion
	if version == 0 {
		version = c.maxVersion
	}

	if version < MinFormatVersion || version > c.maxVersion {
		return encodeError(fmt.Errorf("%w: graph version %d, codec supports [%d, %d]", errs.ErrUnsupportedVersion, version, MinFormatVersion, c.maxVersion))
	}

	if err := g.validate(version); err != nil {
		c.logger.Warn("refusing to save invalid graph", "version", version, "error", err)
		return encodeError(err)
	}

	if err := c.write(g, w, version); err != nil {
		return encodeError(err)
	}

	c.logger.Debug("graph saved",
		"version", version,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"heterogeneous", g.IsHeterogeneous(),
	)

	return nil
}

func (c *Codec) write(g *SamplingGraph, w archive.Writer, version int) error {
	if err := w.Write(KeyFormatVersion, archive.NewInt64(int64(version))); err != nil {
		return err
	}

	if err := w.Write(KeyIndptr, archive.NewInt64Array(g.Indptr)); err != nil {
		return err
	}

	if err := w.Write(KeyIndices, archive.NewInt64Array(g.Indices)); err != nil {
		return err
	}

	for _, f := range optionalFields {
		if f.since > version {
			continue
		}

		present := f.present(g)
		if err := w.Write(f.flagKey, archive.NewBool(present)); err != nil {
			return err
		}

		if present {
			if err := f.write(w, g); err != nil {
				return fmt.Errorf("%s: %w", f.name, err)
			}
		}
	}

	return nil
}

// Load reconstructs a graph from r.
//
// format_version is read first and selects which presence flags are
// expected. Optional fields introduced after that version are left nil.
// Missing or mistyped entries and versions newer than the codec's maximum
// fail with errs.ErrDecode; a reconstructed graph that breaks the CSC
// invariants fails with errs.ErrValidation. The returned graph shares no
// memory with r.
func (c *Codec) Load(r archive.Reader) (*SamplingGraph, error) {
	version, err := c.readVersion(r)
	if err != nil {
		return nil, decodeError(err)
	}

	g := &SamplingGraph{FormatVersion: version}

	if g.Indptr, err = readInt64Array(r, KeyIndptr); err != nil {
		return nil, decodeError(err)
	}

	if g.Indices, err = readInt64Array(r, KeyIndices); err != nil {
		return nil, decodeError(err)
	}

	for _, f := range optionalFields {
		if f.since > version {
			continue
		}

		present, err := readBool(r, f.flagKey)
		if err != nil {
			return nil, decodeError(err)
		}

		if !present {
			continue
		}

		if err := f.read(r, g); err != nil {
			return nil, decodeError(fmt.Errorf("%s: %w", f.name, err))
		}
	}

	if err := g.validate(version); err != nil {
		c.logger.Warn("loaded graph failed validation", "version", version, "error", err)
		return nil, fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}

	c.logger.Debug("graph loaded",
		"version", version,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"heterogeneous", g.IsHeterogeneous(),
	)

	return g, nil
}

func (c *Codec) readVersion(r archive.Reader) (int, error) {
	v, err := archive.Read(r, KeyFormatVersion)
	if err != nil {
		return 0, err
	}

	raw, err := v.AsInt64()
	if err != nil {
		return 0, fmt.Errorf("%q: %w", KeyFormatVersion, err)
	}

	if raw < MinFormatVersion || raw > int64(c.maxVersion) {
		return 0, fmt.Errorf("%w: archive version %d, codec supports [%d, %d]", errs.ErrUnsupportedVersion, raw, MinFormatVersion, c.maxVersion)
	}

	return int(raw), nil
}
