package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/arloliu/cscarchive/archive"
	"github.com/arloliu/cscarchive/format"
)

// RepackConfig holds the configuration for the repack command.
type RepackConfig struct {
	In            string
	Out           string
	Compression   string
	IntEncoding   string
	FloatEncoding string
	ByteOrder     string
}

// Validate ensures the configuration is valid. Empty settings keep the
// input archive's value.
func (c RepackConfig) Validate() error {
	if c.Compression != "" {
		if _, ok := format.ParseCompression(c.Compression); !ok {
			return errors.Errorf("unsupported compression: %q", c.Compression)
		}
	}

	if c.IntEncoding != "" {
		if enc, ok := format.ParseEncoding(c.IntEncoding); !ok || enc == format.TypeGorilla {
			return errors.Errorf("unsupported int encoding: %q", c.IntEncoding)
		}
	}

	if c.FloatEncoding != "" {
		if enc, ok := format.ParseEncoding(c.FloatEncoding); !ok || enc == format.TypeDelta {
			return errors.Errorf("unsupported float encoding: %q", c.FloatEncoding)
		}
	}

	switch c.ByteOrder {
	case "", "little", "big":
	default:
		return errors.Errorf("unsupported byte order: %q", c.ByteOrder)
	}

	return nil
}

func (c RepackConfig) archiveOptions(src archive.Config) []archive.Option {
	comp := src.Compression()
	if c.Compression != "" {
		comp, _ = format.ParseCompression(c.Compression)
	}

	enc := src.IntArrayEncoding()
	if c.IntEncoding != "" {
		enc, _ = format.ParseEncoding(c.IntEncoding)
	}

	floatEnc := src.FloatArrayEncoding()
	if c.FloatEncoding != "" {
		floatEnc, _ = format.ParseEncoding(c.FloatEncoding)
	}

	opts := []archive.Option{
		archive.WithCompression(comp),
		archive.WithIntArrayEncoding(enc),
		archive.WithFloatArrayEncoding(floatEnc),
	}
	if c.ByteOrder == "big" || (c.ByteOrder == "" && src.IsBigEndian()) {
		opts = append(opts, archive.WithBigEndian())
	}

	return opts
}

// repack copies src into a new archive built with cfg's settings. Nested
// archives are rebuilt the same way; settings cfg leaves empty keep the
// value of the archive being copied.
func repack(src *archive.Archive, cfg RepackConfig) (*archive.Archive, error) {
	dst, err := archive.New(cfg.archiveOptions(src.Config())...)
	if err != nil {
		return nil, errors.Wrap(err, "creating archive")
	}

	for key, v := range src.All() {
		if v.Kind() == format.KindArchive {
			nested, err := v.AsArchive()
			if err != nil {
				return nil, errors.Wrapf(err, "reading %q", key)
			}

			rebuilt, err := repack(nested, cfg)
			if err != nil {
				return nil, errors.Wrapf(err, "repacking %q", key)
			}
			v = archive.NewNested(rebuilt)
		}

		if err := dst.Write(key, v); err != nil {
			return nil, errors.Wrapf(err, "copying %q", key)
		}
	}

	return dst, nil
}

// RepackHandler re-encodes an archive and every nested archive with new
// container settings. Entries and their order are preserved.
func RepackHandler(cfg RepackConfig, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	src, inSize, err := readArchive(cfg.In)
	if err != nil {
		return err
	}

	dst, err := repack(src, cfg)
	if err != nil {
		return err
	}

	data, stats, err := dst.MarshalWithStats()
	if err != nil {
		return errors.Wrap(err, "encoding archive")
	}

	if err := os.WriteFile(cfg.Out, data, 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, "writing archive")
	}

	fmt.Fprintf(out, "%s %s -> %s\n", green("Repacked"), cfg.In, cfg.Out)
	fmt.Fprintf(out, "%s: %d\n", yellow("Entries"), stats.Entries)
	fmt.Fprintf(out, "%s: %d -> %d bytes\n", yellow("Size"), inSize, stats.TotalBytes)
	fmt.Fprintf(out, "%s: %s (%.1f%% saved)\n", yellow("Payload"), stats.Compression.Algorithm, stats.Compression.SpaceSavings())

	return nil
}

func repackCommand() *cobra.Command {
	cfg := RepackConfig{}
	cmd := &cobra.Command{
		Use:   "repack <in> <out> [--compression none|zstd|s2|lz4] [--int-encoding raw|delta] [--float-encoding raw|gorilla]",
		Short: "Re-encode an archive with different container settings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.In, cfg.Out = args[0], args[1]
			return RepackHandler(cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().AddGoFlagSet(repackFlagSet(cmd.Name(), &cfg))

	return cmd
}

func repackFlagSet(name string, cfg *RepackConfig) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.StringVar(&cfg.Compression, "compression", "", "payload compression [none, zstd, s2, lz4]; default keeps the input's")
	set.StringVar(&cfg.IntEncoding, "int-encoding", "", "int64 array encoding [raw, delta]; default keeps the input's")
	set.StringVar(&cfg.FloatEncoding, "float-encoding", "", "float64 array encoding [raw, gorilla]; default keeps the input's")
	set.StringVar(&cfg.ByteOrder, "byte-order", "", "word byte order [little, big]; default keeps the input's")

	return set
}
