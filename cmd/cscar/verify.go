package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/arloliu/cscarchive/graph"
)

// VerifyConfig holds the configuration for the verify command.
type VerifyConfig struct {
	Path       string
	MaxVersion int
	Verbose    bool
}

// Validate ensures the configuration is valid.
func (c VerifyConfig) Validate() error {
	if c.MaxVersion < graph.MinFormatVersion || c.MaxVersion > graph.CurrentFormatVersion {
		return errors.Errorf("max version must be in [%d, %d]", graph.MinFormatVersion, graph.CurrentFormatVersion)
	}

	return nil
}

// VerifyHandler decodes the archive, loads the graph and reports its shape.
func VerifyHandler(cfg VerifyConfig, out, logOut io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	codec, err := graph.NewCodec(graph.WithMaxFormatVersion(cfg.MaxVersion), graph.WithLogger(logger))
	if err != nil {
		return errors.Wrap(err, "creating codec")
	}

	a, _, err := readArchive(cfg.Path)
	if err != nil {
		return err
	}

	g, err := codec.Load(a)
	if err != nil {
		return errors.Wrapf(err, "loading graph from %s", cfg.Path)
	}

	pp := func(label string, value any) {
		fmt.Fprintf(out, "%s: %v\n", yellow(label), value)
	}
	fmt.Fprintln(out, green("Graph OK"))
	pp("Format version", g.FormatVersion)
	pp("Nodes", g.NodeCount())
	pp("Edges", g.EdgeCount())
	pp("Heterogeneous", g.IsHeterogeneous())
	if g.NodeTypeOffsets != nil {
		pp("Node types", len(g.NodeTypeOffsets)-1)
	}
	pp("Edge attributes", len(g.EdgeAttributes))
	pp("Node attributes", len(g.NodeAttributes))

	return nil
}

func verifyCommand() *cobra.Command {
	cfg := VerifyConfig{}
	cmd := &cobra.Command{
		Use:   "verify <file> [--max-version N] [--verbose]",
		Short: "Decode an archive and validate the graph it holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Path = args[0]
			return VerifyHandler(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().AddGoFlagSet(verifyFlagSet(cmd.Name(), &cfg))

	return cmd
}

func verifyFlagSet(name string, cfg *VerifyConfig) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.IntVar(&cfg.MaxVersion, "max-version", graph.CurrentFormatVersion, "newest graph format version to accept")
	set.BoolVar(&cfg.Verbose, "verbose", false, "log codec debug events to stderr")

	return set
}
