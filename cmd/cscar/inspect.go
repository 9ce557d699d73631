package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/arloliu/cscarchive/archive"
	"github.com/arloliu/cscarchive/format"
)

// InspectConfig holds the configuration for the inspect command.
type InspectConfig struct {
	Path   string
	Output string
}

// Validate ensures the configuration is valid.
func (c InspectConfig) Validate() error {
	switch c.Output {
	case "table", "json", "yaml":
		return nil
	default:
		return errors.Errorf("unsupported output format: %q", c.Output)
	}
}

type entryReport struct {
	Key   string `json:"key" yaml:"key"`
	Kind  string `json:"kind" yaml:"kind"`
	Len   int    `json:"len" yaml:"len"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

type archiveReport struct {
	File          string        `json:"file" yaml:"file"`
	Bytes         int           `json:"bytes" yaml:"bytes"`
	Compression   string        `json:"compression" yaml:"compression"`
	IntEncoding   string        `json:"int_encoding" yaml:"int_encoding"`
	FloatEncoding string        `json:"float_encoding" yaml:"float_encoding"`
	ByteOrder     string        `json:"byte_order" yaml:"byte_order"`
	Entries       []entryReport `json:"entries" yaml:"entries"`
}

// readArchive reads and decodes the archive at path.
func readArchive(path string) (*archive.Archive, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Wrap(err, "reading archive")
	}

	a, err := archive.Unmarshal(data)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "decoding %s", path)
	}

	return a, len(data), nil
}

func buildReport(path string, size int, a *archive.Archive) archiveReport {
	cfg := a.Config()
	report := archiveReport{
		File:          path,
		Bytes:         size,
		Compression:   cfg.Compression().String(),
		IntEncoding:   cfg.IntArrayEncoding().String(),
		FloatEncoding: cfg.FloatArrayEncoding().String(),
		ByteOrder:     "little-endian",
		Entries:       make([]entryReport, 0, a.Len()),
	}
	if cfg.IsBigEndian() {
		report.ByteOrder = "big-endian"
	}

	for key, v := range a.All() {
		entry := entryReport{Key: key, Kind: v.Kind().String(), Len: v.Len()}
		if !v.Kind().IsArray() && v.Kind() != format.KindArchive {
			entry.Value = v.String()
		}
		report.Entries = append(report.Entries, entry)
	}

	return report
}

// InspectHandler prints the entries of an archive.
func InspectHandler(cfg InspectConfig, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, size, err := readArchive(cfg.Path)
	if err != nil {
		return err
	}
	report := buildReport(cfg.Path, size, a)

	switch cfg.Output {
	case "json":
		e := json.NewEncoder(out)
		e.SetIndent("", "  ")
		return errors.Wrap(e.Encode(report), "encoding json")
	case "yaml":
		e := yaml.NewEncoder(out)
		e.SetIndent(2)
		if err := e.Encode(report); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(e.Close(), "encoding yaml")
	default:
		return writeTable(out, report)
	}
}

func writeTable(out io.Writer, report archiveReport) error {
	fmt.Fprintf(out, "%s %s (%d bytes, %s, int %s, float %s, %s)\n",
		green("Archive"), report.File, report.Bytes, report.Compression, report.IntEncoding, report.FloatEncoding, report.ByteOrder)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, yellow("KEY")+"\t"+yellow("KIND")+"\t"+yellow("LEN")+"\t"+yellow("VALUE"))
	for _, e := range report.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Key, cyan(e.Kind), e.Len, e.Value)
	}

	return errors.Wrap(tw.Flush(), "writing table")
}

func inspectCommand() *cobra.Command {
	cfg := InspectConfig{}
	cmd := &cobra.Command{
		Use:   "inspect <file> [--output table|json|yaml]",
		Short: "List the entries of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Path = args[0]
			return InspectHandler(cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().AddGoFlagSet(inspectFlagSet(cmd.Name(), &cfg))

	return cmd
}

func inspectFlagSet(name string, cfg *InspectConfig) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.StringVar(&cfg.Output, "output", "table", "output format [table, json, yaml]")

	return set
}
