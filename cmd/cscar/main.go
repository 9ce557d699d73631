// Command cscar inspects, verifies and re-encodes CSC graph archives.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cscar",
		Short: "A CLI tool for CSC graph archives",
		// Errors are printed by main.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.AddCommand(inspectCommand())
	rootCmd.AddCommand(verifyCommand())
	rootCmd.AddCommand(repackCommand())

	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
