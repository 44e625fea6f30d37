// Package main implements the rebind CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rebind/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "rebind",
	Short: "DXIL resource binding remapper",
	Long:  "rebind moves resource bindings of compiled DXIL shaders to new register slots without recompiling them.",
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(remapCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().Bool("no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
