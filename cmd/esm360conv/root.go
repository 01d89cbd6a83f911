package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags. verbose is mirrored onto esm.Options by each command;
	// quiet only gates the CLI's own stdout output.
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "esm360conv",
	Short: "Convert Xbox 360 Fallout: New Vegas ESM masters to PC layout",
	Long: `esm360conv converts the big-endian, console-streaming ESM layout used by
the Xbox 360 edition of Fallout: New Vegas into byte-exact PC-layout ESM
output: record and group headers are flipped to little-endian, scattered
worldspace/interior-cell duplicates are reassembled into proper nested
GRUP hierarchies, and split INFO records are merged back together.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose conversion logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// printInfo prints an info message if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message to stderr regardless of quiet mode.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}
