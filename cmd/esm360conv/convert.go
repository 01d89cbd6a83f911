package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/slfx77/esm360/esm"
	"github.com/spf13/cobra"
)

var (
	convertOutput       string
	convertStrictSchema bool
)

func init() {
	cmd := newConvertCmd()
	cmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output path (default: <input> with .converted.esm appended)")
	cmd.Flags().BoolVar(&convertStrictSchema, "strict-schema", false, "Fail on the first unrecognized subrecord instead of passing it through")
	rootCmd.AddCommand(cmd)
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input.esm>",
		Short: "Convert an Xbox 360 ESM to PC layout",
		Long: `The convert command reads a big-endian Xbox 360 Fallout: New Vegas ESM
and writes a byte-exact little-endian PC-layout ESM.

Example:
  esm360conv convert FalloutNV.esm
  esm360conv convert --output FalloutNV.pc.esm --strict-schema FalloutNV.esm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args)
		},
	}
}

func runConvert(args []string) error {
	inputPath := args[0]
	outputPath := convertOutput
	if outputPath == "" {
		outputPath = inputPath + ".converted.esm"
	}

	printInfo("Reading: %s\n", inputPath)

	input, cleanup, err := esm.LoadInput(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	defer cleanup()

	opts := esm.DefaultOptions()
	opts.Verbose = verbose
	opts.StrictSchema = convertStrictSchema

	output, stats, err := esm.Convert(input, opts)
	if err != nil && !errors.Is(err, esm.ErrUnrecoverable) {
		if errors.Is(err, esm.ErrFormatMismatch) {
			return fmt.Errorf("%s does not look like a big-endian Xbox ESM: %w", inputPath, err)
		}
		return fmt.Errorf("conversion failed: %w", err)
	}

	if werr := os.WriteFile(outputPath, output, 0o644); werr != nil {
		return fmt.Errorf("failed to write output: %w", werr)
	}

	printInfo("Wrote: %s (%d bytes)\n", outputPath, len(output))
	if !quiet {
		fmt.Fprintln(os.Stderr, stats.Report())
	}

	if err != nil {
		return fmt.Errorf("%s: output is incomplete, stopped at unrecoverable corruption: %w", inputPath, err)
	}

	return nil
}
