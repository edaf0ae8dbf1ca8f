package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/modsurfer/errors"
	"github.com/wippyai/modsurfer/generate"
	"github.com/wippyai/modsurfer/summary"
)

func newGenerateCmd() *cobra.Command {
	var (
		wasmPath string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a checkfile from a Wasm module's current shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			if wasmPath == "" {
				return errors.InvalidInput(errors.PhaseConfig, "--wasm is required")
			}

			data, err := os.ReadFile(wasmPath)
			if err != nil {
				return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("read %q: %v", wasmPath, err))
			}

			s, err := summary.Decode(data)
			if err != nil {
				return err
			}

			p := generate.Generate(s)
			doc, err := generate.Serialize(p)
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Print(string(doc))
				return nil
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("write %q: %v", output, err))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&wasmPath, "wasm", "", "path to the compiled Wasm module")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the checkfile here instead of stdout")

	return cmd
}
