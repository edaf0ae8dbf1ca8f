package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/modsurfer/errors"
	"github.com/wippyai/modsurfer/policy"
	"github.com/wippyai/modsurfer/report"
	"github.com/wippyai/modsurfer/summary"
	"github.com/wippyai/modsurfer/validate"
)

func newValidateCmd() *cobra.Command {
	var (
		wasmPath    string
		checkfile   string
		format      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a Wasm module against a checkfile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if wasmPath == "" {
				return errors.InvalidInput(errors.PhaseConfig, "--wasm is required")
			}
			if checkfile == "" {
				return errors.InvalidInput(errors.PhaseConfig, "--checkfile is required")
			}

			data, err := os.ReadFile(wasmPath)
			if err != nil {
				return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("read %q: %v", wasmPath, err))
			}
			s, err := summary.Decode(data)
			if err != nil {
				return err
			}

			checkData, err := os.ReadFile(checkfile)
			if err != nil {
				return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("read %q: %v", checkfile, err))
			}
			p, err := policy.Load(checkData, policy.DefaultFetcher)
			if err != nil {
				return err
			}

			r := validate.Validate(s, p)

			if interactive {
				return runInteractiveReport(r)
			}

			switch format {
			case "json":
				out, err := report.JSON(r)
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			default:
				fmt.Println(report.Table(r))
			}

			if r.HasFailures() {
				os.Exit(1)
			}
			os.Exit(0)
			return nil
		},
	}

	cmd.Flags().StringVar(&wasmPath, "wasm", "", "path to the compiled Wasm module")
	cmd.Flags().StringVar(&checkfile, "checkfile", "", "path to the checkfile policy")
	cmd.Flags().StringVar(&format, "format", "table", "report format: table or json")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the report interactively")

	return cmd
}
