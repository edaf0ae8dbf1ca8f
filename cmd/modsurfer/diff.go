package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/modsurfer/diff"
	"github.com/wippyai/modsurfer/errors"
	"github.com/wippyai/modsurfer/summary"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <before.wasm> <after.wasm>",
		Short: "Compare two Wasm modules' summaries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := decodeArg(args[0])
			if err != nil {
				return err
			}
			after, err := decodeArg(args[1])
			if err != nil {
				return err
			}

			d := diff.Compute(before, after)
			out, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return errors.InvalidInput(errors.PhaseDiff, err.Error())
			}
			fmt.Println(string(out))
			return nil
		},
	}
	return cmd
}

func decodeArg(path string) (*summary.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("read %q: %v", path, err))
	}
	return summary.Decode(data)
}
