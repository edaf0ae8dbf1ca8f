package main

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/wippyai/modsurfer/config"
	"github.com/wippyai/modsurfer/errors"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "modsurfer",
		Short:        "Inspect and validate compiled WebAssembly modules",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Thresholds must satisfy LOW <= MEDIUM before any module is
			// loaded; a skewed configuration is a startup error, not
			// something individual commands should rediscover per-module.
			_, err := config.RiskThresholds()
			return err
		},
	}

	root.AddCommand(
		newValidateCmd(),
		newGenerateCmd(),
		newDiffCmd(),
		newCatalogCmd(),
	)

	return root
}

// exitCodeFor maps an error returned from command dispatch to the process
// exit code: 2 for decode/load errors, 3 for I/O or configuration errors, 1
// for anything else that reached the CLI as a bare error rather than a
// Fail outcome.
func exitCodeFor(err error) int {
	var merr *errors.Error
	if !stderrors.As(err, &merr) {
		return 1
	}
	switch merr.Phase {
	case errors.PhaseDecode, errors.PhaseLoad:
		return 2
	case errors.PhaseConfig:
		return 3
	default:
		return 3
	}
}
