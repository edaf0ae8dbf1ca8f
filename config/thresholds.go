package config

import (
	"os"
	"strconv"

	"github.com/wippyai/modsurfer/errors"
)

const (
	DefaultRiskLow    = 10
	DefaultRiskMedium = 25
)

// Thresholds are the complexity risk partition boundaries. High has no
// upper bound; it is everything above Medium.
type Thresholds struct {
	Low    int
	Medium int
}

// RiskThresholds reads MODSURFER_RISK_LOW and MODSURFER_RISK_MEDIUM from the
// environment, falling back to the package defaults when unset, and
// validates Low <= Medium. Called once at process start; a violation is a
// configuration error, not a panic.
func RiskThresholds() (Thresholds, error) {
	low, err := envInt("MODSURFER_RISK_LOW", DefaultRiskLow)
	if err != nil {
		return Thresholds{}, err
	}
	medium, err := envInt("MODSURFER_RISK_MEDIUM", DefaultRiskMedium)
	if err != nil {
		return Thresholds{}, err
	}
	if low > medium {
		return Thresholds{}, errors.ThresholdSkew(low, medium)
	}
	return Thresholds{Low: low, Medium: medium}, nil
}

func envInt(name string, def int) (int, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("%s: invalid integer %q", name, v).
			Cause(err).
			Build()
	}
	return n, nil
}
