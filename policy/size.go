package policy

import (
	"strconv"
	"strings"

	"github.com/wippyai/modsurfer/errors"
)

// parseSize parses a size.max clause value: a decimal number followed by an
// optional unit suffix. Suffixes with an "i" (KiB, MiB, GiB) use base
// 1024; the rest (KB, MB, GB, B) use base 1000.
func parseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	unit := ""
	numEnd := len(s)
	for numEnd > 0 && !isDigitOrDot(s[numEnd-1]) {
		numEnd--
	}
	numPart, unit := s[:numEnd], strings.TrimSpace(s[numEnd:])

	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, errors.New(errors.PhaseLoad, errors.KindSyntax).
			Detail("invalid size value %q", s).
			Cause(err).
			Build()
	}

	mult, ok := sizeUnitMultiplier(unit)
	if !ok {
		return 0, errors.New(errors.PhaseLoad, errors.KindSyntax).
			Detail("unknown size unit %q", unit).
			Build()
	}

	return uint64(n * float64(mult)), nil
}

func isDigitOrDot(b byte) bool {
	return (b >= '0' && b <= '9') || b == '.'
}

func sizeUnitMultiplier(unit string) (uint64, bool) {
	switch unit {
	case "", "B":
		return 1, true
	case "KB":
		return 1000, true
	case "MB":
		return 1000 * 1000, true
	case "GB":
		return 1000 * 1000 * 1000, true
	case "KiB":
		return 1024, true
	case "MiB":
		return 1024 * 1024, true
	case "GiB":
		return 1024 * 1024 * 1024, true
	default:
		return 0, false
	}
}
