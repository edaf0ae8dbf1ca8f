package validate

import "fmt"

// renderSizeBinary formats a byte count using binary units: actual sizes
// always render in KiB/MiB/GiB regardless of the unit the checkfile author
// wrote for the expectation.
func renderSizeBinary(n uint64) string {
	units := []struct {
		suffix string
		factor float64
	}{
		{"GiB", 1024 * 1024 * 1024},
		{"MiB", 1024 * 1024},
		{"KiB", 1024},
	}
	for _, u := range units {
		if float64(n) >= u.factor {
			return fmt.Sprintf("%.1f %s", float64(n)/u.factor, u.suffix)
		}
	}
	return fmt.Sprintf("%d B", n)
}
