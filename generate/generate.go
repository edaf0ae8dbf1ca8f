package generate

import (
	"fmt"

	"github.com/wippyai/modsurfer/policy"
	"github.com/wippyai/modsurfer/summary"
)

// Generate produces a Policy from a Summary describing the module's
// current shape as strict expectations: every function import and function
// export becomes a fully-signed matcher, exports.max is today's export count,
// complexity.max_risk is today's risk, and size.max is today's size rounded
// up to the next whole KiB, MiB or GiB.
func Generate(s *summary.Summary) *policy.Policy {
	allow := s.HasWASIImport()
	max := uint64(len(s.Exports))
	sizeMax, sizeRaw := roundSizeUp(uint64(s.SizeBytes))
	risk := s.Complexity.Risk

	p := &policy.Policy{
		AllowWasi:         &allow,
		ImportsInclude:    importMatchers(s),
		ExportsInclude:    exportMatchers(s),
		ExportsMax:        &max,
		SizeMax:           &sizeMax,
		SizeMaxRaw:        sizeRaw,
		ComplexityMaxRisk: &risk,
	}
	return p
}

func importMatchers(s *summary.Summary) []policy.FunctionMatcher {
	var out []policy.FunctionMatcher
	for _, imp := range s.Imports {
		if imp.Func == nil {
			continue
		}
		ns := imp.Namespace
		out = append(out, policy.FunctionMatcher{
			Namespace:  &ns,
			Name:       imp.Name,
			Params:     copyValTypes(imp.Func.Params),
			Results:    copyValTypes(imp.Func.Results),
			HasParams:  true,
			HasResults: true,
		})
	}
	return out
}

func exportMatchers(s *summary.Summary) []policy.FunctionMatcher {
	// Non-Function exports are excluded: the Validator treats them as
	// unmatchable, so generating an expectation for one would produce an
	// unconditional Fail when validated against its own summary.
	var out []policy.FunctionMatcher
	for _, exp := range s.Exports {
		if exp.Kind != summary.ExportFunction || exp.Func == nil {
			continue
		}
		out = append(out, policy.FunctionMatcher{
			Name:       exp.Name,
			Params:     copyValTypes(exp.Func.Params),
			Results:    copyValTypes(exp.Func.Results),
			HasParams:  true,
			HasResults: true,
		})
	}
	return out
}

// roundSizeUp rounds n up to the next power-of-two-aligned binary unit
// (KiB/MiB/GiB) and returns the new byte count alongside its rendered form
// (e.g. "5MiB") for use as the checkfile's human-readable size.max.
func roundSizeUp(n uint64) (uint64, string) {
	const (
		ki = 1024
		mi = 1024 * 1024
		gi = 1024 * 1024 * 1024
	)
	switch {
	case n >= gi:
		v := ceilDiv(n, gi)
		return v * gi, fmt.Sprintf("%dGiB", v)
	case n >= mi:
		v := ceilDiv(n, mi)
		return v * mi, fmt.Sprintf("%dMiB", v)
	case n >= ki:
		v := ceilDiv(n, ki)
		return v * ki, fmt.Sprintf("%dKiB", v)
	default:
		return n, fmt.Sprintf("%dB", n)
	}
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

func copyValTypes(vs []summary.ValType) []summary.ValType {
	out := make([]summary.ValType, len(vs))
	copy(out, vs)
	return out
}
