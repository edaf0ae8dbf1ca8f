package summary

import (
	"github.com/wippyai/modsurfer/config"
	"github.com/wippyai/modsurfer/wasm"
)

// riskThresholds reads the complexity classification boundaries via the
// config package, falling back to its defaults if the environment carries
// an invalid override; a caller needing the configuration error itself
// should call config.RiskThresholds directly at startup.
func riskThresholds() (low, medium int) {
	t, err := config.RiskThresholds()
	if err != nil {
		return config.DefaultRiskLow, config.DefaultRiskMedium
	}
	return t.Low, t.Medium
}

// classifyRisk buckets a complexity score against the low/medium thresholds.
func classifyRisk(score, low, medium int) Risk {
	switch {
	case score <= low:
		return RiskLow
	case score <= medium:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// analyzeComplexity computes the module's cyclomatic complexity as the mean,
// over every non-imported function, of 1 plus the number of branch
// instructions in its body. A function with no branches scores 1; a module
// with no functions scores 0 and is classified Low.
func analyzeComplexity(mod *wasm.Module) Complexity {
	if len(mod.Code) == 0 {
		return Complexity{Score: 0, Risk: RiskLow}
	}

	total := 0
	for _, body := range mod.Code {
		total += functionComplexity(body)
	}

	mean := total / len(mod.Code)
	low, medium := riskThresholds()
	return Complexity{Score: mean, Risk: classifyRisk(mean, low, medium)}
}

// functionComplexity counts 1 plus every branch instruction in a function
// body: if, br_if, loop, call_indirect, select (plain and typed), call_ref,
// return_call_ref, and one point per br_table entry (including the default
// target). A malformed body that fails to
// decode contributes its base score of 1 rather than failing the whole
// module, matching the Decoder's tolerant posture toward individual bodies.
func functionComplexity(body wasm.FuncBody) int {
	score := 1

	instrs, err := wasm.DecodeInstructions(body.Code)
	if err != nil {
		return score
	}

	for _, instr := range instrs {
		switch instr.Opcode {
		case wasm.OpIf, wasm.OpBrIf, wasm.OpLoop, wasm.OpCallIndirect, wasm.OpSelect, wasm.OpSelectType:
			score++
		case wasm.OpBrTable:
			if bt, ok := instr.Imm.(wasm.BrTableImm); ok {
				score += len(bt.Labels) + 1
			} else {
				score++
			}
		case wasm.OpCallRef, wasm.OpReturnCallRef:
			score++
		}
	}

	return score
}
