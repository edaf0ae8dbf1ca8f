package summary

import (
	"os"
	"testing"

	"github.com/wippyai/modsurfer/config"
	"github.com/wippyai/modsurfer/wasm"
)

func TestFunctionComplexityCountsBranches(t *testing.T) {
	cases := []struct {
		name string
		code []byte
		want int
	}{
		{
			name: "straight line",
			code: []byte{0x20, 0x00, 0x0b}, // local.get 0; end
			want: 1,
		},
		{
			name: "single if",
			code: []byte{0x04, 0x40, 0x01, 0x0b, 0x0b}, // if void; nop; end; end
			want: 2,
		},
		{
			name: "loop and br_if",
			code: []byte{
				0x03, 0x40, // loop void
				0x20, 0x00, // local.get 0
				0x0d, 0x00, // br_if 0
				0x0b, // end loop
				0x0b, // end func
			},
			want: 3,
		},
		{
			name: "call_indirect and select",
			code: []byte{
				0x11, 0x00, 0x00, // call_indirect type=0 table=0
				0x1b, // select
				0x0b, // end
			},
			want: 3,
		},
		{
			name: "br_table scores per entry plus default",
			code: []byte{
				0x20, 0x00, // local.get 0
				0x0e, 0x02, 0x00, 0x01, 0x02, // br_table [0,1] default 2
				0x0b,
			},
			want: 1 + 3,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := functionComplexity(wasm.FuncBody{Code: c.code})
			if got != c.want {
				t.Errorf("functionComplexity() = %d, want %d", got, c.want)
			}
		})
	}
}

func TestAnalyzeComplexityZeroFunctions(t *testing.T) {
	c := analyzeComplexity(&wasm.Module{})
	if c.Score != 0 || c.Risk != RiskLow {
		t.Errorf("expected zero-function module to score 0/Low, got %+v", c)
	}
}

func TestAnalyzeComplexityMeanAcrossFunctions(t *testing.T) {
	mod := &wasm.Module{
		Code: []wasm.FuncBody{
			{Code: []byte{0x0b}},                         // score 1
			{Code: []byte{0x04, 0x40, 0x01, 0x0b, 0x0b}}, // score 2
		},
	}
	c := analyzeComplexity(mod)
	if c.Score != 1 {
		t.Errorf("expected mean score 1, got %d", c.Score)
	}
}

func TestRiskThresholdsFromEnvironment(t *testing.T) {
	t.Setenv("MODSURFER_RISK_LOW", "2")
	t.Setenv("MODSURFER_RISK_MEDIUM", "4")

	low, medium := riskThresholds()
	if low != 2 || medium != 4 {
		t.Fatalf("riskThresholds() = %d,%d, want 2,4", low, medium)
	}
	if got := classifyRisk(2, low, medium); got != RiskLow {
		t.Errorf("classifyRisk(2) = %v, want Low", got)
	}
	if got := classifyRisk(3, low, medium); got != RiskMedium {
		t.Errorf("classifyRisk(3) = %v, want Medium", got)
	}
	if got := classifyRisk(5, low, medium); got != RiskHigh {
		t.Errorf("classifyRisk(5) = %v, want High", got)
	}
}

func TestRiskThresholdsDefaults(t *testing.T) {
	os.Unsetenv("MODSURFER_RISK_LOW")
	os.Unsetenv("MODSURFER_RISK_MEDIUM")

	low, medium := riskThresholds()
	if low != config.DefaultRiskLow || medium != config.DefaultRiskMedium {
		t.Fatalf("riskThresholds() = %d,%d, want defaults %d,%d", low, medium, config.DefaultRiskLow, config.DefaultRiskMedium)
	}
}
