package policy_test

import (
	"errors"
	"testing"

	"github.com/wippyai/modsurfer/policy"
	"github.com/wippyai/modsurfer/summary"
)

func noFetch(url string) ([]byte, error) {
	return nil, errors.New("fetch should not be called")
}

func TestLoadEmptyChecklist(t *testing.T) {
	p, err := policy.Load([]byte("validate: {}\n"), noFetch)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.AllowWasi != nil {
		t.Errorf("expected AllowWasi unset, got %v", *p.AllowWasi)
	}
}

func TestLoadAllowWasi(t *testing.T) {
	p, err := policy.Load([]byte("validate:\n  allow_wasi: false\n"), noFetch)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.AllowWasi == nil || *p.AllowWasi != false {
		t.Fatalf("expected AllowWasi=false, got %v", p.AllowWasi)
	}
}

func TestLoadImportsClauses(t *testing.T) {
	doc := `
validate:
  imports:
    include:
      - log_message
      - namespace: env
        name: http_get
        params: [I32, I32]
        results: [I32]
    namespace:
      exclude: [wasi_snapshot_preview1]
`
	p, err := policy.Load([]byte(doc), noFetch)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.ImportsInclude) != 2 {
		t.Fatalf("expected 2 import matchers, got %d", len(p.ImportsInclude))
	}
	if len(p.ImportsNamespaceExclude) != 1 || p.ImportsNamespaceExclude[0] != "wasi_snapshot_preview1" {
		t.Errorf("unexpected namespace exclude: %v", p.ImportsNamespaceExclude)
	}

	var withSig policy.FunctionMatcher
	for _, m := range p.ImportsInclude {
		if m.Name == "http_get" {
			withSig = m
		}
	}
	if !withSig.HasParams || len(withSig.Params) != 2 || withSig.Params[0] != summary.I32 {
		t.Errorf("unexpected signature matcher: %+v", withSig)
	}
}

func TestLoadExportsMax(t *testing.T) {
	p, err := policy.Load([]byte("validate:\n  exports:\n    max: 100\n"), noFetch)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.ExportsMax == nil || *p.ExportsMax != 100 {
		t.Fatalf("expected ExportsMax=100, got %v", p.ExportsMax)
	}
}

func TestLoadSizeMaxWithUnits(t *testing.T) {
	p, err := policy.Load([]byte("validate:\n  size:\n    max: 4MB\n"), noFetch)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.SizeMax == nil || *p.SizeMax != 4_000_000 {
		t.Fatalf("expected SizeMax=4000000, got %v", p.SizeMax)
	}
	if p.SizeMaxRaw != "4MB" {
		t.Errorf("expected SizeMaxRaw=4MB, got %q", p.SizeMaxRaw)
	}
}

func TestLoadComplexityMaxRisk(t *testing.T) {
	p, err := policy.Load([]byte("validate:\n  complexity:\n    max_risk: Medium\n"), noFetch)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.ComplexityMaxRisk == nil || *p.ComplexityMaxRisk != summary.RiskMedium {
		t.Fatalf("expected ComplexityMaxRisk=Medium, got %v", p.ComplexityMaxRisk)
	}
}

func TestLoadUnknownFieldsCollected(t *testing.T) {
	p, err := policy.Load([]byte("validate:\n  bogus: true\n"), noFetch)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.UnknownFields) != 1 || p.UnknownFields[0] != "bogus" {
		t.Errorf("expected UnknownFields=[bogus], got %v", p.UnknownFields)
	}
}

func TestLoadURLIndirection(t *testing.T) {
	fetch := func(url string) ([]byte, error) {
		if url != "https://example.com/policy.yaml" {
			t.Fatalf("unexpected url %q", url)
		}
		return []byte("validate:\n  allow_wasi: true\n"), nil
	}

	p, err := policy.Load([]byte("validate:\n  url: https://example.com/policy.yaml\n"), fetch)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.AllowWasi == nil || *p.AllowWasi != true {
		t.Fatalf("expected AllowWasi=true after redirect, got %v", p.AllowWasi)
	}
}

func TestLoadURLRedirectLoopRejected(t *testing.T) {
	fetch := func(url string) ([]byte, error) {
		return []byte("validate:\n  url: https://example.com/again.yaml\n"), nil
	}

	_, err := policy.Load([]byte("validate:\n  url: https://example.com/policy.yaml\n"), fetch)
	if err == nil {
		t.Fatal("expected RedirectLoop error")
	}
}

func TestFunctionMatcherBareNameIgnoresNamespace(t *testing.T) {
	m := policy.FunctionMatcher{Name: "fd_write"}
	c := policy.Candidate{Namespace: "wasi_snapshot_preview1", Name: "fd_write"}
	if !m.Matches(c) {
		t.Error("expected bare-name matcher to match regardless of namespace")
	}
}

func TestFunctionMatcherSignatureMismatch(t *testing.T) {
	m := policy.FunctionMatcher{
		Name: "http_get", HasParams: true,
		Params: []summary.ValType{summary.I32, summary.I32},
	}
	c := policy.Candidate{
		Name: "http_get",
		Func: &summary.FunctionType{Params: []summary.ValType{summary.I32}},
	}
	if m.Matches(c) {
		t.Error("expected signature length mismatch to disqualify the candidate")
	}
}
