package validate

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/modsurfer/policy"
	"github.com/wippyai/modsurfer/summary"
)

// Validate evaluates every clause present in p against s and returns the
// resulting Report, sorted by property path.
func Validate(s *summary.Summary, p *policy.Policy) Report {
	ev := &evaluator{summary: s, policy: p, seen: map[string]int{}}
	ev.run()

	sort.Slice(ev.outcomes, func(i, j int) bool {
		return ev.outcomes[i].Property < ev.outcomes[j].Property
	})

	Logger().Debug("validated module",
		zap.Int("outcomes", len(ev.outcomes)),
		zap.Bool("has_failures", Report{Outcomes: ev.outcomes}.HasFailures()),
	)

	return Report{Outcomes: ev.outcomes}
}

type evaluator struct {
	summary  *summary.Summary
	policy   *policy.Policy
	outcomes []Outcome
	seen     map[string]int
}

func (ev *evaluator) emit(o Outcome) {
	o.Property = ev.disambiguate(o.Property)
	ev.outcomes = append(ev.outcomes, o)
}

func (ev *evaluator) disambiguate(base string) string {
	ev.seen[base]++
	if ev.seen[base] == 1 {
		return base
	}
	return fmt.Sprintf("%s#%d", base, ev.seen[base])
}

func (ev *evaluator) run() {
	p := ev.policy

	if p.AllowWasi != nil {
		ev.evalAllowWasi(*p.AllowWasi)
	}

	ev.evalMatcherList("imports.include", ev.importCandidates(), p.ImportsInclude, AbiCompatibility, nil)
	ev.evalExcludeList("imports.exclude", ev.importCandidates(), p.ImportsExclude, AbiCompatibility, 10)

	for _, ns := range p.ImportsNamespaceInclude {
		ev.evalNamespaceInclude(ns)
	}
	for _, ns := range p.ImportsNamespaceExclude {
		ev.evalNamespaceExclude(ns)
	}

	if p.ExportsMax != nil {
		ev.evalExportsMax(*p.ExportsMax)
	}

	exportsSeverity := 10
	ev.evalMatcherList("exports.include", ev.exportCandidates(), p.ExportsInclude, AbiCompatibility, &exportsSeverity)
	ev.evalExcludeList("exports.exclude", ev.exportCandidates(), p.ExportsExclude, Security, 5)

	if p.SizeMax != nil {
		ev.evalSizeMax(*p.SizeMax)
	}

	if p.ComplexityMaxRisk != nil {
		ev.evalComplexityMaxRisk(*p.ComplexityMaxRisk)
	}

	if len(p.UnknownFields) > 0 {
		ev.evalUnknownFields()
	}
}

func (ev *evaluator) importCandidates() []policy.Candidate {
	out := make([]policy.Candidate, 0, len(ev.summary.Imports))
	for _, imp := range ev.summary.Imports {
		out = append(out, policy.Candidate{Namespace: imp.Namespace, Name: imp.Name, Func: imp.Func})
	}
	return out
}

// exportCandidates returns only Function-kind exports. Whether
// non-function exports participate in exports.include/exclude matching is
// left ambiguous by the checkfile's own documentation; this implementation
// treats non-Function exports as unmatchable.
func (ev *evaluator) exportCandidates() []policy.Candidate {
	out := make([]policy.Candidate, 0, len(ev.summary.Exports))
	for _, exp := range ev.summary.Exports {
		if exp.Kind != summary.ExportFunction {
			continue
		}
		out = append(out, policy.Candidate{Name: exp.Name, Func: exp.Func})
	}
	return out
}

func (ev *evaluator) evalAllowWasi(allowed bool) {
	if allowed {
		ev.emit(Outcome{
			Status: Pass, Property: "allow_wasi",
			Expected: "true", Actual: "true",
			Classification: AbiCompatibility, Severity: 10,
		})
		return
	}

	hasWASI := ev.summary.HasWASIImport()
	status := Pass
	if hasWASI {
		status = Fail
	}
	ev.emit(Outcome{
		Status: status, Property: "allow_wasi",
		Expected: "false", Actual: boolString(hasWASI),
		Classification: AbiCompatibility, Severity: 10,
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// evalMatcherList emits one Outcome per matcher: Pass if some candidate
// matches, Fail otherwise. When fixedSeverity is nil, severity follows
// imports.include's signature-based formula: 10 for a matcher that
// specifies params or results, 8 for a bare name. When fixedSeverity is
// non-nil (exports.include), every matcher in the clause uses that
// severity regardless of whether it carries a signature.
func (ev *evaluator) evalMatcherList(clause string, candidates []policy.Candidate, matchers []policy.FunctionMatcher, class Classification, fixedSeverity *int) {
	for _, m := range matchers {
		matched := matcherMatchesAny(m, candidates)
		severity := 8
		if m.HasParams || m.HasResults {
			severity = 10
		}
		if fixedSeverity != nil {
			severity = *fixedSeverity
		}

		status := Fail
		if matched {
			status = Pass
		}
		ev.emit(Outcome{
			Status: status, Property: clause + "." + m.DisplayKey(),
			Expected: "included", Actual: actualIncludedString(matched),
			Classification: class, Severity: severity,
		})
	}
}

func actualIncludedString(matched bool) string {
	if matched {
		return "included"
	}
	return "excluded"
}

func (ev *evaluator) evalExcludeList(clause string, candidates []policy.Candidate, matchers []policy.FunctionMatcher, class Classification, severity int) {
	for _, m := range matchers {
		matched := matcherMatchesAny(m, candidates)
		status := Pass
		if matched {
			status = Fail
		}
		ev.emit(Outcome{
			Status: status, Property: clause + "." + m.DisplayKey(),
			Expected: "excluded", Actual: actualIncludedString(matched),
			Classification: class, Severity: severity,
		})
	}
}

func matcherMatchesAny(m policy.FunctionMatcher, candidates []policy.Candidate) bool {
	for _, c := range candidates {
		if m.Matches(c) {
			return true
		}
	}
	return false
}

func (ev *evaluator) evalNamespaceInclude(ns string) {
	found := false
	for _, imp := range ev.summary.Imports {
		if imp.Namespace == ns {
			found = true
			break
		}
	}
	status := Fail
	if found {
		status = Pass
	}
	ev.emit(Outcome{
		Status: status, Property: "imports.namespace.include." + ns,
		Expected: "included", Actual: actualIncludedString(found),
		Classification: AbiCompatibility, Severity: 8,
	})
}

func (ev *evaluator) evalNamespaceExclude(ns string) {
	found := false
	for _, imp := range ev.summary.Imports {
		if imp.Namespace == ns {
			found = true
			break
		}
	}
	status := Pass
	if found {
		status = Fail
	}
	ev.emit(Outcome{
		Status: status, Property: "imports.namespace.exclude." + ns,
		Expected: "excluded", Actual: actualIncludedString(found),
		Classification: AbiCompatibility, Severity: 10,
	})
}

func (ev *evaluator) evalExportsMax(max uint64) {
	count := uint64(len(ev.summary.Exports))
	status := Pass
	if count > max {
		status = Fail
	}
	ev.emit(Outcome{
		Status: status, Property: "exports.max",
		Expected: fmt.Sprintf("<= %d", max), Actual: fmt.Sprintf("%d", count),
		Classification: Security, Severity: 6,
	})
}

func (ev *evaluator) evalSizeMax(max uint64) {
	actual := uint64(ev.summary.SizeBytes)
	status := Pass
	if actual > max {
		status = Fail
	}
	expectedRaw := ev.policy.SizeMaxRaw
	if expectedRaw == "" {
		expectedRaw = fmt.Sprintf("%d", max)
	}
	ev.emit(Outcome{
		Status: status, Property: "size.max",
		Expected: "<= " + expectedRaw, Actual: renderSizeBinary(actual),
		Classification: ResourceLimit, Severity: 1,
	})
}

func (ev *evaluator) evalComplexityMaxRisk(max summary.Risk) {
	actual := ev.summary.Complexity.Risk
	status := Pass
	if actual > max {
		status = Fail
	}
	ev.emit(Outcome{
		Status: status, Property: "complexity.max_risk",
		Expected: max.String(), Actual: actual.String(),
		Classification: ResourceLimit, Severity: 1,
	})
}

func (ev *evaluator) evalUnknownFields() {
	ev.emit(Outcome{
		Status: Fail, Property: "unknown_fields",
		Expected: "no unrecognised keys", Actual: fmt.Sprintf("%d unrecognised key(s)", len(ev.policy.UnknownFields)),
		Classification: Security, Severity: 1,
	})
}
