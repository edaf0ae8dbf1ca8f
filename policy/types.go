package policy

import "github.com/wippyai/modsurfer/summary"

// ValType re-exports the summary package's value type vocabulary so callers
// of policy never need to import summary directly for matcher construction.
type ValType = summary.ValType

// FunctionMatcher is a partial description of a function-shaped import or
// export. Fields left nil are wildcards; Name is the only field a bare YAML
// string entry populates.
type FunctionMatcher struct {
	Namespace *string
	Name      string
	Params    []ValType
	Results   []ValType
	HasParams bool
	HasResults bool
}

// DisplayKey is the matcher's property-path component: its Name if present,
// otherwise "<namespace>.<*>".
func (m FunctionMatcher) DisplayKey() string {
	if m.Name != "" {
		return m.Name
	}
	ns := "*"
	if m.Namespace != nil {
		ns = *m.Namespace
	}
	return ns + ".*"
}

// Candidate is the function-shaped thing a matcher is tested against: an
// Import or an Export, function kind only.
type Candidate struct {
	Namespace string
	Name      string
	Func      *summary.FunctionType
}

// Matches reports whether every field the matcher specifies agrees with the
// candidate. A matcher naming params/results disqualifies a candidate with
// no function signature.
func (m FunctionMatcher) Matches(c Candidate) bool {
	if m.Namespace != nil && *m.Namespace != c.Namespace {
		return false
	}
	if m.Name != "" && m.Name != c.Name {
		return false
	}
	if m.HasParams || m.HasResults {
		if c.Func == nil {
			return false
		}
		if m.HasParams && !valTypesEqual(m.Params, c.Func.Params) {
			return false
		}
		if m.HasResults && !valTypesEqual(m.Results, c.Func.Results) {
			return false
		}
	}
	return true
}

func valTypesEqual(a, b []ValType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Policy is a tree of optional, independently-evaluated clauses. A nil
// field imposes no constraint; this is a tagged-variant model, not
// inheritance, so adding a clause never touches existing ones.
type Policy struct {
	AllowWasi *bool

	ImportsInclude          []FunctionMatcher
	ImportsExclude          []FunctionMatcher
	ImportsNamespaceInclude []string
	ImportsNamespaceExclude []string

	ExportsMax     *uint64
	ExportsInclude []FunctionMatcher
	ExportsExclude []FunctionMatcher

	SizeMax *uint64
	// SizeMaxRaw preserves the checkfile author's original size.max text
	// (e.g. "4MB") so the Validator can render the expectation in the units
	// the user wrote rather than always converting to bytes.
	SizeMaxRaw string

	ComplexityMaxRisk *summary.Risk

	// UnknownFields holds the dotted paths of every recognised-ancestor,
	// unrecognised-leaf key encountered while loading. It is informational:
	// the loader does not fail on it, the validator folds it into a single
	// Outcome. Keys inside an import or export matcher entry are not
	// collected here; an unknown one fails the load instead.
	UnknownFields []string
}
