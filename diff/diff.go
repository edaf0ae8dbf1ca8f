package diff

import (
	"sort"

	"github.com/wippyai/modsurfer/summary"
)

// ImportKey identifies an import record across two summaries.
type ImportKey struct {
	Namespace string
	Name      string
}

// ImportChange is a function signature change for an import that exists in
// both summaries under the same key.
type ImportChange struct {
	Key    ImportKey
	Before *summary.FunctionType
	After  *summary.FunctionType
}

// ImportDiff is the per-field added/removed/changed breakdown for imports.
type ImportDiff struct {
	Added   []summary.Import
	Removed []summary.Import
	Changed []ImportChange
}

// ExportChange is a function signature change for an export present in
// both summaries under the same name.
type ExportChange struct {
	Name   string
	Before *summary.FunctionType
	After  *summary.FunctionType
}

// ExportDiff is the per-field added/removed/changed breakdown for exports.
type ExportDiff struct {
	Added   []summary.Export
	Removed []summary.Export
	Changed []ExportChange
}

// StringDiff is the added/removed breakdown for data-section string
// literals between two summaries.
type StringDiff struct {
	Added   []string
	Removed []string
}

// Diff is the structured comparison of two Module Summaries. Every field
// is directional: "Added" means present in After but not Before.
type Diff struct {
	Imports ImportDiff
	Exports ExportDiff
	Strings StringDiff

	SizeBytesBefore, SizeBytesAfter int
	ComplexityScoreBefore, ComplexityScoreAfter int
	ComplexityRiskBefore, ComplexityRiskAfter   summary.Risk
	SourceLanguageBefore, SourceLanguageAfter   summary.SourceLanguage
}

// Compute produces the diff from `before` to `after`.
func Compute(before, after *summary.Summary) *Diff {
	d := &Diff{
		SizeBytesBefore:       before.SizeBytes,
		SizeBytesAfter:        after.SizeBytes,
		ComplexityScoreBefore: before.Complexity.Score,
		ComplexityScoreAfter:  after.Complexity.Score,
		ComplexityRiskBefore:  before.Complexity.Risk,
		ComplexityRiskAfter:   after.Complexity.Risk,
		SourceLanguageBefore:  before.SourceLanguage,
		SourceLanguageAfter:   after.SourceLanguage,
	}

	d.Imports = diffImports(before.Imports, after.Imports)
	d.Exports = diffExports(before.Exports, after.Exports)
	d.Strings = diffStrings(before.Strings, after.Strings)

	return d
}

func diffImports(before, after []summary.Import) ImportDiff {
	beforeByKey := make(map[ImportKey]summary.Import, len(before))
	for _, imp := range before {
		beforeByKey[ImportKey{imp.Namespace, imp.Name}] = imp
	}
	afterByKey := make(map[ImportKey]summary.Import, len(after))
	for _, imp := range after {
		afterByKey[ImportKey{imp.Namespace, imp.Name}] = imp
	}

	var d ImportDiff
	for key, a := range afterByKey {
		b, ok := beforeByKey[key]
		if !ok {
			d.Added = append(d.Added, a)
			continue
		}
		if !functionTypesEqual(b.Func, a.Func) {
			d.Changed = append(d.Changed, ImportChange{Key: key, Before: b.Func, After: a.Func})
		}
	}
	for key, b := range beforeByKey {
		if _, ok := afterByKey[key]; !ok {
			d.Removed = append(d.Removed, b)
		}
	}

	sort.Slice(d.Added, func(i, j int) bool { return importLess(d.Added[i], d.Added[j]) })
	sort.Slice(d.Removed, func(i, j int) bool { return importLess(d.Removed[i], d.Removed[j]) })
	sort.Slice(d.Changed, func(i, j int) bool {
		if d.Changed[i].Key.Namespace != d.Changed[j].Key.Namespace {
			return d.Changed[i].Key.Namespace < d.Changed[j].Key.Namespace
		}
		return d.Changed[i].Key.Name < d.Changed[j].Key.Name
	})
	return d
}

func importLess(a, b summary.Import) bool {
	if a.Namespace != b.Namespace {
		return a.Namespace < b.Namespace
	}
	return a.Name < b.Name
}

func diffExports(before, after []summary.Export) ExportDiff {
	beforeByName := make(map[string]summary.Export, len(before))
	for _, exp := range before {
		beforeByName[exp.Name] = exp
	}
	afterByName := make(map[string]summary.Export, len(after))
	for _, exp := range after {
		afterByName[exp.Name] = exp
	}

	var d ExportDiff
	for name, a := range afterByName {
		b, ok := beforeByName[name]
		if !ok {
			d.Added = append(d.Added, a)
			continue
		}
		if !functionTypesEqual(b.Func, a.Func) {
			d.Changed = append(d.Changed, ExportChange{Name: name, Before: b.Func, After: a.Func})
		}
	}
	for name, b := range beforeByName {
		if _, ok := afterByName[name]; !ok {
			d.Removed = append(d.Removed, b)
		}
	}

	sort.Slice(d.Added, func(i, j int) bool { return d.Added[i].Name < d.Added[j].Name })
	sort.Slice(d.Removed, func(i, j int) bool { return d.Removed[i].Name < d.Removed[j].Name })
	sort.Slice(d.Changed, func(i, j int) bool { return d.Changed[i].Name < d.Changed[j].Name })
	return d
}

func diffStrings(before, after map[string]struct{}) StringDiff {
	var d StringDiff
	for s := range after {
		if _, ok := before[s]; !ok {
			d.Added = append(d.Added, s)
		}
	}
	for s := range before {
		if _, ok := after[s]; !ok {
			d.Removed = append(d.Removed, s)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	return d
}

func functionTypesEqual(a, b *summary.FunctionType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Inverse returns the diff from After to Before: added and removed swap,
// changed entries swap Before/After, and every scalar pair swaps.
func (d *Diff) Inverse() *Diff {
	inv := &Diff{
		Imports: ImportDiff{
			Added:   d.Imports.Removed,
			Removed: d.Imports.Added,
			Changed: newImportChangeSlice(len(d.Imports.Changed)),
		},
		Exports: ExportDiff{
			Added:   d.Exports.Removed,
			Removed: d.Exports.Added,
			Changed: newExportChangeSlice(len(d.Exports.Changed)),
		},
		Strings: StringDiff{
			Added:   d.Strings.Removed,
			Removed: d.Strings.Added,
		},
		SizeBytesBefore:       d.SizeBytesAfter,
		SizeBytesAfter:        d.SizeBytesBefore,
		ComplexityScoreBefore: d.ComplexityScoreAfter,
		ComplexityScoreAfter:  d.ComplexityScoreBefore,
		ComplexityRiskBefore:  d.ComplexityRiskAfter,
		ComplexityRiskAfter:   d.ComplexityRiskBefore,
		SourceLanguageBefore:  d.SourceLanguageAfter,
		SourceLanguageAfter:   d.SourceLanguageBefore,
	}
	for i, c := range d.Imports.Changed {
		inv.Imports.Changed[i] = ImportChange{Key: c.Key, Before: c.After, After: c.Before}
	}
	for i, c := range d.Exports.Changed {
		inv.Exports.Changed[i] = ExportChange{Name: c.Name, Before: c.After, After: c.Before}
	}
	return inv
}

func newImportChangeSlice(n int) []ImportChange {
	if n == 0 {
		return nil
	}
	return make([]ImportChange, n)
}

func newExportChangeSlice(n int) []ExportChange {
	if n == 0 {
		return nil
	}
	return make([]ExportChange, n)
}
