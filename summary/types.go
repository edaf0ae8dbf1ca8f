package summary

import "github.com/wippyai/modsurfer/wasm"

// ValType is the restricted set of value types the checkfile language can
// reference. It is the wasm package's byte encoding, narrowed to the
// WebAssembly 2.0 + reference-types + SIMD vocabulary.
type ValType = wasm.ValType

// The recognised ValType values, re-exported under their checkfile names.
const (
	I32       = wasm.ValI32
	I64       = wasm.ValI64
	F32       = wasm.ValF32
	F64       = wasm.ValF64
	V128      = wasm.ValV128
	FuncRef   = wasm.ValFuncRef
	ExternRef = wasm.ValExtern
)

// SourceLanguage is the producer toolchain inferred for a module.
type SourceLanguage string

const (
	LangUnknown        SourceLanguage = "Unknown"
	LangRust           SourceLanguage = "Rust"
	LangGo             SourceLanguage = "Go"
	LangC              SourceLanguage = "C"
	LangCpp            SourceLanguage = "Cpp"
	LangAssemblyScript SourceLanguage = "AssemblyScript"
	LangSwift          SourceLanguage = "Swift"
	LangJavaScript     SourceLanguage = "JavaScript"
	LangHaskell        SourceLanguage = "Haskell"
	LangZig            SourceLanguage = "Zig"
)

// parseSourceLanguage matches a producers-section language value
// case-insensitively, falling back to LangUnknown for anything it doesn't
// recognise (forward compatibility as the language enum grows).
func parseSourceLanguage(s string) SourceLanguage {
	for _, l := range []SourceLanguage{
		LangRust, LangGo, LangC, LangCpp, LangAssemblyScript,
		LangSwift, LangJavaScript, LangHaskell, LangZig,
	} {
		if equalFold(string(l), s) {
			return l
		}
	}
	return LangUnknown
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Risk is a discrete summary of cyclomatic complexity.
type Risk int

const (
	RiskLow Risk = iota
	RiskMedium
	RiskHigh
)

func (r Risk) String() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// ParseRisk parses a risk label, case-insensitively.
func ParseRisk(s string) (Risk, bool) {
	switch {
	case equalFold(s, "Low"):
		return RiskLow, true
	case equalFold(s, "Medium"):
		return RiskMedium, true
	case equalFold(s, "High"):
		return RiskHigh, true
	default:
		return 0, false
	}
}

// Complexity is the cyclomatic-complexity score and its risk classification.
type Complexity struct {
	Score int
	Risk  Risk
}

// FunctionType is a function signature: parameter and result value types.
type FunctionType struct {
	Params  []ValType
	Results []ValType
}

// Equal reports whether two signatures match element-wise.
func (f FunctionType) Equal(o FunctionType) bool {
	if len(f.Params) != len(o.Params) || len(f.Results) != len(o.Results) {
		return false
	}
	for i := range f.Params {
		if f.Params[i] != o.Params[i] {
			return false
		}
	}
	for i := range f.Results {
		if f.Results[i] != o.Results[i] {
			return false
		}
	}
	return true
}

// Import is an imported definition. Func is populated only when the import
// is a function.
type Import struct {
	Func      *FunctionType
	Namespace string
	Name      string
}

// ExportKind classifies what an Export refers to.
type ExportKind int

const (
	ExportFunction ExportKind = iota
	ExportMemory
	ExportTable
	ExportGlobal
)

func (k ExportKind) String() string {
	switch k {
	case ExportFunction:
		return "Function"
	case ExportMemory:
		return "Memory"
	case ExportTable:
		return "Table"
	case ExportGlobal:
		return "Global"
	default:
		return "Unknown"
	}
}

// Export is an exported definition. Func is populated only when kind is
// ExportFunction.
type Export struct {
	Func *FunctionType
	Name string
	Kind ExportKind
}

// Limits describes min/max size constraints for a memory or table.
type Limits struct {
	Min uint64
	Max *uint64
}

// Summary is the immutable, structured description of a decoded wasm
// module. It is produced once by Decode and never mutated afterward.
type Summary struct {
	Hash           string
	SizeBytes      int
	SourceLanguage SourceLanguage
	Imports        []Import
	Exports        []Export
	FunctionTypes  map[uint32]FunctionType
	Memories       []Limits
	Tables         []Limits
	Globals        int
	StartFunction  *uint32
	Complexity     Complexity
	Strings        map[string]struct{}
}

// HasWASIImport reports whether any import namespace is a recognised WASI
// snapshot namespace, used by the allow_wasi clause.
func (s *Summary) HasWASIImport() bool {
	for _, imp := range s.Imports {
		switch imp.Namespace {
		case "wasi_snapshot_preview1", "wasi_unstable", "wasi_snapshot_preview2":
			return true
		}
	}
	return false
}
