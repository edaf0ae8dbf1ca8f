package summary

import (
	"bufio"
	"bytes"
	"io"

	"github.com/wippyai/modsurfer/wasm"
)

// inferSourceLanguage determines the producer toolchain for a module. It
// first looks for a "producers" custom section's "language" field (the
// Tool Conventions proposal's format); when that section is absent or
// unparsable it falls back to the import/export fingerprint heuristic.
func inferSourceLanguage(mod *wasm.Module, s *Summary) SourceLanguage {
	if lang, ok := producersLanguage(mod); ok {
		return lang
	}
	return fingerprintLanguage(s)
}

// producersLanguage parses the "producers" custom section, a sequence of
// named fields, each a sequence of (value, version) string pairs. It
// returns the first recognised value under the "language" field.
func producersLanguage(mod *wasm.Module) (SourceLanguage, bool) {
	for _, cs := range mod.CustomSections {
		if cs.Name != "producers" {
			continue
		}

		r := bufio.NewReader(bytes.NewReader(cs.Data))
		fieldCount, err := wasm.ReadLEB128u(r)
		if err != nil {
			return "", false
		}

		for f := uint32(0); f < fieldCount; f++ {
			fieldName, err := readString(r)
			if err != nil {
				return "", false
			}

			valueCount, err := wasm.ReadLEB128u(r)
			if err != nil {
				return "", false
			}

			for v := uint32(0); v < valueCount; v++ {
				value, err := readString(r)
				if err != nil {
					return "", false
				}
				if _, err := readString(r); err != nil { // version, unused
					return "", false
				}
				if fieldName == "language" {
					if lang := parseSourceLanguage(value); lang != LangUnknown {
						return lang, true
					}
				}
			}
		}
	}
	return "", false
}

func readString(r *bufio.Reader) (string, error) {
	n, err := wasm.ReadLEB128u(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// fingerprintLanguage applies the fixed import/export heuristic when no
// producers section settles the question: a WASI namespace import plus a
// "_start" export reads as a WASI-targeting toolchain (most commonly Rust);
// a "memory" export plus an "env.abort" import is AssemblyScript's
// signature; a "_initialize" export or a Go-runtime-shaped import set reads
// as Go; anything else is Unknown.
func fingerprintLanguage(s *Summary) SourceLanguage {
	hasMemoryExport := false
	hasStartExport := false
	hasInitializeExport := false
	for _, exp := range s.Exports {
		switch exp.Name {
		case "memory":
			if exp.Kind == ExportMemory {
				hasMemoryExport = true
			}
		case "_start":
			hasStartExport = true
		case "_initialize":
			hasInitializeExport = true
		}
	}

	hasEnvAbort := false
	hasGoRuntimeImport := false
	for _, imp := range s.Imports {
		if imp.Namespace == "env" && imp.Name == "abort" {
			hasEnvAbort = true
		}
		if imp.Namespace == "gojs" || imp.Namespace == "go" {
			hasGoRuntimeImport = true
		}
	}

	switch {
	case hasMemoryExport && hasEnvAbort:
		return LangAssemblyScript
	case hasGoRuntimeImport || hasInitializeExport:
		return LangGo
	case s.HasWASIImport() && hasStartExport:
		return LangRust
	default:
		return LangUnknown
	}
}
