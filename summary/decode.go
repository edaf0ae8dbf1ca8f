package summary

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"go.uber.org/zap"

	modsurferrors "github.com/wippyai/modsurfer/errors"
	"github.com/wippyai/modsurfer/wasm"
)

// Decode parses raw wasm bytes into a Module Summary. The returned Summary
// never retains references into data; decode copies out names and payloads
// it keeps.
func Decode(data []byte) (*Summary, error) {
	hash := sha256.Sum256(data)

	mod, err := wasm.ParseModuleValidate(data)
	if err != nil {
		return nil, translateDecodeError(err)
	}

	s := &Summary{
		Hash:      hex.EncodeToString(hash[:]),
		SizeBytes: len(data),
	}

	s.Imports = buildImports(mod)
	s.Exports = buildExports(mod)
	s.FunctionTypes = buildFunctionTypes(mod)
	s.Memories = buildMemoryLimits(mod)
	s.Tables = buildTableLimits(mod)
	s.Globals = len(mod.Globals) + mod.NumImportedGlobals()
	s.StartFunction = mod.Start
	s.Strings = extractStrings(mod)
	s.Complexity = analyzeComplexity(mod)
	s.SourceLanguage = inferSourceLanguage(mod, s)

	Logger().Debug("decoded module",
		zap.Int("size_bytes", s.SizeBytes),
		zap.Int("imports", len(s.Imports)),
		zap.Int("exports", len(s.Exports)),
		zap.String("source_language", string(s.SourceLanguage)),
	)

	return s, nil
}

// translateDecodeError maps a wasm.ParseModuleValidate failure onto the
// Malformed / Unsupported error taxonomy, preserving the byte offset when
// the underlying parser supplied one.
func translateDecodeError(err error) error {
	switch err {
	case wasm.ErrInvalidMagic, wasm.ErrInvalidVersion:
		return modsurferrors.Malformed(0, err.Error())
	}

	offset := -1
	if oe, ok := err.(*wasm.OffsetError); ok {
		offset = oe.Offset
	}

	if errors.Is(err, wasm.ErrUnsupportedFeature) {
		return modsurferrors.UnsupportedFeature(offset, err.Error())
	}

	return modsurferrors.Malformed(offset, err.Error())
}

func buildImports(mod *wasm.Module) []Import {
	imports := make([]Import, 0, len(mod.Imports))
	var funcIdx uint32
	for _, imp := range mod.Imports {
		rec := Import{
			Namespace: imp.Module,
			Name:      imp.Name,
		}
		if imp.Desc.Kind == wasm.KindFunc {
			if ft := mod.GetFuncType(funcIdx); ft != nil {
				rec.Func = &FunctionType{Params: append([]ValType(nil), ft.Params...), Results: append([]ValType(nil), ft.Results...)}
			}
			funcIdx++
		}
		imports = append(imports, rec)
	}
	return imports
}

func buildExports(mod *wasm.Module) []Export {
	exports := make([]Export, 0, len(mod.Exports))
	for _, exp := range mod.Exports {
		rec := Export{Name: exp.Name}
		switch exp.Kind {
		case wasm.KindFunc:
			rec.Kind = ExportFunction
			if ft := mod.GetFuncType(exp.Idx); ft != nil {
				rec.Func = &FunctionType{Params: append([]ValType(nil), ft.Params...), Results: append([]ValType(nil), ft.Results...)}
			}
		case wasm.KindMemory:
			rec.Kind = ExportMemory
		case wasm.KindTable:
			rec.Kind = ExportTable
		case wasm.KindGlobal:
			rec.Kind = ExportGlobal
		default:
			continue
		}
		exports = append(exports, rec)
	}
	return exports
}

func buildFunctionTypes(mod *wasm.Module) map[uint32]FunctionType {
	numImported := uint32(mod.NumImportedFuncs())
	total := numImported + uint32(len(mod.Funcs))
	out := make(map[uint32]FunctionType, total)
	for idx := uint32(0); idx < total; idx++ {
		ft := mod.GetFuncType(idx)
		if ft == nil {
			continue
		}
		out[idx] = FunctionType{Params: append([]ValType(nil), ft.Params...), Results: append([]ValType(nil), ft.Results...)}
	}
	return out
}

func buildMemoryLimits(mod *wasm.Module) []Limits {
	out := make([]Limits, 0, len(mod.Memories))
	for _, m := range mod.Memories {
		out = append(out, Limits{Min: m.Limits.Min, Max: m.Limits.Max})
	}
	return out
}

func buildTableLimits(mod *wasm.Module) []Limits {
	out := make([]Limits, 0, len(mod.Tables))
	for _, t := range mod.Tables {
		out = append(out, Limits{Min: t.Limits.Min, Max: t.Limits.Max})
	}
	return out
}

// extractStrings does a best-effort scan of the data section for printable
// UTF-8 runs, used by catalog search.
func extractStrings(mod *wasm.Module) map[string]struct{} {
	out := make(map[string]struct{})
	const minRun = 4
	for _, seg := range mod.Data {
		scanPrintableRuns(seg.Init, minRun, out)
	}
	return out
}

func scanPrintableRuns(data []byte, minRun int, out map[string]struct{}) {
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= minRun {
			out[string(data[start:end])] = struct{}{}
		}
		start = -1
	}
	for i, b := range data {
		if b >= 0x20 && b < 0x7f {
			if start < 0 {
				start = i
			}
		} else {
			flush(i)
		}
	}
	flush(len(data))
}
