package generate

import (
	"gopkg.in/yaml.v3"

	"github.com/wippyai/modsurfer/errors"
	"github.com/wippyai/modsurfer/policy"
	"github.com/wippyai/modsurfer/summary"
)

type yamlDoc struct {
	Validate yamlValidate `yaml:"validate"`
}

type yamlValidate struct {
	AllowWasi  *bool           `yaml:"allow_wasi,omitempty"`
	Imports    *yamlImports    `yaml:"imports,omitempty"`
	Exports    *yamlExports    `yaml:"exports,omitempty"`
	Size       *yamlSize       `yaml:"size,omitempty"`
	Complexity *yamlComplexity `yaml:"complexity,omitempty"`
}

type yamlImports struct {
	Include []yamlMatcher `yaml:"include,omitempty"`
}

type yamlExports struct {
	Max     *uint64       `yaml:"max,omitempty"`
	Include []yamlMatcher `yaml:"include,omitempty"`
}

type yamlSize struct {
	Max string `yaml:"max,omitempty"`
}

type yamlComplexity struct {
	MaxRisk string `yaml:"max_risk,omitempty"`
}

type yamlMatcher struct {
	Namespace *string   `yaml:"namespace,omitempty"`
	Name      string    `yaml:"name"`
	Params    *[]string `yaml:"params,omitempty"`
	Results   *[]string `yaml:"results,omitempty"`
}

// Serialize renders a generated Policy back to checkfile YAML. It is the
// left-inverse counterpart to policy.Load: load(Serialize(p)) reconstructs
// a Policy structurally identical to p.
func Serialize(p *policy.Policy) ([]byte, error) {
	doc := yamlDoc{Validate: yamlValidate{
		AllowWasi: p.AllowWasi,
	}}

	if len(p.ImportsInclude) > 0 {
		doc.Validate.Imports = &yamlImports{Include: matchersToYAML(p.ImportsInclude)}
	}

	if p.ExportsMax != nil || len(p.ExportsInclude) > 0 {
		doc.Validate.Exports = &yamlExports{
			Max:     p.ExportsMax,
			Include: matchersToYAML(p.ExportsInclude),
		}
	}

	if p.SizeMax != nil {
		raw := p.SizeMaxRaw
		doc.Validate.Size = &yamlSize{Max: raw}
	}

	if p.ComplexityMaxRisk != nil {
		doc.Validate.Complexity = &yamlComplexity{MaxRisk: p.ComplexityMaxRisk.String()}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidData).
			Detail("serialising policy").Cause(err).Build()
	}
	return out, nil
}

func matchersToYAML(ms []policy.FunctionMatcher) []yamlMatcher {
	if len(ms) == 0 {
		return nil
	}
	out := make([]yamlMatcher, 0, len(ms))
	for _, m := range ms {
		ym := yamlMatcher{Namespace: m.Namespace, Name: m.Name}
		if m.HasParams {
			p := valTypeNames(m.Params)
			ym.Params = &p
		}
		if m.HasResults {
			r := valTypeNames(m.Results)
			ym.Results = &r
		}
		out = append(out, ym)
	}
	return out
}

func valTypeNames(vs []summary.ValType) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, valTypeName(v))
	}
	return out
}

func valTypeName(v summary.ValType) string {
	switch v {
	case summary.I32:
		return "I32"
	case summary.I64:
		return "I64"
	case summary.F32:
		return "F32"
	case summary.F64:
		return "F64"
	case summary.V128:
		return "V128"
	case summary.FuncRef:
		return "FuncRef"
	case summary.ExternRef:
		return "ExternRef"
	default:
		return "I32"
	}
}
