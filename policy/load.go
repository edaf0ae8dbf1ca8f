package policy

import (
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/modsurfer/errors"
	"github.com/wippyai/modsurfer/summary"
)

const httpFetchTimeout = 30 * time.Second

// Fetcher retrieves the bytes at a checkfile url: indirection. http.Get
// with a bounded timeout is the production Fetcher; tests supply a stub.
type Fetcher func(url string) ([]byte, error)

// DefaultFetcher performs a single bounded-timeout HTTP GET, following the
// client's default redirect policy.
func DefaultFetcher(url string) ([]byte, error) {
	client := &http.Client{Timeout: httpFetchTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, errors.HTTPFailure(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.HTTPFailure(url, errors.New(errors.PhaseLoad, errors.KindHTTP).
			Detail("unexpected status %d", resp.StatusCode).Build())
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.HTTPFailure(url, err)
	}
	return body, nil
}

// Load parses checkfile YAML into a Policy, following at most one url:
// indirection via fetch.
func Load(data []byte, fetch Fetcher) (*Policy, error) {
	return load(data, fetch, false)
}

func load(data []byte, fetch Fetcher, redirected bool) (*Policy, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Syntax(err)
	}
	if len(doc.Content) == 0 {
		return &Policy{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
			Detail("checkfile root must be a mapping").Build()
	}

	keys := mapKeys(root)
	validateNode, ok := keys["validate"]
	if !ok {
		return &Policy{}, nil
	}
	if validateNode.Kind != yaml.MappingNode {
		return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
			Detail("validate must be a mapping").Build()
	}

	vkeys := mapKeys(validateNode)
	if urlNode, ok := vkeys["url"]; ok && len(vkeys) == 1 {
		if redirected {
			return nil, errors.RedirectLoop(urlNode.Value)
		}
		body, err := fetch(urlNode.Value)
		if err != nil {
			return nil, err
		}
		return load(body, fetch, true)
	}

	p := &Policy{}
	var unknown []string

	for key, node := range vkeys {
		switch key {
		case "allow_wasi":
			v, err := parseBool(node)
			if err != nil {
				return nil, err
			}
			p.AllowWasi = &v

		case "url":
			unknown = append(unknown, "url")

		case "imports":
			if node.Kind != yaml.MappingNode {
				return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
					Detail("imports must be a mapping").Build()
			}
			ikeys := mapKeys(node)
			for ik, in := range ikeys {
				switch ik {
				case "include":
					m, err := parseMatcherList(in)
					if err != nil {
						return nil, err
					}
					p.ImportsInclude = m
				case "exclude":
					m, err := parseMatcherList(in)
					if err != nil {
						return nil, err
					}
					p.ImportsExclude = m
				case "namespace":
					if in.Kind != yaml.MappingNode {
						return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
							Detail("imports.namespace must be a mapping").Build()
					}
					nkeys := mapKeys(in)
					for nk, nn := range nkeys {
						switch nk {
						case "include":
							s, err := parseStringList(nn)
							if err != nil {
								return nil, err
							}
							p.ImportsNamespaceInclude = s
						case "exclude":
							s, err := parseStringList(nn)
							if err != nil {
								return nil, err
							}
							p.ImportsNamespaceExclude = s
						default:
							unknown = append(unknown, "imports.namespace."+nk)
						}
					}
				default:
					unknown = append(unknown, "imports."+ik)
				}
			}

		case "exports":
			if node.Kind != yaml.MappingNode {
				return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
					Detail("exports must be a mapping").Build()
			}
			ekeys := mapKeys(node)
			for ek, en := range ekeys {
				switch ek {
				case "max":
					v, err := parseUint(en)
					if err != nil {
						return nil, err
					}
					p.ExportsMax = &v
				case "include":
					m, err := parseMatcherList(en)
					if err != nil {
						return nil, err
					}
					p.ExportsInclude = m
				case "exclude":
					m, err := parseMatcherList(en)
					if err != nil {
						return nil, err
					}
					p.ExportsExclude = m
				default:
					unknown = append(unknown, "exports."+ek)
				}
			}

		case "size":
			if node.Kind != yaml.MappingNode {
				return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
					Detail("size must be a mapping").Build()
			}
			skeys := mapKeys(node)
			for sk, sn := range skeys {
				switch sk {
				case "max":
					v, err := parseSize(sn.Value)
					if err != nil {
						return nil, err
					}
					p.SizeMax = &v
					p.SizeMaxRaw = sn.Value
				default:
					unknown = append(unknown, "size."+sk)
				}
			}

		case "complexity":
			if node.Kind != yaml.MappingNode {
				return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
					Detail("complexity must be a mapping").Build()
			}
			ckeys := mapKeys(node)
			for ck, cn := range ckeys {
				switch ck {
				case "max_risk":
					r, ok := summary.ParseRisk(cn.Value)
					if !ok {
						return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
							Detail("unrecognised risk level %q", cn.Value).Build()
					}
					p.ComplexityMaxRisk = &r
				default:
					unknown = append(unknown, "complexity."+ck)
				}
			}

		default:
			unknown = append(unknown, key)
		}
	}

	p.UnknownFields = unknown

	Logger().Debug("loaded checkfile",
		zap.Int("unknown_fields", len(p.UnknownFields)),
		zap.Bool("allow_wasi_set", p.AllowWasi != nil),
	)

	return p, nil
}

// mapKeys flattens a yaml.v3 mapping node's alternating key/value Content
// into a map. yaml.v3 exposes no built-in accessor for this.
func mapKeys(n *yaml.Node) map[string]*yaml.Node {
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out[n.Content[i].Value] = n.Content[i+1]
	}
	return out
}

func parseBool(n *yaml.Node) (bool, error) {
	var v bool
	if err := n.Decode(&v); err != nil {
		return false, errors.Syntax(err)
	}
	return v, nil
}

func parseUint(n *yaml.Node) (uint64, error) {
	var v uint64
	if err := n.Decode(&v); err != nil {
		return 0, errors.Syntax(err)
	}
	return v, nil
}

func parseStringList(n *yaml.Node) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
			Detail("expected a sequence of strings").Build()
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		out = append(out, c.Value)
	}
	return out, nil
}

func parseValTypeList(n *yaml.Node) ([]summary.ValType, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
			Detail("expected a sequence of value types").Build()
	}
	out := make([]summary.ValType, 0, len(n.Content))
	for _, c := range n.Content {
		vt, ok := parseValType(c.Value)
		if !ok {
			return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
				Detail("unrecognised value type %q", c.Value).Build()
		}
		out = append(out, vt)
	}
	return out, nil
}

func parseValType(s string) (summary.ValType, bool) {
	switch s {
	case "I32":
		return summary.I32, true
	case "I64":
		return summary.I64, true
	case "F32":
		return summary.F32, true
	case "F64":
		return summary.F64, true
	case "V128":
		return summary.V128, true
	case "FuncRef":
		return summary.FuncRef, true
	case "ExternRef":
		return summary.ExternRef, true
	default:
		return 0, false
	}
}

func parseMatcherList(n *yaml.Node) ([]FunctionMatcher, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errors.New(errors.PhaseLoad, errors.KindSyntax).
			Detail("expected a sequence of matchers").Build()
	}
	out := make([]FunctionMatcher, 0, len(n.Content))
	for _, c := range n.Content {
		m, err := parseMatcher(c)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func parseMatcher(n *yaml.Node) (FunctionMatcher, error) {
	if n.Kind == yaml.ScalarNode {
		return FunctionMatcher{Name: n.Value}, nil
	}
	if n.Kind != yaml.MappingNode {
		return FunctionMatcher{}, errors.New(errors.PhaseLoad, errors.KindSyntax).
			Detail("matcher must be a string or a mapping").Build()
	}

	m := FunctionMatcher{}
	for key, v := range mapKeys(n) {
		switch key {
		case "namespace":
			ns := v.Value
			m.Namespace = &ns
		case "name":
			m.Name = v.Value
		case "params":
			ps, err := parseValTypeList(v)
			if err != nil {
				return FunctionMatcher{}, err
			}
			m.Params = ps
			m.HasParams = true
		case "results":
			rs, err := parseValTypeList(v)
			if err != nil {
				return FunctionMatcher{}, err
			}
			m.Results = rs
			m.HasResults = true
		default:
			return FunctionMatcher{}, errors.FieldUnknown([]string{"imports", "exports"}, key)
		}
	}
	return m, nil
}
