package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-metaview/pkg/metadata"
)

// segment is one parsed span of a template: either literal text or a
// placeholder token.
type segment struct {
	literal     string
	token       string
	placeholder bool
}

// Template is a parsed display template. Placeholder tokens take the form
// {AnnotationName} or {AnnotationName.attribute}; annotation names may be
// simple or qualified and all matching ignores case. Doubled braces ({{ and
// }}) emit literal braces.
type Template struct {
	raw      string
	segments []segment
}

// Parse compiles a template string. It fails on unterminated or empty
// placeholders so malformed templates are rejected at registration time.
func Parse(raw string) (*Template, error) {
	tmpl := &Template{raw: raw}
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			tmpl.segments = append(tmpl.segments, segment{literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			if i+1 < len(raw) && raw[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(raw[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("render: unterminated placeholder at offset %d", i)
			}
			token := strings.TrimSpace(raw[i+1 : i+1+end])
			if token == "" {
				return nil, fmt.Errorf("render: empty placeholder at offset %d", i)
			}
			if strings.ContainsAny(token, "{}") {
				return nil, fmt.Errorf("render: malformed placeholder %q", token)
			}
			flush()
			tmpl.segments = append(tmpl.segments, segment{token: token, placeholder: true})
			i += end + 1
		case '}':
			if i+1 < len(raw) && raw[i+1] == '}' {
				i++
			}
			literal.WriteByte('}')
		default:
			literal.WriteByte(raw[i])
		}
	}
	flush()
	return tmpl, nil
}

// Raw returns the original template string.
func (t *Template) Raw() string { return t.raw }

// Placeholders returns the distinct tokens in first-appearance order.
func (t *Template) Placeholders() []string {
	var out []string
	seen := map[string]bool{}
	for _, seg := range t.segments {
		if !seg.placeholder {
			continue
		}
		key := strings.ToLower(seg.token)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, seg.token)
	}
	return out
}

// tokenCandidates splits a token into the (annotation ref, attribute) pairs
// to try. Qualified annotation names contain dots, so "acme.Icon.path" is
// ambiguous: the whole token with the default attribute is tried first, then
// the last segment is treated as the attribute name.
func tokenCandidates(token string) [][2]string {
	candidates := [][2]string{{token, ""}}
	if idx := strings.LastIndex(token, "."); idx > 0 && idx < len(token)-1 {
		candidates = append(candidates, [2]string{token[:idx], token[idx+1:]})
	}
	return candidates
}

// annotationValue resolves a token against the descriptor's annotations,
// following the declared-then-inherited lookup order. The second result
// reports whether the winning attribute was marked safe.
func annotationValue(token string, desc *metadata.TypeDescriptor) (string, bool, bool) {
	for _, cand := range tokenCandidates(token) {
		ann, ok := desc.Lookup(cand[0])
		if !ok {
			continue
		}
		if value, ok := ann.Attr(cand[1]); ok {
			return value, ann.IsSafe(cand[1]), true
		}
	}
	return "", false, false
}

// Resolvable reports whether the token can be satisfied by the type's
// annotations alone. Provider data is instance-bound and cannot be checked
// ahead of render time.
func Resolvable(token string, desc *metadata.TypeDescriptor) bool {
	_, _, ok := annotationValue(token, desc)
	return ok
}
