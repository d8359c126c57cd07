package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-metaview/pkg/metadata"
)

// Substitute renders a parsed template against a type descriptor and a live
// instance. Tokens resolve against annotations first (declared, then
// inherited), then against the instance's provider data. Every substituted
// value is HTML-escaped unless its source is marked safe. Literal template
// text passes through untouched, so a template without placeholders renders
// to itself.
//
// The provider is consulted lazily: templates satisfied entirely by
// annotations never invoke it.
func Substitute(tmpl *Template, desc *metadata.TypeDescriptor, instance any) (HTML, error) {
	return substitute(tmpl, desc, instance, nil)
}

// SubstituteWith renders like Substitute but sources provider data from the
// supplied provider, overriding the descriptor's registered binding. There
// is no live instance; the provider receives nil. Used by preview flows
// where stand-in data replaces real provider output.
func SubstituteWith(tmpl *Template, desc *metadata.TypeDescriptor, provider metadata.Provider) (HTML, error) {
	return substitute(tmpl, desc, nil, provider)
}

func substitute(tmpl *Template, desc *metadata.TypeDescriptor, instance any, override metadata.Provider) (HTML, error) {
	if tmpl == nil {
		return "", fmt.Errorf("render: template is required")
	}
	if desc == nil {
		return "", fmt.Errorf("render: type descriptor is required")
	}

	var out strings.Builder
	var data map[string]any
	dataLoaded := false

	for _, seg := range tmpl.segments {
		if !seg.placeholder {
			out.WriteString(seg.literal)
			continue
		}

		if value, safe, ok := annotationValue(seg.token, desc); ok {
			if safe {
				out.WriteString(value)
			} else {
				out.WriteString(Escape(value))
			}
			continue
		}

		if !dataLoaded {
			dataLoaded = true
			provider, ok := override, override != nil
			if !ok {
				provider, ok = metadata.SelfProvider(desc, instance)
			}
			if ok {
				var err error
				data, err = provider.Data(instance)
				if err != nil {
					return "", fmt.Errorf("render: provider for type %q: %w", desc.Name(), err)
				}
			}
		}

		value, ok := providerValue(seg.token, data)
		if !ok {
			return "", &UnresolvedPlaceholderError{Token: seg.token, TypeName: desc.Name()}
		}
		out.WriteString(value)
	}

	return HTML(out.String()), nil
}

// providerValue resolves a token against provider data, matching keys
// case-insensitively. Values of type HTML embed verbatim; everything else
// is formatted and escaped.
func providerValue(token string, data map[string]any) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	value, ok := data[token]
	if !ok {
		for key, candidate := range data {
			if strings.EqualFold(key, token) {
				value, ok = candidate, true
				break
			}
		}
	}
	if !ok {
		return "", false
	}
	if markup, safe := value.(HTML); safe {
		return markup.String(), true
	}
	return Escape(formatValue(value)), true
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
