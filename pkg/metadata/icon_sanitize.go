package metadata

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy

	inlinePolicyOnce sync.Once
	inlinePolicy     *bluemonday.Policy
)

// SanitizeIcon strips everything but inline SVG from icon markup. Icons are
// the one attribute embedded verbatim by the bundled renderers, so they are
// scrubbed once at registration instead of escaped at render time.
func SanitizeIcon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
}

// SanitizeInline scrubs markup down to basic inline formatting. Manifest
// loaders run file-borne safe-marked attribute values through it, since
// those arrive from outside the program; programmatic registrations are
// trusted and embed verbatim.
func SanitizeInline(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(inlineSanitizer().Sanitize(trimmed))
}

func inlineSanitizer() *bluemonday.Policy {
	inlinePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "i", "em", "strong", "code", "small", "sub", "sup", "span", "br")
		policy.AllowAttrs("class").OnElements("span")
		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowElements("a")
		inlinePolicy = policy
	})
	return inlinePolicy
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()

		shapes := []string{
			"path", "circle", "rect", "line", "polyline", "polygon", "ellipse",
		}
		structural := append([]string{
			"svg", "g", "title", "desc", "defs", "use", "symbol",
		}, shapes...)
		policy.AllowElements(structural...)

		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "aria-hidden", "role", "focusable", "class",
		).OnElements("svg")

		policy.AllowAttrs("href", "xlink:href").OnElements("use")
		policy.AllowAttrs("id").OnElements("defs", "g", "symbol")

		for _, el := range shapes {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "fill", "stroke", "stroke-width",
				"stroke-linecap", "stroke-linejoin", "class",
			).OnElements(el)
		}

		iconPolicy = policy
	})
	return iconPolicy
}
