package vanilla

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ChromeClass is a typed identifier for the semantic chrome CSS classes the
// widget template emits.
type ChromeClass string

const (
	ClassWidget      ChromeClass = "metaview-widget"
	ClassIcon        ChromeClass = "metaview-icon"
	ClassBody        ChromeClass = "metaview-body"
	ClassTitle       ChromeClass = "metaview-title"
	ClassDescription ChromeClass = "metaview-description"
	ClassFragment    ChromeClass = "metaview-fragment"
	ClassWiki        ChromeClass = "metaview-wiki"
)

// chromeClasses maps template slots to CSS classes. Theme tokens prefixed
// with "class." override individual slots (e.g. Tokens["class.widget"]).
func chromeClasses(cfg *theme.RendererConfig) map[string]string {
	classes := map[string]string{
		"widget":      string(ClassWidget),
		"icon":        string(ClassIcon),
		"body":        string(ClassBody),
		"title":       string(ClassTitle),
		"description": string(ClassDescription),
		"fragment":    string(ClassFragment),
		"wiki":        string(ClassWiki),
	}
	if cfg == nil {
		return classes
	}
	for token, value := range cfg.Tokens {
		slot, ok := strings.CutPrefix(token, "class.")
		if !ok {
			continue
		}
		if _, known := classes[slot]; known && strings.TrimSpace(value) != "" {
			classes[slot] = strings.TrimSpace(value)
		}
	}
	return classes
}

// cssVarsStyle renders the theme's CSS variables as a :root block, sorted
// for stable output.
func cssVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(cfg.CSSVars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
