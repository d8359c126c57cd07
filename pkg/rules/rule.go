package rules

import (
	"github.com/goliatone/go-metaview/pkg/render"
)

// Rule associates a display template with a matching target. A rule carries
// at most one target: OfType matches the named type and its subtypes,
// AnnotatedWith matches types directly bearing the named annotation. A rule
// with neither target is the universal fallback and matches every type.
type Rule struct {
	// Template is the raw template string with {Annotation.attr} tokens.
	Template string
	// OfType names the target type. Matches the type and anything below it;
	// the closest chain match wins among OfType rules.
	OfType string
	// AnnotatedWith names the target annotation. Matches only direct
	// declarations and outranks any OfType match.
	AnnotatedWith string

	index    int
	compiled *render.Template
}

// Index returns the registration order of the rule. Earlier rules win ties.
func (r Rule) Index() int { return r.index }

// Compiled returns the parsed template, available once the rule has been
// accepted by a Registry.
func (r Rule) Compiled() *render.Template { return r.compiled }

// Fallback reports whether the rule is the universal fallback.
func (r Rule) Fallback() bool {
	return r.OfType == "" && r.AnnotatedWith == ""
}
