package metadata

import "strings"

// MetaName is the well-known display annotation understood by the bundled
// renderers. Types are not required to carry it; renderers degrade to the
// registered type name when it is absent.
const MetaName = "Meta"

// Meta attribute names.
const (
	MetaAttrName          = "name"
	MetaAttrLocalizedName = "localizedName"
	MetaAttrDescription   = "description"
	MetaAttrIcon          = "icon"
	MetaAttrWikiPage      = "wikiPage"
)

// Meta declares the display metadata for a type: human-readable name,
// localized name, description, icon markup and a wiki page link.
type Meta struct {
	Name          string
	LocalizedName string
	Description   string
	Icon          string
	WikiPage      string
	// Inherited makes the declaration visible to subtypes.
	Inherited bool
}

// Annotation converts the declaration into its annotation form. Icon markup
// is sanitized with the strict SVG policy and marked safe, so renderers can
// embed it without re-escaping. Empty attributes are omitted.
func (m Meta) Annotation() Annotation {
	attrs := make(map[string]string, 5)
	var safe []string

	put := func(key, value string) {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			attrs[key] = trimmed
		}
	}
	put(MetaAttrName, m.Name)
	put(MetaAttrLocalizedName, m.LocalizedName)
	put(MetaAttrDescription, m.Description)
	put(MetaAttrWikiPage, m.WikiPage)

	if icon := SanitizeIcon(m.Icon); icon != "" {
		attrs[MetaAttrIcon] = icon
		safe = append(safe, MetaAttrIcon)
	}

	return Annotation{
		Name:      MetaName,
		Attrs:     attrs,
		Safe:      safe,
		Inherited: m.Inherited,
	}
}

// Display is the resolved view of a type's Meta annotation consumed by the
// bundled renderers.
type Display struct {
	Name          string
	LocalizedName string
	Description   string
	Icon          string
	WikiPage      string
}

// DisplayOf extracts the Meta annotation from a descriptor, following the
// inherited lookup rules. Missing attributes fall back to the type name.
func DisplayOf(desc *TypeDescriptor) Display {
	display := Display{}
	if desc == nil {
		return display
	}
	display.Name = desc.Name()

	ann, ok := desc.Lookup(MetaName)
	if !ok {
		return display
	}
	if name, ok := ann.Attr(MetaAttrName); ok {
		display.Name = name
	}
	display.LocalizedName, _ = ann.Attr(MetaAttrLocalizedName)
	display.Description, _ = ann.Attr(MetaAttrDescription)
	display.Icon, _ = ann.Attr(MetaAttrIcon)
	display.WikiPage, _ = ann.Attr(MetaAttrWikiPage)
	return display
}
