package domain

// Element is the read-mostly view of a DOM node that predicates consume.
// Implementations must tolerate missing attributes and ancestors by
// returning zero values rather than panicking.
type Element interface {
	// Tag returns the lowercase tag name, e.g. "a".
	Tag() string
	// Attr returns the attribute value and whether it is present.
	Attr(name string) (string, bool)
	// ClassName returns the raw class attribute.
	ClassName() string
	// Text returns the concatenated text content, whitespace-trimmed.
	Text() string
	// Within reports whether the element or any ancestor matches one of
	// the CSS selectors. Invalid selectors never match.
	Within(selectors ...string) bool
	// SetAttr stamps an attribute on the element.
	SetAttr(name, value string)
}

// HasAttr reports whether el carries the attribute name. A nil element has no attributes.
func HasAttr(el Element, name string) bool {
	if el == nil {
		return false
	}
	_, ok := el.Attr(name)
	return ok
}

// AttrValue returns the attribute value or "" if absent or el is nil.
func AttrValue(el Element, name string) string {
	if el == nil {
		return ""
	}
	v, _ := el.Attr(name)
	return v
}
