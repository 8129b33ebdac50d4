package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
)

// Element wraps an element node. Every method is safe on a nil *Element
// and reports zero values, so predicates never need ancestor checks.
type Element struct {
	node *html.Node
}

var _ domain.Element = (*Element)(nil)

func wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return &Element{node: n}
}

// Tag returns the lowercase tag name.
func (e *Element) Tag() string {
	if e == nil {
		return ""
	}
	return e.node.Data
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	name = strings.ToLower(name)
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(name, value string) {
	if e == nil {
		return
	}
	name = strings.ToLower(name)
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// ClassName returns the raw class attribute.
func (e *Element) ClassName() string {
	v, _ := e.Attr("class")
	return v
}

// Classes returns the individual class names.
func (e *Element) Classes() []string {
	return strings.Fields(e.ClassName())
}

// HasClass reports whether the element carries class c.
func (e *Element) HasClass(c string) bool {
	for _, have := range e.Classes() {
		if have == c {
			return true
		}
	}
	return false
}

// Attrs returns a copy of every plain attribute.
func (e *Element) Attrs() map[string]string {
	out := map[string]string{}
	if e == nil {
		return out
	}
	for _, a := range e.node.Attr {
		if a.Namespace == "" {
			out[a.Key] = a.Val
		}
	}
	return out
}

// Text returns the text content with runs of whitespace collapsed.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return strings.Join(strings.Fields(b.String()), " ")
}

// Parent returns the parent element, or nil at the root.
func (e *Element) Parent() *Element {
	if e == nil {
		return nil
	}
	for p := e.node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return &Element{node: p}
		}
	}
	return nil
}

// Matches reports whether the element itself matches any selector.
func (e *Element) Matches(selectors ...string) bool {
	if e == nil {
		return false
	}
	for _, sel := range selectors {
		if group, ok := compile(sel); ok && group.Match(e.node) {
			return true
		}
	}
	return false
}

// Closest returns the nearest element, starting with e, that matches any
// of the selectors. Selectors are tried in order, like repeated
// Element.closest calls in a browser.
func (e *Element) Closest(selectors ...string) *Element {
	if e == nil {
		return nil
	}
	for _, sel := range selectors {
		group, ok := compile(sel)
		if !ok {
			continue
		}
		for n := e.node; n != nil; n = n.Parent {
			if n.Type == html.ElementNode && group.Match(n) {
				return &Element{node: n}
			}
		}
	}
	return nil
}

// Within reports whether e or one of its ancestors matches any selector.
func (e *Element) Within(selectors ...string) bool {
	return e.Closest(selectors...) != nil
}

// Query returns the first descendant matching selector. The element
// itself is never a candidate.
func (e *Element) Query(selector string) *Element {
	if e == nil {
		return nil
	}
	group, ok := compile(selector)
	if !ok {
		return nil
	}
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if group.Match(c) {
			return &Element{node: c}
		}
		if found := (&Element{node: c}).Query(selector); found != nil {
			return found
		}
	}
	return nil
}
