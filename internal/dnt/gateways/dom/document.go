// Package dom provides a static, parsed snapshot of a forum page. It backs
// the element view that link predicates consume and the page signals the
// site detector reads. Snapshots come from HTML sources such as saved
// pages or test fixtures.
package dom

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page together with the URL it was served from.
type Document struct {
	root *html.Node
	url  *url.URL
}

// Parse reads an HTML document. pageURL may be nil when unknown.
func Parse(r io.Reader, pageURL *url.URL) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Document{root: root, url: pageURL}, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string, pageURL *url.URL) (*Document, error) {
	return Parse(strings.NewReader(s), pageURL)
}

// URL returns the page URL, or nil.
func (d *Document) URL() *url.URL {
	if d == nil {
		return nil
	}
	return d.url
}

// Query returns the first element matching selector, or nil.
func (d *Document) Query(selector string) *Element {
	if d == nil || d.root == nil {
		return nil
	}
	group, ok := compile(selector)
	if !ok {
		return nil
	}
	return wrap(cascadia.Query(d.root, group))
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) []*Element {
	if d == nil || d.root == nil {
		return nil
	}
	group, ok := compile(selector)
	if !ok {
		return nil
	}
	nodes := cascadia.QueryAll(d.root, group)
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, wrap(n))
	}
	return out
}

// Render writes the document, including any attributes stamped since parsing.
func (d *Document) Render(w io.Writer) error {
	if d == nil || d.root == nil {
		return nil
	}
	return html.Render(w, d.root)
}
