// Package predicate holds the DOM and URL heuristics that rule match
// functions compose. Every predicate returns false instead of failing
// when the anchor or the containers it looks for are absent.
package predicate

import (
	"fmt"

	"github.com/haukened/discourse-new-tab/internal/dnt/gateways/dom"
)

// Container selectors used by Discourse themes. Sites customise their
// markup, so each list names the common variants.
var (
	UserCardSelectors = []string{"#user-card", ".user-card", ".user-card-container"}

	UserMenuSelectors = []string{"#user-menu", ".user-menu", ".user-menu-panel", ".quick-access-panel", ".menu-panel"}

	HeaderSelectors = []string{"header", ".d-header", "#site-header"}

	UserMenuNavSelectors = []string{
		".user-menu .navigation",
		`.user-menu [role="tablist"]`,
		".user-menu .menu-tabs",
		".user-menu .categories",
		"#user-menu .navigation",
	}

	SidebarSelectors = []string{
		"#sidebar",
		".sidebar",
		".d-sidebar",
		".sidebar-container",
		".discourse-sidebar",
		".sidebar-section",
		".sidebar-wrapper",
	}

	SearchResultSelectors = []string{
		".search-menu .results",
		".search-menu-container .results",
		".search-menu .search-result-topic",
		".search-menu .search-result-post",
		".search-menu .show-more",
	}

	// TopicRowSelectors and TopicRowLinkSelectors drive row-click inference.
	TopicRowSelectors     = []string{".topic-list-item", ".latest-topic-list-item"}
	TopicRowLinkSelectors = []string{"a.title", "a.raw-topic-link", ".main-link a"}

	// InteractiveSelectors are controls inside a row that keep their own behaviour.
	InteractiveSelectors = []string{"button", "input", "select", "textarea", "label", "[role=button]", ".btn"}
)

// CheckSelectors returns an error naming the first selector in the tables
// above that does not compile.
func CheckSelectors() error {
	tables := []struct {
		name string
		sels []string
	}{
		{"user card", UserCardSelectors},
		{"user menu", UserMenuSelectors},
		{"header", HeaderSelectors},
		{"user menu nav", UserMenuNavSelectors},
		{"sidebar", SidebarSelectors},
		{"search result", SearchResultSelectors},
		{"topic row", TopicRowSelectors},
		{"topic row link", TopicRowLinkSelectors},
		{"interactive", InteractiveSelectors},
	}
	for _, tb := range tables {
		for _, sel := range tb.sels {
			if !dom.ValidSelector(sel) {
				return fmt.Errorf("%s selector %q does not compile", tb.name, sel)
			}
		}
	}
	return nil
}
