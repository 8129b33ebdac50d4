package predicate

import (
	"regexp"
	"strings"

	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
)

var (
	userCardClassRe = regexp.MustCompile(`user-card|avatar|trigger-user-card`)
	userMenuClassRe = regexp.MustCompile(`current-user|header-dropdown-toggle|user-menu|avatar`)
	activeClassRe   = regexp.MustCompile(`active|selected`)
	topicPathRe     = regexp.MustCompile(`/t/`)
)

func within(el domain.Element, selectors []string) bool {
	if el == nil {
		return false
	}
	return el.Within(selectors...)
}

func lowerClass(el domain.Element) string {
	if el == nil {
		return ""
	}
	return strings.ToLower(el.ClassName())
}

// IsInUserCard reports whether el sits inside a user-card popup.
func IsInUserCard(el domain.Element) bool { return within(el, UserCardSelectors) }

// IsInUserMenu reports whether el sits inside the user menu panel.
func IsInUserMenu(el domain.Element) bool { return within(el, UserMenuSelectors) }

// IsInHeader reports whether el sits inside the site header.
func IsInHeader(el domain.Element) bool { return within(el, HeaderSelectors) }

// IsInUserMenuNav reports whether el sits in the tab strip of the user menu.
func IsInUserMenuNav(el domain.Element) bool { return within(el, UserMenuNavSelectors) }

// IsInSidebar reports whether el sits inside the navigation sidebar.
func IsInSidebar(el domain.Element) bool { return within(el, SidebarSelectors) }

// IsInSearchResults reports whether el sits in the result area of the search popup.
func IsInSearchResults(el domain.Element) bool { return within(el, SearchResultSelectors) }

// IsUserCardTrigger reports whether the anchor opens a user card rather
// than navigating: it carries data-user-card, or it has a card/avatar
// class and points at a /u/ path.
func IsUserCardTrigger(ctx domain.LinkContext) bool {
	a := ctx.Anchor
	if a == nil {
		return false
	}
	if domain.HasAttr(a, "data-user-card") {
		return true
	}
	return userCardClassRe.MatchString(lowerClass(a)) &&
		strings.HasPrefix(strings.ToLower(ctx.TargetPath()), "/u/")
}

// IsUserMenuTrigger reports whether the anchor is the header control that
// toggles the user menu.
func IsUserMenuTrigger(el domain.Element) bool {
	if el == nil || !IsInHeader(el) {
		return false
	}
	if domain.HasAttr(el, "aria-haspopup") || domain.HasAttr(el, "aria-expanded") {
		return true
	}
	return userMenuClassRe.MatchString(lowerClass(el))
}

// IsActiveTab reports whether el is the selected tab of a tab strip.
func IsActiveTab(el domain.Element) bool {
	if el == nil {
		return false
	}
	if domain.AttrValue(el, "aria-selected") == "true" {
		return true
	}
	return activeClassRe.MatchString(lowerClass(el))
}

// IsSearchResultTarget reports whether path is a topic or a full search page.
func IsSearchResultTarget(path string) bool {
	return topicPathRe.MatchString(path) || strings.HasPrefix(path, "/search")
}

// IsInteractive reports whether el is, or sits in, a form control.
func IsInteractive(el domain.Element) bool { return within(el, InteractiveSelectors) }
