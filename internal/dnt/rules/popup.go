package rules

import (
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/rules/predicate"
)

// PopupRules cover the user card, the user menu and the search popup.
// Trigger links keep native behaviour in both switch states so the popup
// still opens; links inside a popup open in a new tab when enabled.
func PopupRules() []domain.Rule {
	return []domain.Rule{
		{
			ID:             PopupUserCard,
			Name:           "User card: trigger link keeps native",
			EnabledAction:  domain.ActionKeepNative,
			DisabledAction: domain.ActionKeepNative,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				if predicate.IsUserCardTrigger(ctx) && !predicate.IsInUserCard(ctx.Anchor) {
					return domain.Matched("user card trigger"), nil
				}
				return nil, nil
			},
		},
		{
			ID:             PopupUserCard,
			Name:           "User card: links inside the card open a new tab",
			EnabledAction:  domain.ActionNewTab,
			DisabledAction: domain.ActionKeepNative,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				if predicate.IsInUserCard(ctx.Anchor) {
					return domain.Matched("link inside user card"), nil
				}
				return nil, nil
			},
		},
		{
			ID:             PopupUserMenu,
			Name:           "User menu: trigger link keeps native",
			EnabledAction:  domain.ActionKeepNative,
			DisabledAction: domain.ActionKeepNative,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				if predicate.IsUserMenuTrigger(ctx.Anchor) && !predicate.IsInUserMenu(ctx.Anchor) {
					return domain.Matched("user menu trigger"), nil
				}
				return nil, nil
			},
		},
		{
			ID:             PopupUserMenu,
			Name:           "User menu: inactive tab keeps native",
			EnabledAction:  domain.ActionKeepNative,
			DisabledAction: domain.ActionKeepNative,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				if inUserMenuNav(ctx.Anchor) && !predicate.IsActiveTab(ctx.Anchor) {
					return domain.Matched("user menu tab (inactive)"), nil
				}
				return nil, nil
			},
		},
		{
			ID:             PopupUserMenu,
			Name:           "User menu: active tab opens a new tab",
			EnabledAction:  domain.ActionNewTab,
			DisabledAction: domain.ActionKeepNative,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				if inUserMenuNav(ctx.Anchor) && predicate.IsActiveTab(ctx.Anchor) {
					return domain.Matched("user menu tab (active)"), nil
				}
				return nil, nil
			},
		},
		{
			ID:             PopupUserMenu,
			Name:           "User menu: content links open a new tab",
			EnabledAction:  domain.ActionNewTab,
			DisabledAction: domain.ActionKeepNative,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				if predicate.IsInUserMenu(ctx.Anchor) && !predicate.IsInUserMenuNav(ctx.Anchor) {
					return domain.Matched("user menu content link"), nil
				}
				return nil, nil
			},
		},
		{
			ID:             PopupSearchMenu,
			Name:           "Search popup: results and more open a new tab",
			EnabledAction:  domain.ActionNewTab,
			DisabledAction: domain.ActionKeepNative,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				if !predicate.IsInSearchResults(ctx.Anchor) {
					return nil, nil
				}
				if predicate.IsSearchResultTarget(ctx.TargetPath()) {
					return domain.Matched("search result or more link"), nil
				}
				return nil, nil
			},
		},
	}
}

func inUserMenuNav(a domain.Element) bool {
	return predicate.IsInUserMenu(a) && predicate.IsInUserMenuNav(a)
}
