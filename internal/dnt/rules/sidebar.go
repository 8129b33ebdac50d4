package rules

import (
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/rules/predicate"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/classify"
)

// SidebarRules split sidebar clicks by whether the current page is a topic.
func SidebarRules() []domain.Rule {
	return []domain.Rule{
		{
			ID:             SidebarNonTopicKeepNative,
			Name:           "Sidebar link outside a topic: keep native",
			EnabledAction:  domain.ActionKeepNative,
			DisabledAction: domain.ActionNewTab,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				if !predicate.IsInSidebar(ctx.Anchor) {
					return nil, nil
				}
				if _, ok := classify.ExtractTopicID(ctx.CurrentPath()); ok {
					return nil, nil
				}
				return domain.Matched("sidebar link on a non-topic page"), nil
			},
		},
		{
			ID:             SidebarInTopicNewTab,
			Name:           "Sidebar link inside a topic: new tab",
			EnabledAction:  domain.ActionNewTab,
			DisabledAction: domain.ActionKeepNative,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				if !predicate.IsInSidebar(ctx.Anchor) {
					return nil, nil
				}
				id, ok := classify.ExtractTopicID(ctx.CurrentPath())
				if !ok {
					return nil, nil
				}
				return domain.MatchedWith("sidebar link on a topic page", map[string]any{"currentTopicId": id}), nil
			},
		},
	}
}
