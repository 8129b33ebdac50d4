package rules

import (
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/classify"
)

// UserRules returns the profile navigation rules, layered like TopicRules.
func UserRules() []domain.Rule {
	return []domain.Rule{
		{
			ID:             UserOpenNewTab,
			Name:           "Open a profile from any page: new tab",
			EnabledAction:  domain.ActionNewTab,
			DisabledAction: domain.ActionKeepNative,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				name, ok := classify.ExtractUsername(ctx.TargetPath())
				if !ok {
					return nil, nil
				}
				return domain.MatchedWith("", map[string]any{"targetUser": name}), nil
			},
		},
		{
			ID:             UserInProfileOpenOther,
			Name:           "Other links inside a profile: new tab",
			EnabledAction:  domain.ActionNewTab,
			DisabledAction: domain.ActionKeepNative,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				current, ok := classify.ExtractUsername(ctx.CurrentPath())
				if !ok {
					return nil, nil
				}
				data := map[string]any{"currentUser": current, "targetUser": nil}
				if target, ok := classify.ExtractUsername(ctx.TargetPath()); ok {
					if target == current {
						return nil, nil
					}
					data["targetUser"] = target
				}
				return domain.MatchedWith("", data), nil
			},
		},
		{
			ID:             UserSameProfileKeepNative,
			Name:           "Same profile: keep native",
			EnabledAction:  domain.ActionKeepNative,
			DisabledAction: domain.ActionNewTab,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				current, ok := classify.ExtractUsername(ctx.CurrentPath())
				if !ok {
					return nil, nil
				}
				target, ok := classify.ExtractUsername(ctx.TargetPath())
				if !ok || target != current {
					return nil, nil
				}
				return domain.MatchedWith("", map[string]any{"currentUser": current, "targetUser": target}), nil
			},
		},
	}
}
