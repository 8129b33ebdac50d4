package rules

import (
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/classify"
)

// TopicRules returns the topic navigation rules. The same-topic rule is
// last so that jumping between posts of one topic stays native.
func TopicRules() []domain.Rule {
	return []domain.Rule{
		{
			ID:             TopicOpenNewTab,
			Name:           "Open a topic from any page: new tab",
			EnabledAction:  domain.ActionNewTab,
			DisabledAction: domain.ActionKeepNative,
			Match:          matchTopicTarget,
		},
		{
			ID:             TopicInTopicOpenOther,
			Name:           "Other links inside a topic: new tab",
			EnabledAction:  domain.ActionNewTab,
			DisabledAction: domain.ActionKeepNative,
			Match:          matchInTopicOther,
		},
		{
			ID:             TopicSameTopicKeepNative,
			Name:           "Post jump within the same topic: keep native",
			EnabledAction:  domain.ActionKeepNative,
			DisabledAction: domain.ActionNewTab,
			Match:          matchSameTopic,
		},
	}
}

func matchTopicTarget(ctx domain.LinkContext) (*domain.MatchResult, error) {
	id, ok := classify.ExtractTopicID(ctx.TargetPath())
	if !ok {
		return nil, nil
	}
	return domain.MatchedWith("", map[string]any{"targetTopicId": id}), nil
}

func matchInTopicOther(ctx domain.LinkContext) (*domain.MatchResult, error) {
	current, ok := classify.ExtractTopicID(ctx.CurrentPath())
	if !ok || classify.SameTopic(ctx.CurrentPath(), ctx.TargetPath()) {
		return nil, nil
	}
	data := map[string]any{"currentTopicId": current, "targetTopicId": nil}
	if target, ok := classify.ExtractTopicID(ctx.TargetPath()); ok {
		data["targetTopicId"] = target
	}
	return domain.MatchedWith("", data), nil
}

func matchSameTopic(ctx domain.LinkContext) (*domain.MatchResult, error) {
	if !classify.SameTopic(ctx.CurrentPath(), ctx.TargetPath()) {
		return nil, nil
	}
	id, _ := classify.ExtractTopicID(ctx.TargetPath())
	return domain.MatchedWith("same topic id, usually a post jump", map[string]any{
		"currentTopicId": id,
		"targetTopicId":  id,
	}), nil
}
