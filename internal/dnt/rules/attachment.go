package rules

import (
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/classify"
)

// AttachmentRules keep uploads and media native. They are listed last.
func AttachmentRules() []domain.Rule {
	return []domain.Rule{
		{
			ID:             AttachmentKeepNative,
			Name:           "Attachment link: keep native",
			EnabledAction:  domain.ActionKeepNative,
			DisabledAction: domain.ActionNewTab,
			Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
				p := ctx.TargetPath()
				if !classify.IsLikelyAttachment(p) {
					return nil, nil
				}
				return domain.MatchedWith("", map[string]any{"pathname": p}), nil
			},
		},
	}
}
