// Package debuglog renders the per-category debug records of a click:
// site detection, click filtering, link details, each rule and the final
// decision. Nothing is emitted unless the debug switches allow it.
package debuglog

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/classify"
)

// Reporter writes debug records through a category logger. A nil
// *Reporter is valid and discards everything.
type Reporter struct {
	cl *log.CategoryLogger
}

// New returns a Reporter backed by cl.
func New(cl *log.CategoryLogger) *Reporter {
	return &Reporter{cl: cl}
}

func (r *Reporter) debug(ctx context.Context, cat log.Category, fields map[string]any, msg string) {
	if r == nil || r.cl == nil {
		return
	}
	r.cl.Debug(ctx, cat, fields, msg)
}

// Enabled reports whether cat is currently emitted.
func (r *Reporter) Enabled(ctx context.Context, cat log.Category) bool {
	return r != nil && r.cl.Enabled(ctx, cat)
}

// LogSiteDetection reports the detection score and matched signals.
func (r *Reporter) LogSiteDetection(ctx context.Context, res domain.DetectResult) {
	if !r.Enabled(ctx, log.CategorySite) {
		return
	}
	signals := make([]string, 0, len(res.MatchedSignals))
	for _, s := range res.MatchedSignals {
		signals = append(signals, fmt.Sprintf("%s(+%d)", s.Name, s.Weight))
	}
	r.debug(ctx, log.CategorySite, map[string]any{
		"is_discourse": res.IsDiscourse,
		"score":        res.Score,
		"threshold":    res.Threshold,
		"signals":      strings.Join(signals, " | "),
	}, "site detection")
}

// LogClickFilter reports why a click was ignored.
func (r *Reporter) LogClickFilter(ctx context.Context, reason string) {
	r.debug(ctx, log.CategoryClick, map[string]any{"reason": reason}, "click ignored")
}

// LogClickNote reports a non-filtering note such as an inferred anchor.
func (r *Reporter) LogClickNote(ctx context.Context, note string) {
	r.debug(ctx, log.CategoryClick, map[string]any{"note": note}, "click")
}

// LogLinkInfo reports the current and target URLs with the ids parsed from them.
func (r *Reporter) LogLinkInfo(ctx context.Context, lctx domain.LinkContext) {
	if !r.Enabled(ctx, log.CategoryLink) {
		return
	}
	fields := map[string]any{
		"current": urlString(lctx.CurrentURL),
		"target":  urlString(lctx.TargetURL),
	}
	if id, ok := classify.ExtractTopicID(lctx.CurrentPath()); ok {
		fields["current_topic_id"] = id
	}
	if id, ok := classify.ExtractTopicID(lctx.TargetPath()); ok {
		fields["target_topic_id"] = id
	}
	if u, ok := classify.ExtractUsername(lctx.CurrentPath()); ok {
		fields["current_user"] = u
	}
	if u, ok := classify.ExtractUsername(lctx.TargetPath()); ok {
		fields["target_user"] = u
	}
	r.debug(ctx, log.CategoryLink, fields, "link")
}

// LogRuleDetail reports one evaluated rule. action is empty for a miss.
func (r *Reporter) LogRuleDetail(ctx context.Context, rule domain.Rule, enabled, matched bool, action domain.Action, meta *domain.MatchResult) {
	if !r.Enabled(ctx, log.CategoryRules) {
		return
	}
	fields := map[string]any{
		"rule_id":   rule.ID,
		"rule_name": rule.Name,
		"enabled":   enabled,
		"matched":   matched,
	}
	if action != "" {
		fields["action"] = action.String()
	}
	if matched && meta != nil {
		if meta.Note != "" {
			fields["note"] = meta.Note
		}
		if inline := Inline(meta.Data); inline != "" {
			fields["data"] = inline
		}
	}
	r.debug(ctx, log.CategoryRules, fields, "rule")
}

// LogFinalDecision reports the decision handed back to the listener.
func (r *Reporter) LogFinalDecision(ctx context.Context, d domain.Decision) {
	r.debug(ctx, log.CategoryFinal, map[string]any{
		"rule_id": d.RuleID,
		"action":  d.Action.String(),
	}, "final decision")
}

// LogBackgroundOpen reports that a new tab was opened in the background.
func (r *Reporter) LogBackgroundOpen(ctx context.Context, mode domain.BackgroundOpenMode) {
	r.debug(ctx, log.CategoryFinal, map[string]any{"mode": string(mode)}, "background open")
}

// LogBackgroundModeChange reports a change of the background open mode.
func (r *Reporter) LogBackgroundModeChange(ctx context.Context, mode domain.BackgroundOpenMode, source string) {
	r.debug(ctx, log.CategoryBg, map[string]any{"mode": string(mode), "source": source}, "background mode changed")
}

// LogError reports a recovered error under cat.
func (r *Reporter) LogError(ctx context.Context, cat log.Category, msg string, err error) {
	if r == nil || r.cl == nil {
		return
	}
	fields := map[string]any{}
	if err != nil {
		fields["error"] = err.Error()
	}
	r.cl.Error(ctx, cat, fields, msg)
}

// Inline flattens data into "k=v, k=v" with keys sorted and nil values dropped.
func Inline(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k, v := range data {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(parts, ", ")
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
