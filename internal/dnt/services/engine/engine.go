// Package engine folds an ordered rule list against one click context.
//
// Every rule is evaluated in list order and the last rule that matches
// decides the action; there is no early return. A rule's action is its
// enabled or disabled action depending on the switch stored under its id,
// which is read live at the moment the rule matches. Predicate errors and
// panics count as no match for that rule only.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/debuglog"
)

// ErrPredicatePanic wraps a panic recovered from a rule's match function.
var ErrPredicatePanic = errors.New("rule predicate panicked")

// FlagReader reports whether the switch for a rule id is on. Unreadable or
// unset switches must read as true.
type FlagReader interface {
	RuleEnabled(ctx context.Context, id string) bool
}

// Engine evaluates rule lists. It keeps no state between evaluations.
type Engine struct {
	flags  FlagReader
	report *debuglog.Reporter
}

// New returns an Engine. A nil flags reader treats every switch as on; a
// nil reporter disables debug output.
func New(flags FlagReader, report *debuglog.Reporter) *Engine {
	return &Engine{flags: flags, report: report}
}

// Step records what one rule did during a traced evaluation.
type Step struct {
	Index    int
	RuleID   string
	RuleName string
	Matched  bool
	// Enabled and Action are only meaningful when Matched is true.
	Enabled bool
	Action  domain.Action
	Match   *domain.MatchResult
	Err     error
}

// outcome is the result of one guarded predicate call.
type outcome struct {
	match *domain.MatchResult
	err   error
}

func (o outcome) matched() bool { return o.err == nil && o.match != nil }

// safeMatch runs the rule's predicate, converting a panic into an error.
func safeMatch(rule domain.Rule, lctx domain.LinkContext) (o outcome) {
	if rule.Match == nil {
		return outcome{err: fmt.Errorf("%w: rule %q has no match function", domain.ErrInvalidRule, rule.ID)}
	}
	defer func() {
		if p := recover(); p != nil {
			o = outcome{err: fmt.Errorf("%w: rule %q: %v", ErrPredicatePanic, rule.ID, p)}
		}
	}()
	m, err := rule.Match(lctx)
	return outcome{match: m, err: err}
}

func (e *Engine) enabled(ctx context.Context, id string) bool {
	if e == nil || e.flags == nil {
		return true
	}
	return e.flags.RuleEnabled(ctx, id)
}

// Evaluate returns the decision for lctx.
func (e *Engine) Evaluate(ctx context.Context, rules []domain.Rule, lctx domain.LinkContext) domain.Decision {
	d, _ := e.fold(ctx, rules, lctx, false)
	return d
}

// EvaluateTrace is Evaluate plus one Step per rule.
func (e *Engine) EvaluateTrace(ctx context.Context, rules []domain.Rule, lctx domain.LinkContext) (domain.Decision, []Step) {
	return e.fold(ctx, rules, lctx, true)
}

func (e *Engine) fold(ctx context.Context, rules []domain.Rule, lctx domain.LinkContext, trace bool) (domain.Decision, []Step) {
	var report *debuglog.Reporter
	if e != nil {
		report = e.report
	}
	report.LogLinkInfo(ctx, lctx)

	var (
		last  *domain.Decision
		steps []Step
	)
	if trace {
		steps = make([]Step, 0, len(rules))
	}
	for i, rule := range rules {
		o := safeMatch(rule, lctx)
		step := Step{Index: i, RuleID: rule.ID, RuleName: rule.Name, Err: o.err}
		if o.err != nil {
			report.LogError(ctx, log.CategoryRules, fmt.Sprintf("rule %q predicate failed", rule.ID), o.err)
		}
		if !o.matched() {
			report.LogRuleDetail(ctx, rule, e.enabledForLog(ctx, report, rule.ID), false, "", nil)
			if trace {
				steps = append(steps, step)
			}
			continue
		}

		on := e.enabled(ctx, rule.ID)
		action := rule.ActionFor(on)
		last = &domain.Decision{
			Action: action,
			RuleID: rule.ID,
			Debug: &domain.DecisionDebug{
				RuleName: rule.Name,
				Note:     o.match.Note,
				Data:     o.match.Data,
			},
		}
		report.LogRuleDetail(ctx, rule, on, true, action, o.match)
		if trace {
			step.Matched = true
			step.Enabled = on
			step.Action = action
			step.Match = o.match
			steps = append(steps, step)
		}
	}

	d := domain.DefaultDecision()
	if last != nil {
		d = *last
	}
	report.LogFinalDecision(ctx, d)
	return d, steps
}

// enabledForLog reads the switch of a missed rule only while the rules
// category is recorded.
func (e *Engine) enabledForLog(ctx context.Context, report *debuglog.Reporter, id string) bool {
	if !report.Enabled(ctx, log.CategoryRules) {
		return false
	}
	return e.enabled(ctx, id)
}
