package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultRuleID is reported when no rule matched a click.
const DefaultRuleID = "default"

// ErrInvalidRule is returned when a Rule definition is incomplete.
var ErrInvalidRule = errors.New("invalid rule")

// LinkContext is built fresh for every click and shared read-only with
// every rule predicate during one evaluation.
type LinkContext struct {
	// Anchor is the clicked link, or the element inferred to stand for one.
	Anchor Element
	// CurrentURL is the absolute URL of the hosting page.
	CurrentURL *url.URL
	// TargetURL is the absolute URL the click resolves to.
	TargetURL *url.URL
}

// CurrentPath returns the escaped path of the current page, "" when unset.
func (c LinkContext) CurrentPath() string {
	if c.CurrentURL == nil {
		return ""
	}
	return c.CurrentURL.EscapedPath()
}

// TargetPath returns the escaped path of the target, "" when unset.
func (c LinkContext) TargetPath() string {
	if c.TargetURL == nil {
		return ""
	}
	return c.TargetURL.EscapedPath()
}

// MatchResult annotates a match for diagnostics only. It never influences
// which action is chosen.
type MatchResult struct {
	Note string
	Data map[string]any
}

// Matched builds a MatchResult with an optional note.
func Matched(note string) *MatchResult {
	return &MatchResult{Note: note}
}

// MatchedWith builds a MatchResult carrying data.
func MatchedWith(note string, data map[string]any) *MatchResult {
	return &MatchResult{Note: note, Data: data}
}

// MatchFunc tests a click context. A nil result means no match. A non-nil
// error is treated by the engine exactly like no match.
type MatchFunc func(ctx LinkContext) (*MatchResult, error)

// Rule pairs a predicate with the actions applied when its stored switch
// is on or off. Several rules may share one ID and thus one switch.
type Rule struct {
	ID             string
	Name           string
	Match          MatchFunc
	EnabledAction  Action
	DisabledAction Action
}

// ActionFor returns the action implied by the switch state.
func (r Rule) ActionFor(enabled bool) Action {
	if enabled {
		return r.EnabledAction
	}
	return r.DisabledAction
}

// Validate checks that the rule is complete.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id must not be empty", ErrInvalidRule)
	}
	if r.ID == DefaultRuleID {
		return fmt.Errorf("%w: id %q is reserved", ErrInvalidRule, DefaultRuleID)
	}
	if r.Match == nil {
		return fmt.Errorf("%w: rule %q has no match function", ErrInvalidRule, r.ID)
	}
	if !r.EnabledAction.Valid() {
		return fmt.Errorf("%w: rule %q enabled action %q", ErrInvalidRule, r.ID, r.EnabledAction)
	}
	if !r.DisabledAction.Valid() {
		return fmt.Errorf("%w: rule %q disabled action %q", ErrInvalidRule, r.ID, r.DisabledAction)
	}
	return nil
}

// DecisionDebug carries the annotations of the rule that produced a decision.
type DecisionDebug struct {
	RuleName string
	Note     string
	Data     map[string]any
}

// Decision is the engine's single output per click.
type Decision struct {
	Action Action
	RuleID string
	Debug  *DecisionDebug
}

// IsDefault reports whether no rule matched.
func (d Decision) IsDefault() bool { return d.RuleID == DefaultRuleID }

// DefaultDecision is returned when no rule matched.
func DefaultDecision() Decision {
	return Decision{Action: ActionKeepNative, RuleID: DefaultRuleID}
}
