package domain

import (
	"errors"
	"testing"
)

func noMatch(LinkContext) (*MatchResult, error) { return nil, nil }

func TestRule_Validate(t *testing.T) {
	valid := Rule{ID: "topic:x", Name: "x", Match: noMatch, EnabledAction: ActionNewTab, DisabledAction: ActionKeepNative}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		mod  func(r *Rule)
	}{
		{"empty id", func(r *Rule) { r.ID = " " }},
		{"reserved id", func(r *Rule) { r.ID = DefaultRuleID }},
		{"nil match", func(r *Rule) { r.Match = nil }},
		{"bad enabled action", func(r *Rule) { r.EnabledAction = "x" }},
		{"bad disabled action", func(r *Rule) { r.DisabledAction = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mod(&r)
			if err := r.Validate(); !errors.Is(err, ErrInvalidRule) {
				t.Errorf("expected ErrInvalidRule, got %v", err)
			}
		})
	}
}

func TestRule_ActionFor(t *testing.T) {
	r := Rule{EnabledAction: ActionKeepNative, DisabledAction: ActionNewTab}
	if r.ActionFor(true) != ActionKeepNative {
		t.Error("enabled switch must yield enabled action")
	}
	if r.ActionFor(false) != ActionNewTab {
		t.Error("disabled switch must yield disabled action")
	}
}

func TestDefaultDecision(t *testing.T) {
	d := DefaultDecision()
	if d.Action != ActionKeepNative || d.RuleID != "default" || !d.IsDefault() {
		t.Errorf("unexpected default decision: %+v", d)
	}
}

func TestLinkContext_PathsNilSafe(t *testing.T) {
	var c LinkContext
	if c.CurrentPath() != "" || c.TargetPath() != "" {
		t.Error("expected empty paths for zero context")
	}
}
