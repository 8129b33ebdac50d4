package engine

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/rules"
)

type MockFlags struct {
	mock.Mock
}

func (m *MockFlags) RuleEnabled(ctx context.Context, id string) bool {
	args := m.Called(ctx, id)
	return args.Bool(0)
}

// mapFlags reads from a map and records lookup order. Missing ids are on.
type mapFlags struct {
	values map[string]bool
	reads  []string
}

func (f *mapFlags) RuleEnabled(_ context.Context, id string) bool {
	f.reads = append(f.reads, id)
	if v, ok := f.values[id]; ok {
		return v
	}
	return true
}

func always(note string) domain.MatchFunc {
	return func(domain.LinkContext) (*domain.MatchResult, error) { return domain.Matched(note), nil }
}

func never() domain.MatchFunc {
	return func(domain.LinkContext) (*domain.MatchResult, error) { return nil, nil }
}

func rule(id string, match domain.MatchFunc, on, off domain.Action) domain.Rule {
	return domain.Rule{ID: id, Name: id, Match: match, EnabledAction: on, DisabledAction: off}
}

func link(t *testing.T, current, target string) domain.LinkContext {
	t.Helper()
	cu, err := url.Parse("https://forum.example" + current)
	require.NoError(t, err)
	tu, err := url.Parse("https://forum.example" + target)
	require.NoError(t, err)
	return domain.LinkContext{CurrentURL: cu, TargetURL: tu}
}

func TestEvaluate_NoMatchDefault(t *testing.T) {
	e := New(nil, nil)
	d := e.Evaluate(context.Background(), []domain.Rule{
		rule("a", never(), domain.ActionNewTab, domain.ActionKeepNative),
	}, domain.LinkContext{})
	assert.Equal(t, domain.DefaultDecision(), d)
	assert.True(t, d.IsDefault())

	d = e.Evaluate(context.Background(), nil, domain.LinkContext{})
	assert.Equal(t, domain.ActionKeepNative, d.Action)
	assert.Equal(t, "default", d.RuleID)
}

func TestEvaluate_OverrideWins(t *testing.T) {
	actions := []domain.Action{domain.ActionNewTab, domain.ActionKeepNative, domain.ActionSameTab}
	for _, first := range actions {
		for _, second := range actions {
			e := New(nil, nil)
			d := e.Evaluate(context.Background(), []domain.Rule{
				rule("r1", always("one"), first, first),
				rule("r2", always("two"), second, domain.ActionKeepNative),
			}, domain.LinkContext{})
			assert.Equal(t, second, d.Action, "%s then %s", first, second)
			assert.Equal(t, "r2", d.RuleID)
			require.NotNil(t, d.Debug)
			assert.Equal(t, "two", d.Debug.Note)
		}
	}
}

func TestEvaluate_OverrideUsesLaterFlag(t *testing.T) {
	flags := &mapFlags{values: map[string]bool{"r2": false, "r1": true}}
	d := New(flags, nil).Evaluate(context.Background(), []domain.Rule{
		rule("r1", always(""), domain.ActionKeepNative, domain.ActionKeepNative),
		rule("r2", always(""), domain.ActionKeepNative, domain.ActionNewTab),
		rule("r3", never(), domain.ActionKeepNative, domain.ActionKeepNative),
	}, domain.LinkContext{})
	assert.Equal(t, domain.ActionNewTab, d.Action)
	assert.Equal(t, "r2", d.RuleID)
	assert.Equal(t, []string{"r1", "r2"}, flags.reads, "flags are read in list order and only on match")
}

func TestEvaluate_FlagInversion(t *testing.T) {
	rs := []domain.Rule{rule("only", always(""), domain.ActionNewTab, domain.ActionKeepNative)}

	m := &MockFlags{}
	m.On("RuleEnabled", mock.Anything, "only").Return(true).Once()
	m.On("RuleEnabled", mock.Anything, "only").Return(false).Once()
	e := New(m, nil)

	assert.Equal(t, domain.ActionNewTab, e.Evaluate(context.Background(), rs, domain.LinkContext{}).Action)
	assert.Equal(t, domain.ActionKeepNative, e.Evaluate(context.Background(), rs, domain.LinkContext{}).Action)
	m.AssertExpectations(t)
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := New(&mapFlags{values: map[string]bool{rules.TopicSameTopicKeepNative: false}}, nil)
	ctx := link(t, "/t/intro-thread/100/5", "/t/intro-thread/100/12")
	first := e.Evaluate(context.Background(), rules.Builtin(), ctx)
	second := e.Evaluate(context.Background(), rules.Builtin(), ctx)
	assert.Equal(t, first, second)
}

func TestEvaluate_PredicateFailuresAreNoMatch(t *testing.T) {
	boom := func(domain.LinkContext) (*domain.MatchResult, error) { panic("selector exploded") }
	failing := func(domain.LinkContext) (*domain.MatchResult, error) {
		return domain.Matched("ignored"), errors.New("lookup failed")
	}
	rs := []domain.Rule{
		rule("first", always(""), domain.ActionNewTab, domain.ActionKeepNative),
		rule("panics", boom, domain.ActionKeepNative, domain.ActionKeepNative),
		rule("errors", failing, domain.ActionKeepNative, domain.ActionKeepNative),
		{ID: "nil-match", EnabledAction: domain.ActionKeepNative, DisabledAction: domain.ActionKeepNative},
	}
	e := New(nil, nil)
	d, steps := e.EvaluateTrace(context.Background(), rs, domain.LinkContext{})
	assert.Equal(t, domain.ActionNewTab, d.Action)
	assert.Equal(t, "first", d.RuleID)

	require.Len(t, steps, 4)
	assert.True(t, steps[0].Matched)
	assert.False(t, steps[1].Matched)
	assert.True(t, errors.Is(steps[1].Err, ErrPredicatePanic))
	assert.False(t, steps[2].Matched)
	assert.EqualError(t, steps[2].Err, "lookup failed")
	assert.True(t, errors.Is(steps[3].Err, domain.ErrInvalidRule))
}

func TestEvaluate_SharedIDsShareOneFlag(t *testing.T) {
	flags := &mapFlags{values: map[string]bool{"shared": false}}
	rs := []domain.Rule{
		rule("shared", always("a"), domain.ActionNewTab, domain.ActionKeepNative),
		rule("other", always(""), domain.ActionNewTab, domain.ActionNewTab),
		rule("shared", always("b"), domain.ActionKeepNative, domain.ActionSameTab),
	}
	d := New(flags, nil).Evaluate(context.Background(), rs, domain.LinkContext{})
	assert.Equal(t, domain.ActionSameTab, d.Action)
	assert.Equal(t, "shared", d.RuleID)
	assert.Equal(t, "b", d.Debug.Note)
	assert.Equal(t, []string{"shared", "other", "shared"}, flags.reads)
}

func TestEvaluateTrace_Steps(t *testing.T) {
	flags := &mapFlags{values: map[string]bool{rules.TopicOpenNewTab: false}}
	d, steps := New(flags, nil).EvaluateTrace(context.Background(), rules.TopicRules(), link(t, "/latest", "/t/slug/9"))
	assert.Equal(t, domain.ActionKeepNative, d.Action)
	assert.Equal(t, rules.TopicOpenNewTab, d.RuleID)
	require.Len(t, steps, 3)
	assert.True(t, steps[0].Matched)
	assert.False(t, steps[0].Enabled)
	assert.Equal(t, 9, steps[0].Match.Data["targetTopicId"])
	assert.False(t, steps[1].Matched)
	assert.False(t, steps[2].Matched)
}

func TestEvaluate_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		action  domain.Action
		ruleID  string
	}{
		{"same-topic floor jump", "/t/intro-thread/100/5", "/t/intro-thread/100/12", domain.ActionKeepNative, rules.TopicSameTopicKeepNative},
		{"cross-topic link inside a topic", "/t/intro-thread/100", "/t/other-thread/200", domain.ActionNewTab, rules.TopicInTopicOpenOther},
		{"topics sharing a numeric slug", "/t/2024/99/3", "/t/2024/100", domain.ActionNewTab, rules.TopicInTopicOpenOther},
		{"attachment inside topic", "/t/intro-thread/100", "/t/intro-thread/100/uploads/default/a.png", domain.ActionKeepNative, rules.AttachmentKeepNative},
		{"upload from topic", "/t/intro-thread/100", "/uploads/short-url/abc.png", domain.ActionKeepNative, rules.AttachmentKeepNative},
		{"topic from list", "/latest", "/t/slug/42", domain.ActionNewTab, rules.TopicOpenNewTab},
		{"profile from list", "/latest", "/u/alice", domain.ActionNewTab, rules.UserOpenNewTab},
		{"same profile", "/u/alice/summary", "/u/alice/activity", domain.ActionKeepNative, rules.UserSameProfileKeepNative},
		{"list navigation", "/latest", "/top", domain.ActionKeepNative, domain.DefaultRuleID},
	}
	e := New(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Evaluate(context.Background(), rules.Builtin(), link(t, tt.current, tt.target))
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.ruleID, d.RuleID)
		})
	}
}

func TestEvaluate_DisabledAttachmentOpensNewTab(t *testing.T) {
	flags := &mapFlags{values: map[string]bool{rules.AttachmentKeepNative: false}}
	d := New(flags, nil).Evaluate(context.Background(), rules.Builtin(), link(t, "/latest", "/uploads/a.pdf"))
	assert.Equal(t, domain.ActionNewTab, d.Action)
}

func TestEvaluate_NilEngine(t *testing.T) {
	var e *Engine
	d := e.Evaluate(context.Background(), []domain.Rule{
		rule("x", always(""), domain.ActionNewTab, domain.ActionKeepNative),
	}, domain.LinkContext{})
	assert.Equal(t, domain.ActionNewTab, d.Action)
}
