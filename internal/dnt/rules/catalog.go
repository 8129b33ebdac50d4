package rules

import (
	"errors"
	"strings"

	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/rules/predicate"
)

// Builtin returns the shipped catalogue in priority order.
func Builtin() []domain.Rule {
	return All()
}

// All concatenates the built-in groups with custom rules. Custom rules sit
// after the popup rules and before the attachment rules, so the
// attachment override still wins.
func All(custom ...domain.Rule) []domain.Rule {
	var out []domain.Rule
	out = append(out, TopicRules()...)
	out = append(out, UserRules()...)
	out = append(out, SidebarRules()...)
	out = append(out, PopupRules()...)
	out = append(out, custom...)
	out = append(out, AttachmentRules()...)
	return out
}

// Validate checks every rule and joins the failures.
func Validate(rules []domain.Rule) error {
	var errs []error
	if err := predicate.CheckSelectors(); err != nil {
		errs = append(errs, err)
	}
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IDs returns the distinct switch ids in first-appearance order.
func IDs(rules []domain.Rule) []string {
	seen := make(map[string]struct{}, len(rules))
	var out []string
	for _, r := range rules {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r.ID)
	}
	return out
}

// BuiltinIDs returns the switch ids of the shipped catalogue.
func BuiltinIDs() []string {
	return IDs(Builtin())
}

// Entry describes one rule behind a switch.
type Entry struct {
	Position       int           `json:"position" yaml:"position"`
	Name           string        `json:"name" yaml:"name"`
	EnabledAction  domain.Action `json:"enabled_action" yaml:"enabled_action"`
	DisabledAction domain.Action `json:"disabled_action" yaml:"disabled_action"`
}

// Switch is one stored flag and every rule it gates.
type Switch struct {
	ID    string  `json:"id" yaml:"id"`
	Group string  `json:"group" yaml:"group"`
	Rules []Entry `json:"rules" yaml:"rules"`
}

// Describe groups rules by id, keeping first-appearance order. Position is
// the rule's index in the evaluation order.
func Describe(rules []domain.Rule) []Switch {
	index := map[string]int{}
	var out []Switch
	for i, r := range rules {
		pos, ok := index[r.ID]
		if !ok {
			pos = len(out)
			index[r.ID] = pos
			out = append(out, Switch{ID: r.ID, Group: GroupOf(r.ID)})
		}
		out[pos].Rules = append(out[pos].Rules, Entry{
			Position:       i,
			Name:           r.Name,
			EnabledAction:  r.EnabledAction,
			DisabledAction: r.DisabledAction,
		})
	}
	return out
}

// GroupOf returns the prefix before the first colon of id.
func GroupOf(id string) string {
	if group, _, ok := strings.Cut(id, ":"); ok {
		return group
	}
	return GroupCustom
}
