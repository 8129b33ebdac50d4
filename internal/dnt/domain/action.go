package domain

import (
	"fmt"
	"strings"
)

// Action is the navigation outcome chosen for a click.
type Action string

const (
	// ActionNewTab prevents native navigation and opens the target in a new tab.
	ActionNewTab Action = "new_tab"
	// ActionKeepNative leaves the click to the page's own navigation.
	ActionKeepNative Action = "keep_native"
	// ActionSameTab is reserved for forcing same-tab navigation; it is
	// currently applied exactly like ActionKeepNative.
	ActionSameTab Action = "same_tab"
)

// Valid reports whether a is one of the three known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionNewTab, ActionKeepNative, ActionSameTab:
		return true
	default:
		return false
	}
}

// String returns the stable wire name of the action.
func (a Action) String() string { return string(a) }

// ParseAction converts a string (case-insensitive, '-' or '_') into an Action.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !a.Valid() {
		return "", fmt.Errorf("unsupported action: %q", s)
	}
	return a, nil
}
