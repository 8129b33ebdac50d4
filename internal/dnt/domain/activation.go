package domain

import (
	"fmt"
	"strings"
)

// ListKind selects the whitelist or the blacklist.
type ListKind uint8

const (
	// Whitelist forces activation on matching hosts.
	Whitelist ListKind = iota
	// Blacklist prevents activation on matching hosts.
	Blacklist
)

// String returns a stable string representation of the list kind.
func (k ListKind) String() string {
	switch k {
	case Whitelist:
		return "whitelist"
	case Blacklist:
		return "blacklist"
	default:
		return fmt.Sprintf("ListKind(%d)", k)
	}
}

// ParseListKind accepts "white", "whitelist", "black", "blacklist" (case-insensitive).
func ParseListKind(s string) (ListKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "whitelist":
		return Whitelist, nil
	case "black", "blacklist":
		return Blacklist, nil
	default:
		return 0, fmt.Errorf("unsupported list kind: %q", s)
	}
}

// EnableReason explains an enablement result.
type EnableReason string

const (
	ReasonBlacklist EnableReason = "blacklist"
	ReasonWhitelist EnableReason = "whitelist"
	ReasonAuto      EnableReason = "auto"
	ReasonDisabled  EnableReason = "disabled"
)

// EnableResult is the per-host activation verdict.
type EnableResult struct {
	Enabled bool
	Reason  EnableReason
}

// ActivationState is one of the four terminal states of the site gate.
type ActivationState string

const (
	StateBlacklisted  ActivationState = "blacklisted"
	StateWhitelisted  ActivationState = "whitelisted"
	StateAutoDetected ActivationState = "auto-detected"
	StateInactive     ActivationState = "inactive"
)

// Attaches reports whether the click listener is installed in this state.
func (s ActivationState) Attaches() bool {
	return s == StateWhitelisted || s == StateAutoDetected
}

// StateFor maps an enablement reason onto the gate state.
func StateFor(r EnableReason) ActivationState {
	switch r {
	case ReasonBlacklist:
		return StateBlacklisted
	case ReasonWhitelist:
		return StateWhitelisted
	case ReasonAuto:
		return StateAutoDetected
	default:
		return StateInactive
	}
}
