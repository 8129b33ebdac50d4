package domain

import (
	"fmt"
	"strings"
)

// BackgroundOpenMode decides whether new tabs open in the background.
type BackgroundOpenMode string

const (
	// BackgroundNone always opens new tabs in the foreground.
	BackgroundNone BackgroundOpenMode = "none"
	// BackgroundTopic opens topic links in the background.
	BackgroundTopic BackgroundOpenMode = "topic"
	// BackgroundAll opens every new tab in the background.
	BackgroundAll BackgroundOpenMode = "all"
)

// Valid reports whether m is a known mode.
func (m BackgroundOpenMode) Valid() bool {
	switch m {
	case BackgroundNone, BackgroundTopic, BackgroundAll:
		return true
	default:
		return false
	}
}

// ParseBackgroundOpenMode converts a string into a BackgroundOpenMode.
func ParseBackgroundOpenMode(s string) (BackgroundOpenMode, error) {
	m := BackgroundOpenMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unsupported background open mode: %q", s)
	}
	return m, nil
}
