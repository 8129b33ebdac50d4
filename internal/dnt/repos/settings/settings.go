// Package settings persists the user-facing switches: the per-rule flags,
// the background open mode and the debug switches. Reads never fail;
// unreadable values fall back to their defaults.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/repos/kv"
)

// Storage keys.
const (
	KeyRuleFlags       = "ruleFlags"
	KeyBackgroundMode  = "open:bg-mode"
	KeyDebugEnabled    = "debug:enabled"
	KeyDebugCategories = "debug:categories"
)

// DefaultBackgroundMode is used when no valid mode is stored.
const DefaultBackgroundMode = domain.BackgroundNone

// ErrInvalidMode is returned when storing an unknown background mode.
var ErrInvalidMode = errors.New("invalid background open mode")

// Store reads and writes settings through a kv.Store.
type Store struct {
	kv       kv.Store
	defaults map[string]bool
	logger   log.Logger
}

// New returns a Store. knownIDs seed the rule flag defaults (all true).
func New(store kv.Store, knownIDs []string, logger log.Logger) *Store {
	if logger == nil {
		logger = log.GetLogger()
	}
	defaults := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		defaults[id] = true
	}
	return &Store{kv: store, defaults: defaults, logger: logger}
}

func (s *Store) readFailed(key string, err error) {
	s.logger.Warn(map[string]any{"key": key, "error": err.Error()}, "settings read failed, using default")
}

// RuleFlags returns the defaults merged with every stored flag.
func (s *Store) RuleFlags(ctx context.Context) map[string]bool {
	out := make(map[string]bool, len(s.defaults))
	for id, v := range s.defaults {
		out[id] = v
	}
	var saved map[string]bool
	if _, err := kv.GetJSON(ctx, s.kv, KeyRuleFlags, &saved); err != nil {
		s.readFailed(KeyRuleFlags, err)
		return out
	}
	for id, v := range saved {
		out[id] = v
	}
	return out
}

// RuleEnabled reports the stored flag for id. Unset or unreadable flags are true.
func (s *Store) RuleEnabled(ctx context.Context, id string) bool {
	if v, ok := s.RuleFlags(ctx)[id]; ok {
		return v
	}
	return true
}

// SetRuleEnabled stores the flag for id.
func (s *Store) SetRuleEnabled(ctx context.Context, id string, enabled bool) error {
	flags := s.RuleFlags(ctx)
	flags[id] = enabled
	if err := kv.PutJSON(ctx, s.kv, KeyRuleFlags, flags); err != nil {
		return fmt.Errorf("failed to store rule flag %q: %w", id, err)
	}
	return nil
}

// ResetRuleFlags removes every stored flag so the defaults apply again.
func (s *Store) ResetRuleFlags(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyRuleFlags)
}

// BackgroundOpenMode returns the stored mode, or none for missing and unknown values.
func (s *Store) BackgroundOpenMode(ctx context.Context) domain.BackgroundOpenMode {
	var raw string
	found, err := kv.GetJSON(ctx, s.kv, KeyBackgroundMode, &raw)
	if err != nil {
		s.readFailed(KeyBackgroundMode, err)
		return DefaultBackgroundMode
	}
	if !found {
		return DefaultBackgroundMode
	}
	mode := domain.BackgroundOpenMode(raw)
	if !mode.Valid() {
		return DefaultBackgroundMode
	}
	return mode
}

// SetBackgroundOpenMode stores mode.
func (s *Store) SetBackgroundOpenMode(ctx context.Context, mode domain.BackgroundOpenMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	return kv.PutJSON(ctx, s.kv, KeyBackgroundMode, string(mode))
}

// DebugEnabled reports the master debug switch (default off).
func (s *Store) DebugEnabled(ctx context.Context) bool {
	var on bool
	if _, err := kv.GetJSON(ctx, s.kv, KeyDebugEnabled, &on); err != nil {
		s.readFailed(KeyDebugEnabled, err)
		return false
	}
	return on
}

// SetDebugEnabled stores the master debug switch.
func (s *Store) SetDebugEnabled(ctx context.Context, on bool) error {
	return kv.PutJSON(ctx, s.kv, KeyDebugEnabled, on)
}

// DebugCategories returns every category switch, defaulting to on.
func (s *Store) DebugCategories(ctx context.Context) map[log.Category]bool {
	out := make(map[log.Category]bool, len(log.Categories))
	for _, c := range log.Categories {
		out[c] = true
	}
	var saved map[string]bool
	if _, err := kv.GetJSON(ctx, s.kv, KeyDebugCategories, &saved); err != nil {
		s.readFailed(KeyDebugCategories, err)
		return out
	}
	for name, v := range saved {
		if c, err := log.ParseCategory(name); err == nil {
			out[c] = v
		}
	}
	return out
}

// SetDebugCategory stores one category switch.
func (s *Store) SetDebugCategory(ctx context.Context, cat log.Category, on bool) error {
	cats := s.DebugCategories(ctx)
	cats[cat] = on
	return s.putCategories(ctx, cats)
}

// SetAllDebugCategories stores the same value for every category.
func (s *Store) SetAllDebugCategories(ctx context.Context, on bool) error {
	cats := make(map[log.Category]bool, len(log.Categories))
	for _, c := range log.Categories {
		cats[c] = on
	}
	return s.putCategories(ctx, cats)
}

func (s *Store) putCategories(ctx context.Context, cats map[log.Category]bool) error {
	raw := make(map[string]bool, len(cats))
	for c, v := range cats {
		raw[string(c)] = v
	}
	return kv.PutJSON(ctx, s.kv, KeyDebugCategories, raw)
}

var _ log.CategorySource = (*Store)(nil)
