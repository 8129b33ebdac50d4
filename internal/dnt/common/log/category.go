package log

import (
	"context"
	"fmt"
	"strings"
)

// Category groups debug output so each area can be switched on separately.
type Category string

const (
	CategorySite  Category = "site"
	CategoryClick Category = "click"
	CategoryLink  Category = "link"
	CategoryRules Category = "rules"
	CategoryFinal Category = "final"
	CategoryBg    Category = "bg"
)

// Categories lists every known category in display order.
var Categories = []Category{CategorySite, CategoryClick, CategoryLink, CategoryRules, CategoryFinal, CategoryBg}

// ParseCategory converts a string into a Category (case-insensitive).
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown debug category: %q", s)
}

// CategorySource reports the live debug switches. Implementations are
// consulted on every record so toggles apply immediately.
type CategorySource interface {
	DebugEnabled(ctx context.Context) bool
	DebugCategories(ctx context.Context) map[Category]bool
}

// CategoryLogger gates debug records behind the master switch and the
// per-category switch reported by its source.
type CategoryLogger struct {
	base   Logger
	source CategorySource
	label  string
}

// NewCategoryLogger builds a CategoryLogger. A nil source disables all
// category output; a nil base falls back to the global logger.
func NewCategoryLogger(base Logger, source CategorySource, label string) *CategoryLogger {
	return &CategoryLogger{base: base, source: source, label: label}
}

// Enabled reports whether records for cat would be emitted right now.
func (c *CategoryLogger) Enabled(ctx context.Context, cat Category) bool {
	if c == nil || c.source == nil {
		return false
	}
	if !c.source.DebugEnabled(ctx) {
		return false
	}
	return c.source.DebugCategories(ctx)[cat]
}

// Debug emits a debug record for cat when the category is on.
func (c *CategoryLogger) Debug(ctx context.Context, cat Category, fields map[string]any, msg string) {
	if !c.Enabled(ctx, cat) {
		return
	}
	c.logger().Debug(c.decorate(cat, fields), msg)
}

// Error emits an error record for cat when the category is on. Category
// errors are diagnostics, never user-facing failures.
func (c *CategoryLogger) Error(ctx context.Context, cat Category, fields map[string]any, msg string) {
	if !c.Enabled(ctx, cat) {
		return
	}
	c.logger().Error(c.decorate(cat, fields), msg)
}

func (c *CategoryLogger) logger() Logger {
	if c.base != nil {
		return c.base
	}
	return global
}

func (c *CategoryLogger) decorate(cat Category, fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	out["category"] = string(cat)
	if c.label != "" {
		out["label"] = c.label
	}
	return out
}
