// Package listener routes primary clicks through the decision engine and
// opens new tabs when a rule asks for one. Every internal failure falls
// back to the page's native navigation.
package listener

import (
	"context"
	"fmt"
	"net/url"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/gateways/dom"
	"github.com/haukened/discourse-new-tab/internal/dnt/rules/predicate"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/activation"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/classify"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/debuglog"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/detector"
)

// Marker attributes.
const (
	AttrIgnore  = "data-dnt-ignore"
	AttrHandled = "data-dnt-handled"
)

// Filter reasons reported in Outcome.Reason.
const (
	ReasonNotPlainClick    = "not a plain left click"
	ReasonDefaultPrevented = "default already prevented"
	ReasonNoAnchor         = "no anchor"
	ReasonNoHref           = "anchor has no href"
	ReasonDownload         = "download link"
	ReasonIgnored          = "escape hatch marker"
	ReasonUnresolvable     = "href not resolvable"
	ReasonNative           = "native navigation"
	ReasonOpened           = "opened in new tab"
	ReasonOpenFailed       = "tab open failed"
	ReasonInternalError    = "internal error"
)

// ClickEvent is one click observed in the capture phase.
type ClickEvent struct {
	Button           int
	Ctrl             bool
	Meta             bool
	Shift            bool
	Alt              bool
	DefaultPrevented bool
	Target           *dom.Element
	PageURL          *url.URL
}

// PlainLeft reports whether the click is a primary click without modifiers.
func (ev ClickEvent) PlainLeft() bool {
	return ev.Button == 0 && !ev.Ctrl && !ev.Meta && !ev.Shift && !ev.Alt
}

// Opened describes a tab the listener opened.
type Opened struct {
	URL        string
	Background bool
}

// Outcome is what the listener did with a click.
type Outcome struct {
	Handled         bool
	PreventDefault  bool
	StopPropagation bool
	Decision        *domain.Decision
	Opened          *Opened
	Reason          string
}

// Evaluator folds the rule list for one click.
type Evaluator interface {
	Evaluate(ctx context.Context, rules []domain.Rule, lctx domain.LinkContext) domain.Decision
}

// ModeSource reports the background open mode.
type ModeSource interface {
	BackgroundOpenMode(ctx context.Context) domain.BackgroundOpenMode
}

// TabOpener opens a URL in a new tab.
type TabOpener interface {
	Open(ctx context.Context, u *url.URL, background bool) error
}

// Config wires a Listener.
type Config struct {
	Engine         Evaluator
	Rules          []domain.Rule
	Modes          ModeSource
	Opener         TabOpener
	Report         *debuglog.Reporter
	InferRowClicks bool
}

// Listener handles clicks on an activated page.
type Listener struct {
	cfg Config
}

// New returns a Listener.
func New(cfg Config) *Listener {
	return &Listener{cfg: cfg}
}

// Gate decides whether a page gets a listener.
type Gate interface {
	Evaluate(ctx context.Context, page detector.Page) activation.Result
}

// Attach evaluates the gate for page and returns a Listener only when the
// resulting state attaches one.
func Attach(ctx context.Context, gate Gate, page detector.Page, cfg Config) (*Listener, activation.Result) {
	res := gate.Evaluate(ctx, page)
	if !res.Attaches() {
		return nil, res
	}
	return New(cfg), res
}

// Handle processes one click. It never returns an error; anything that
// goes wrong leaves the click to native navigation.
func (l *Listener) Handle(ctx context.Context, ev ClickEvent) (out Outcome) {
	report := l.cfg.Report
	defer func() {
		if p := recover(); p != nil {
			report.LogError(ctx, log.CategoryClick, "click handling failed", fmt.Errorf("panic: %v", p))
			out = Outcome{Reason: ReasonInternalError}
		}
	}()

	ignore := func(reason string) Outcome {
		report.LogClickFilter(ctx, reason)
		return Outcome{Reason: reason}
	}

	if !ev.PlainLeft() {
		return ignore(ReasonNotPlainClick)
	}
	if ev.DefaultPrevented {
		return ignore(ReasonDefaultPrevented)
	}

	anchor := ev.Target.Closest("a")
	if anchor == nil && l.cfg.InferRowClicks {
		anchor = inferRowAnchor(ev.Target)
		if anchor != nil {
			report.LogClickNote(ctx, "row click resolved to title link")
		}
	}
	if anchor == nil {
		return ignore(ReasonNoAnchor)
	}
	href, ok := anchor.Attr("href")
	if !ok || href == "" {
		return ignore(ReasonNoHref)
	}
	if domain.HasAttr(anchor, "download") {
		return ignore(ReasonDownload)
	}
	if domain.AttrValue(anchor, AttrIgnore) == "1" {
		return ignore(ReasonIgnored)
	}
	target, err := classify.ResolveAbsoluteURL(href, ev.PageURL)
	if err != nil {
		report.LogClickNote(ctx, err.Error())
		return ignore(ReasonUnresolvable)
	}

	lctx := domain.LinkContext{Anchor: anchor, CurrentURL: ev.PageURL, TargetURL: target}
	decision := l.cfg.Engine.Evaluate(ctx, l.cfg.Rules, lctx)
	out = Outcome{Decision: &decision, Reason: ReasonNative}
	if decision.Action != domain.ActionNewTab {
		return out
	}

	background := l.background(ctx, target)
	opened, err := l.open(ctx, target, background)
	if err != nil {
		report.LogError(ctx, log.CategoryClick, "failed to open tab", err)
		out.Reason = ReasonOpenFailed
		return out
	}
	anchor.SetAttr(AttrHandled, "1")
	out.Handled = true
	out.PreventDefault = true
	out.StopPropagation = true
	out.Opened = opened
	out.Reason = ReasonOpened
	return out
}

func (l *Listener) background(ctx context.Context, target *url.URL) bool {
	if l.cfg.Modes == nil {
		return false
	}
	mode := l.cfg.Modes.BackgroundOpenMode(ctx)
	var bg bool
	switch mode {
	case domain.BackgroundAll:
		bg = true
	case domain.BackgroundTopic:
		_, bg = classify.ExtractTopicID(target.EscapedPath())
	}
	if bg {
		l.cfg.Report.LogBackgroundOpen(ctx, mode)
	}
	return bg
}

func (l *Listener) open(ctx context.Context, target *url.URL, background bool) (*Opened, error) {
	if l.cfg.Opener == nil {
		return nil, fmt.Errorf("no tab opener configured")
	}
	if background {
		err := l.cfg.Opener.Open(ctx, target, true)
		if err == nil {
			return &Opened{URL: target.String(), Background: true}, nil
		}
		l.cfg.Report.LogError(ctx, log.CategoryBg, "background open failed, opening in foreground", err)
	}
	if err := l.cfg.Opener.Open(ctx, target, false); err != nil {
		return nil, err
	}
	return &Opened{URL: target.String()}, nil
}

// inferRowAnchor maps a click on the blank area of a topic list row to the
// row's title link. Clicks on controls inside the row are left alone.
func inferRowAnchor(target *dom.Element) *dom.Element {
	if target == nil || predicate.IsInteractive(target) {
		return nil
	}
	row := target.Closest(predicate.TopicRowSelectors...)
	if row == nil {
		return nil
	}
	for _, sel := range predicate.TopicRowLinkSelectors {
		if a := row.Query(sel); a != nil {
			return a
		}
	}
	return nil
}
