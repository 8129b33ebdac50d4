// Package detector scores a page snapshot against weighted forum
// signals. A page whose score reaches the threshold counts as a
// Discourse forum.
package detector

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/gateways/dom"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/debuglog"
)

// Signal names as reported in DetectResult.
const (
	SignalMetaGenerator  = "meta:generator=Discourse"
	SignalGlobalObject   = "window.Discourse present"
	SignalDiscourseMeta  = "meta:discourse_* or application-name=Discourse"
	SignalDOMStructure   = "DOM: #main-outlet/.topic-list/og:site_name"
	SignalURLPathPattern = "URL path has Discourse route"
)

var pathPatterns = []string{"/t/", "/u/", "/c/", "/tags", "/latest", "/top"}

// Page is what detection looks at.
type Page struct {
	Doc *dom.Document
	// URL defaults to Doc.URL() when nil.
	URL *url.URL
	// Globals lists the names defined on the page's global object.
	Globals map[string]bool
}

func (p Page) url() *url.URL {
	if p.URL != nil {
		return p.URL
	}
	return p.Doc.URL()
}

type signal struct {
	name   string
	weight int
	test   func(Page) (bool, string, error)
}

var signals = []signal{
	{SignalMetaGenerator, 3, metaGenerator},
	{SignalGlobalObject, 3, globalObject},
	{SignalDiscourseMeta, 2, discourseMeta},
	{SignalDOMStructure, 2, domStructure},
	{SignalURLPathPattern, 1, urlPathPattern},
}

// Detector evaluates every signal independently.
type Detector struct {
	report *debuglog.Reporter
}

// New returns a Detector. report may be nil.
func New(report *debuglog.Reporter) *Detector {
	return &Detector{report: report}
}

// Detect scores page. A signal that fails counts as unmatched.
func (d *Detector) Detect(ctx context.Context, page Page) domain.DetectResult {
	res := domain.DetectResult{Threshold: domain.DetectionThreshold}
	for _, s := range signals {
		ok, note, err := runSignal(s, page)
		if err != nil {
			d.reporter().LogError(ctx, log.CategorySite, fmt.Sprintf("signal %q failed", s.name), err)
			continue
		}
		if !ok {
			continue
		}
		res.Score += s.weight
		res.MatchedSignals = append(res.MatchedSignals, domain.Signal{Name: s.name, Weight: s.weight, Note: note})
	}
	res.IsDiscourse = res.Score >= res.Threshold
	d.reporter().LogSiteDetection(ctx, res)
	return res
}

func (d *Detector) reporter() *debuglog.Reporter {
	if d == nil {
		return nil
	}
	return d.report
}

func runSignal(s signal, page Page) (ok bool, note string, err error) {
	defer func() {
		if p := recover(); p != nil {
			ok, note, err = false, "", fmt.Errorf("panic: %v", p)
		}
	}()
	return s.test(page)
}

func metaGenerator(p Page) (bool, string, error) {
	content := strings.ToLower(strings.TrimSpace(domain.AttrValue(p.Doc.Query(`meta[name="generator"]`), "content")))
	return strings.Contains(content, "discourse"), content, nil
}

func globalObject(p Page) (bool, string, error) {
	return p.Globals["Discourse"], "", nil
}

func discourseMeta(p Page) (bool, string, error) {
	for _, m := range p.Doc.QueryAll("meta[name]") {
		name := domain.AttrValue(m, "name")
		if strings.HasPrefix(name, "discourse_") {
			return true, name, nil
		}
		if name == "application-name" && strings.Contains(strings.ToLower(domain.AttrValue(m, "content")), "discourse") {
			return true, name, nil
		}
	}
	return false, "", nil
}

func domStructure(p Page) (bool, string, error) {
	for _, sel := range []string{"#main-outlet", ".topic-list", `meta[property="og:site_name"]`} {
		if p.Doc.Query(sel) != nil {
			return true, sel, nil
		}
	}
	return false, "", nil
}

func urlPathPattern(p Page) (bool, string, error) {
	u := p.url()
	if u == nil {
		return false, "", fmt.Errorf("page has no url")
	}
	path := strings.ToLower(u.Path)
	for _, pat := range pathPatterns {
		if strings.Contains(path, pat) {
			return true, path, nil
		}
	}
	return false, path, nil
}

var globalAssignRe = regexp.MustCompile(`\b(?:window\.)?Discourse\s*(?:=[^=]|\.\w)`)

// InferGlobals guesses the page globals from inline scripts and script
// sources, for snapshots taken without a live global object.
func InferGlobals(doc *dom.Document) map[string]bool {
	globals := map[string]bool{}
	for _, s := range doc.QueryAll("script") {
		if globalAssignRe.MatchString(s.Text()) {
			globals["Discourse"] = true
			break
		}
		if src := domain.AttrValue(s, "src"); strings.Contains(src, "/assets/discourse") {
			globals["Discourse"] = true
			break
		}
	}
	return globals
}
