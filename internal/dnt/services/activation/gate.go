// Package activation decides once per page whether the click listener
// is installed.
package activation

import (
	"context"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
	"github.com/haukened/discourse-new-tab/internal/dnt/common/utils"
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/detector"
)

// Enabler reports the list verdict for a host.
type Enabler interface {
	Enablement(ctx context.Context, autoDetected bool, host string) domain.EnableResult
}

// Detector scores a page.
type Detector interface {
	Detect(ctx context.Context, page detector.Page) domain.DetectResult
}

// Result is the gate verdict for one page.
type Result struct {
	State domain.ActivationState
	Host  string
	// Detection is nil when a list decided before detection ran.
	Detection *domain.DetectResult
}

// Attaches reports whether the listener should be installed.
func (r Result) Attaches() bool { return r.State.Attaches() }

// Gate combines the override lists with forum detection.
type Gate struct {
	lists    Enabler
	detector Detector
	logger   log.Logger
}

// New returns a Gate.
func New(lists Enabler, det Detector, logger log.Logger) *Gate {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Gate{lists: lists, detector: det, logger: logger}
}

// Evaluate runs the gate for page. Detection only runs when neither list
// matched the host.
func (g *Gate) Evaluate(ctx context.Context, page detector.Page) Result {
	u := page.URL
	if u == nil {
		u = page.Doc.URL()
	}
	res := Result{State: domain.StateInactive}
	if u != nil {
		res.Host = utils.CanonicalHostname(u.Hostname())
	}

	verdict := g.lists.Enablement(ctx, false, res.Host)
	if verdict.Reason == domain.ReasonDisabled && g.detector != nil {
		det := g.detector.Detect(ctx, page)
		res.Detection = &det
		if det.IsDiscourse {
			verdict = g.lists.Enablement(ctx, true, res.Host)
		}
	}
	res.State = domain.StateFor(verdict.Reason)

	fields := map[string]any{"host": res.Host, "state": string(res.State)}
	if res.Detection != nil {
		fields["score"] = res.Detection.Score
	}
	g.logger.Debug(fields, "site activation evaluated")
	return res
}
