package main

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/gateways/dom"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/engine"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/listener"
)

// tracingEngine keeps the steps of the last evaluation.
type tracingEngine struct {
	engine *engine.Engine
	steps  []engine.Step
}

func (t *tracingEngine) Evaluate(ctx context.Context, rules []domain.Rule, lctx domain.LinkContext) domain.Decision {
	d, steps := t.engine.EvaluateTrace(ctx, rules, lctx)
	t.steps = steps
	return d
}

// printOpener reports tabs instead of opening them.
type printOpener struct {
	w io.Writer
}

func (p printOpener) Open(_ context.Context, u *url.URL, background bool) error {
	where := "foreground"
	if background {
		where = "background"
	}
	_, err := fmt.Fprintf(p.w, "open %s (%s)\n", u, where)
	return err
}

func newDecideCommand(app *Application) *cobra.Command {
	var (
		pf    pageFlags
		sel   string
		trace bool
		force bool
		ev    listener.ClickEvent
	)
	cmd := &cobra.Command{
		Use:   "decide PAGE.html",
		Short: "Replay a click on an element of a page snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dom.ValidSelector(sel) {
				return fmt.Errorf("invalid selector %q", sel)
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			page, err := pf.load(args[0])
			if err != nil {
				return err
			}
			target := page.Doc.Query(sel)
			if target == nil {
				return fmt.Errorf("no element matches %q", sel)
			}

			te := &tracingEngine{engine: app.engine}
			lcfg := listener.Config{
				Engine:         te,
				Rules:          app.rules,
				Modes:          app.settings,
				Opener:         printOpener{w: out},
				Report:         app.report,
				InferRowClicks: app.config.InferRowClicks,
			}
			l, gate := listener.Attach(ctx, app.gate, page, lcfg)
			if l == nil {
				fmt.Fprintf(out, "listener not attached on %s (state %s)\n", gate.Host, gate.State)
				if !force {
					return nil
				}
				l = listener.New(lcfg)
			}

			ev.Target = target
			ev.PageURL = page.URL
			res := l.Handle(ctx, ev)

			if trace {
				printSteps(out, te.steps)
			}
			if res.Decision != nil {
				fmt.Fprintf(out, "decision: %s (rule %s)\n", res.Decision.Action, res.Decision.RuleID)
				if href, ok := target.Closest("a").Attr("href"); ok {
					if u, err := page.URL.Parse(href); err == nil {
						info := app.classifier.Classify(u, page.URL)
						fmt.Fprintf(out, "target: kind=%s topic=%d user=%s\n", info.Kind, info.TopicID, info.Username)
					}
				}
			}
			fmt.Fprintf(out, "outcome: %s (prevent_default=%t)\n", res.Reason, res.PreventDefault)
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&sel, "select", "s", "", "CSS selector of the clicked element")
	cmd.Flags().BoolVar(&trace, "trace", false, "print every rule evaluation")
	cmd.Flags().BoolVar(&force, "force", false, "handle the click even if the listener would not attach")
	cmd.Flags().IntVar(&ev.Button, "button", 0, "mouse button (0 is primary)")
	cmd.Flags().BoolVar(&ev.Ctrl, "ctrl", false, "hold ctrl")
	cmd.Flags().BoolVar(&ev.Meta, "meta", false, "hold meta")
	cmd.Flags().BoolVar(&ev.Shift, "shift", false, "hold shift")
	cmd.Flags().BoolVar(&ev.Alt, "alt", false, "hold alt")
	_ = cmd.MarkFlagRequired("select")
	return cmd
}

func printSteps(w io.Writer, steps []engine.Step) {
	for _, s := range steps {
		state := "miss"
		if s.Err != nil {
			state = "error: " + s.Err.Error()
		} else if s.Matched {
			state = fmt.Sprintf("match enabled=%t -> %s", s.Enabled, s.Action)
		}
		fmt.Fprintf(w, "%2d %-32s %s\n", s.Index, s.RuleID, state)
	}
}
