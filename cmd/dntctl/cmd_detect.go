package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDetectCommand(app *Application) *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "detect PAGE.html",
		Short: "Score a page snapshot against the forum signals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := pf.load(args[0])
			if err != nil {
				return err
			}
			res := app.detector.Detect(cmd.Context(), page)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "discourse: %t (score %d/%d)\n", res.IsDiscourse, res.Score, res.Threshold)
			for _, s := range res.MatchedSignals {
				if s.Note != "" {
					fmt.Fprintf(out, "  +%d %s (%s)\n", s.Weight, s.Name, s.Note)
				} else {
					fmt.Fprintf(out, "  +%d %s\n", s.Weight, s.Name)
				}
			}
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newActivateCommand(app *Application) *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "activate PAGE.html",
		Short: "Show whether the click listener would attach to a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := pf.load(args[0])
			if err != nil {
				return err
			}
			res := app.gate.Evaluate(cmd.Context(), page)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "host: %s\nstate: %s\nattaches: %t\n", res.Host, res.State, res.Attaches())
			if res.Detection != nil {
				fmt.Fprintf(out, "score: %d/%d\n", res.Detection.Score, res.Detection.Threshold)
			}
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}
