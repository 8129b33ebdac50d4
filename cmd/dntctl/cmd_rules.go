package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haukened/discourse-new-tab/internal/dnt/rules"
)

func newRulesCommand(app *Application) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rule switches in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := app.settings.RuleFlags(cmd.Context())
			out := cmd.OutOrStdout()
			for _, sw := range rules.Describe(app.rules) {
				fmt.Fprintf(out, "%s [%s] enabled=%t\n", sw.ID, sw.Group, flags[sw.ID])
				for _, e := range sw.Rules {
					fmt.Fprintf(out, "  #%d %s (on: %s, off: %s)\n", e.Position, e.Name, e.EnabledAction, e.DisabledAction)
				}
			}
			return nil
		},
	}
}

func newFlagsCommand(app *Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Read and change rule switches",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print every switch and its state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				flags := app.settings.RuleFlags(cmd.Context())
				for _, id := range rules.IDs(app.rules) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%t\n", id, flags[id])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set ID on|off",
			Short: "Turn one switch on or off",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := strings.TrimSpace(args[0])
				if !app.knownRule(id) {
					return fmt.Errorf("unknown rule id %q", id)
				}
				on, err := parseSwitch(args[1])
				if err != nil {
					return err
				}
				if err := app.settings.SetRuleEnabled(cmd.Context(), id, on); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%t\n", id, on)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore every switch to its default",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.settings.ResetRuleFlags(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "rule flags reset")
				return nil
			},
		},
	)
	return cmd
}

// parseSwitch accepts on/off as well as anything strconv.ParseBool takes.
func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "enable", "enabled":
		return true, nil
	case "off", "disable", "disabled":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return v, nil
}
