package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
)

func newModeCommand(app *Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Read or change the background open mode",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the background open mode",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), app.settings.BackgroundOpenMode(cmd.Context()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set none|topic|all",
			Short: "Choose which new tabs open in the background",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				mode, err := domain.ParseBackgroundOpenMode(args[0])
				if err != nil {
					return err
				}
				if err := app.settings.SetBackgroundOpenMode(cmd.Context(), mode); err != nil {
					return err
				}
				app.report.LogBackgroundModeChange(cmd.Context(), mode, "cli")
				fmt.Fprintln(cmd.OutOrStdout(), mode)
				return nil
			},
		},
	)
	return cmd
}

func newDebugCommand(app *Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Switch debug output and its categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printDebug(cmd, app)
			return nil
		},
	}
	setMaster := func(on bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if err := app.settings.SetDebugEnabled(cmd.Context(), on); err != nil {
				return err
			}
			printDebug(cmd, app)
			return nil
		}
	}
	cmd.AddCommand(
		&cobra.Command{Use: "on", Short: "Enable debug output", Args: cobra.NoArgs, RunE: setMaster(true)},
		&cobra.Command{Use: "off", Short: "Disable debug output", Args: cobra.NoArgs, RunE: setMaster(false)},
		&cobra.Command{
			Use:   "category all|" + strings.Join(categoryNames(), "|") + " on|off",
			Short: "Switch one debug category, or all of them",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				on, err := parseSwitch(args[1])
				if err != nil {
					return err
				}
				if strings.EqualFold(args[0], "all") {
					err = app.settings.SetAllDebugCategories(cmd.Context(), on)
				} else {
					var cat log.Category
					cat, err = log.ParseCategory(args[0])
					if err != nil {
						return err
					}
					err = app.settings.SetDebugCategory(cmd.Context(), cat, on)
				}
				if err != nil {
					return err
				}
				printDebug(cmd, app)
				return nil
			},
		},
	)
	return cmd
}

func printDebug(cmd *cobra.Command, app *Application) {
	ctx := cmd.Context()
	cats := app.settings.DebugCategories(ctx)
	parts := make([]string, 0, len(log.Categories))
	for _, c := range log.Categories {
		parts = append(parts, fmt.Sprintf("%s=%t", c, cats[c]))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "debug=%t %s\n", app.settings.DebugEnabled(ctx), strings.Join(parts, " "))
}

func categoryNames() []string {
	names := make([]string, 0, len(log.Categories))
	for _, c := range log.Categories {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return names
}
