package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/haukened/discourse-new-tab/internal/dnt/repos/kv"
	"github.com/haukened/discourse-new-tab/internal/dnt/rules"
)

// snapshot is the exported settings document.
type snapshot struct {
	Version        string          `yaml:"version"`
	BackgroundMode string          `yaml:"background_mode"`
	Debug          debugSnapshot   `yaml:"debug"`
	RuleFlags      map[string]bool `yaml:"rule_flags"`
	Whitelist      []string        `yaml:"whitelist"`
	Blacklist      []string        `yaml:"blacklist"`
	Switches       []rules.Switch  `yaml:"switches,omitempty"`
	Store          *kv.Stats       `yaml:"store,omitempty"`
}

type debugSnapshot struct {
	Enabled    bool            `yaml:"enabled"`
	Categories map[string]bool `yaml:"categories"`
}

func newExportCommand(app *Application) *cobra.Command {
	var withRules bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print every setting as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lists, err := app.lists.Lists(ctx)
			if err != nil {
				return err
			}
			cats := map[string]bool{}
			for c, on := range app.settings.DebugCategories(ctx) {
				cats[string(c)] = on
			}
			snap := snapshot{
				Version:        version,
				BackgroundMode: string(app.settings.BackgroundOpenMode(ctx)),
				Debug:          debugSnapshot{Enabled: app.settings.DebugEnabled(ctx), Categories: cats},
				RuleFlags:      app.settings.RuleFlags(ctx),
				Whitelist:      lists.Whitelist,
				Blacklist:      lists.Blacklist,
			}
			if withRules {
				snap.Switches = rules.Describe(app.rules)
			}
			if sr, ok := app.store.(kv.StatsReporter); ok {
				stats := sr.Stats()
				snap.Store = &stats
			}
			raw, err := yaml.Marshal(snap)
			if err != nil {
				return fmt.Errorf("failed to encode settings: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
	cmd.Flags().BoolVar(&withRules, "rules", false, "include the rule catalogue")
	return cmd
}
